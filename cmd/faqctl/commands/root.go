package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/yanqian/semantic-faq/internal/bootstrap"
	"github.com/yanqian/semantic-faq/internal/domain/faq"
	"github.com/yanqian/semantic-faq/internal/infra/config"
	"github.com/yanqian/semantic-faq/pkg/logger"
)

type globalOptions struct {
	configPath string
	verbose    bool
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:   "faqctl",
		Short: "Manage the semantic FAQ entries",
		Long: `faqctl - command line access to the semantic FAQ store.

Commands read the same configuration as the HTTP server (configs/config.yaml,
CONFIG_PATH and the environment overrides) and operate directly on the
configured storage backend.

Examples:
  # Add an entry and try it out
  faqctl add "How do I install the app?" "Run the installer."
  faqctl ask "how do i install this app"

  # Issue a token for the admin endpoints
  faqctl token ops@example.com`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (overrides CONFIG_PATH)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging on stderr")

	root.AddCommand(
		newAskCmd(opts),
		newAddCmd(opts),
		newUpdateCmd(opts),
		newRemoveCmd(opts),
		newListCmd(opts),
		newSuggestCmd(opts),
		newImportCmd(opts),
		newTokenCmd(opts),
	)
	return root
}

func (o *globalOptions) loadConfig() (*config.Config, error) {
	if o.configPath != "" {
		if err := os.Setenv("CONFIG_PATH", o.configPath); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if o.verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

func (o *globalOptions) newLogger(cfg *config.Config) *slog.Logger {
	level := cfg.Log.Level
	if !o.verbose {
		level = "warn"
	}
	return logger.NewWithWriter(os.Stderr, level)
}

// openService wires the FAQ service against the configured storage and loads it.
func (o *globalOptions) openService(ctx context.Context) (faq.Service, func(), error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	log := o.newLogger(cfg)

	repo, cleanup, err := bootstrap.ProvideFAQRepository(cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}
	enc, err := bootstrap.ProvideEncoder(cfg, log)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("create encoder: %w", err)
	}
	svc := faq.NewService(bootstrap.ProvideFAQConfig(cfg), repo, enc, bootstrap.ProvideAnswerRewriter(cfg, log), log)
	if err := svc.Load(ctx); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("load entries: %w", err)
	}
	return svc, cleanup, nil
}
