package commands

import (
	"github.com/spf13/cobra"

	"github.com/yanqian/semantic-faq/internal/bootstrap"
	"github.com/yanqian/semantic-faq/internal/domain/auth"
)

func newTokenCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "token <subject>",
		Short: "Issue an admin token for the HTTP API",
		Long: `Sign an admin token with auth.jwtSecret (AUTH_JWT_SECRET).

The token is printed as JSON together with its expiry and is accepted by the
/api/v1/faq/entries endpoints as "Authorization: Bearer <token>".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			svc := auth.NewService(bootstrap.ProvideAuthConfig(cfg), opts.newLogger(cfg))
			issued, err := svc.IssueToken(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), issued)
		},
	}
}
