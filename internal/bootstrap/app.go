package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/semantic-faq/internal/domain/faq"
	"github.com/yanqian/semantic-faq/internal/infra/config"
)

// App encapsulates the HTTP server lifecycle.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	server *http.Server
	faqSvc faq.Service
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, faqSvc faq.Service) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), server: server, faqSvc: faqSvc}
}

// Run loads the stored entries, then serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if err := a.faqSvc.Load(ctx); err != nil {
		return fmt.Errorf("load faq entries: %w", err)
	}

	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.logger.Info("shutdown signal received")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
