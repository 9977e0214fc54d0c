package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/yanqian/semantic-faq/internal/infra/config"
)

const serviceName = "semantic-faq"

// New constructs the JSON slog logger shared by every component.
func New(cfg *config.Config) *slog.Logger {
	return NewWithWriter(os.Stdout, cfg.Log.Level)
}

// NewWithWriter is New with an explicit sink, used by the CLI to keep stdout clean.
func NewWithWriter(w io.Writer, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(level)})
	return slog.New(handler).With("service", serviceName)
}

func parseLevel(level string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "critical":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
