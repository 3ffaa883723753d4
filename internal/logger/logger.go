package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/sdrt-erp/budget-ledger/internal/config"
)

// NewLogger creates and configures a new slog.Logger writing JSON to stdout.
// The log level comes from configuration; debug level also records source
// locations. The service name is attached to every record so the gateway and
// the admin CLI can be told apart in shared log streams.
func NewLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, opts))
	if cfg.Application.Name != "" {
		logger = logger.With("service", cfg.Application.Name)
	}

	logger.Info("logger initialized", "level", level)

	return logger
}
