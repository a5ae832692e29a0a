// Package logger builds the process-wide structured logger. Both binaries
// log JSON to stdout so log shippers can ingest them unmodified.
package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/statement-ledger/internal/config"
)

// NewLogger builds a JSON slog.Logger at the configured level. Unrecognized
// level names fall back to info. Source locations are attached only at debug
// level, where the lookup cost is acceptable.
func NewLogger(cfg *config.Config) *slog.Logger {
	level := parseLevel(cfg.Logging.Level)

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	})

	log := slog.New(handler)
	log.Info("logger initialized", "level", level)
	return log
}

func parseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
