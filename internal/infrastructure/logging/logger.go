// Package logging provides structured logging utilities.
//
// Text logs are formatted in Maven-style with colors:
// [LEVEL] [SYSTEM] [HH:MM:SS] message key=value
//
// Setting format to "json" switches to slog's JSON handler for log shipping.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/eshaffer321/shopee-orders/internal/infrastructure/config"
)

// NewLogger creates a structured logger based on config
func NewLogger(cfg config.LoggingConfig) *slog.Logger {
	return newLogger(os.Stdout, cfg)
}

// NewLoggerWithSystem creates a logger with a system prefix (e.g., "api", "fetch")
func NewLoggerWithSystem(cfg config.LoggingConfig, system string) *slog.Logger {
	return NewLogger(cfg).With("system", system)
}

// NewLoggerTo is NewLoggerWithSystem writing to w instead of stdout. The
// fetch command logs to stderr so stdout carries only the JSON result.
func NewLoggerTo(w io.Writer, cfg config.LoggingConfig, system string) *slog.Logger {
	return newLogger(w, cfg).With("system", system)
}

func newLogger(w io.Writer, cfg config.LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(cfg.Level),
	}

	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(NewMavenHandler(w, opts))
}

// ParseLevel maps a config level name to a slog level. Unknown names mean info.
func ParseLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
