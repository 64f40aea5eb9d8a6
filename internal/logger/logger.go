// Package logger builds the application's zerolog logger.
package logger

import (
	"io"
	"os"
	"time"

	"gymhero/training-api/internal/config"

	"github.com/rs/zerolog"
)

// New returns a logger writing JSON, or human-readable lines when
// cfg.Format is "console".
func New(cfg config.LogConfig) zerolog.Logger {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter is New with an explicit sink.
func NewWithWriter(cfg config.LogConfig, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if cfg.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("service", "gymhero").
		Logger()
}
