// Package logger builds the root structured logger for the ladder engine.
// One root logger is constructed at startup and tagged with the service
// name; packages derive their own loggers from it with
// log.With().Str("component", ...).
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const serviceName = "ladder-engine"

// Config holds logger configuration
type Config struct {
	Level  string // debug, info, warn, error
	Pretty bool   // Console writer for local development
}

// New creates the root logger and sets the global level. Unrecognized
// level strings fall back to info.
func New(cfg Config) zerolog.Logger {
	return build(cfg, os.Stdout)
}

func build(cfg Config, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.Pretty {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "15:04:05",
		}
	}

	return zerolog.New(out).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}

// SetGlobalLogger routes zerolog's package-level logger through the root
// logger so stray log.Info() calls carry the same fields.
func SetGlobalLogger(l zerolog.Logger) {
	log.Logger = l
}
