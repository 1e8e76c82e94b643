// Package logging configures the zerolog logger shared by the CLI and the
// engine components.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Config controls logger construction.
type Config struct {
	// Level is one of debug, info, warn, error. Defaults to info.
	Level string
	// Format is console, json, or auto. Auto picks console on a terminal.
	Format string
	// Out overrides the destination. Defaults to stderr.
	Out io.Writer
}

// New builds a logger from cfg.
func New(cfg Config) zerolog.Logger {
	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}

	format := cfg.Format
	if format == "" || format == "auto" {
		format = "json"
		if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			format = "console"
		}
	}

	if format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	return zerolog.New(out).Level(parseLevel(cfg.Level)).With().Timestamp().Logger()
}

// NewFromEnv builds a logger honoring APPUPDATER_LOG_LEVEL and
// APPUPDATER_LOG_FORMAT.
func NewFromEnv() zerolog.Logger {
	return New(Config{
		Level:  os.Getenv("APPUPDATER_LOG_LEVEL"),
		Format: os.Getenv("APPUPDATER_LOG_FORMAT"),
	})
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "", "info":
		return zerolog.InfoLevel
	default:
		return zerolog.InfoLevel
	}
}
