package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Supported output formats.
const (
	FormatText    = "text"
	FormatJSON    = "json"
	FormatZerolog = "zerolog"
	FormatConsole = "console"
)

// Options controls logger construction.
type Options struct {
	// Level is one of debug, info, warn, error. Unknown values mean info.
	Level string
	// Format selects the backend: text/json use slog, zerolog/console use zerolog.
	Format string
	// Output defaults to os.Stderr.
	Output io.Writer
}

// New builds a Logger for the given options.
func New(opts Options) Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case FormatZerolog:
		zl := zerolog.New(out).Level(zerologLevel(opts.Level)).With().Timestamp().Logger()
		return NewZerologLogger(zl)
	case FormatConsole:
		w := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		zl := zerolog.New(w).Level(zerologLevel(opts.Level)).With().Timestamp().Logger()
		return NewZerologLogger(zl)
	case FormatJSON:
		h := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slogLevel(opts.Level)})
		return NewSlogLogger(slog.New(h))
	default:
		h := slog.NewTextHandler(out, &slog.HandlerOptions{Level: slogLevel(opts.Level)})
		return NewSlogLogger(slog.New(h))
	}
}

func slogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

func zerologLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
