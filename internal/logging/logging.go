// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
)

// ParseLevel maps a config string to a slog level, defaulting to info for
// unknown values.
func ParseLevel(s string) slog.Level {
	switch s {
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

// New builds a logger writing to w. Development gets a human-readable text
// handler; everything else gets JSON for log shippers.
func New(w io.Writer, level slog.Level, isDev bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	if isDev {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
