// Package logging configures the process-wide slog logger.
//
// While the dashboard owns the terminal nothing may be written to stdout or
// stderr, so logs go to a file when one is configured and are discarded
// otherwise. One-shot commands log to stderr.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
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

// New returns a text logger writing to w.
func New(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     ParseLevel(level),
		AddSource: ParseLevel(level) == slog.LevelDebug,
	}))
}

// Setup installs the default logger. With a path, logs are appended to that
// file; otherwise they go to fallback (io.Discard while the TUI runs). The
// returned function closes the file.
func Setup(path, level string, fallback io.Writer) (func() error, error) {
	if path == "" {
		slog.SetDefault(New(fallback, level))
		return func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(New(f, level))
	return f.Close, nil
}
