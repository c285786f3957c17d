// Package applog provides general-purpose application logging.
//
// Logs are structured (log/slog) and written to ~/.paischema/logs/app.log,
// rotated with lumberjack. With no file configured, logs go to stderr,
// which is only sensible for the non-interactive subcommands.
package applog

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/DachengChen/paiSchema/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup builds the application logger and installs it as the slog default.
// The returned cleanup func closes the log file.
func Setup(cfg config.LogConfig) (*slog.Logger, func() error, error) {
	var (
		writer  io.Writer
		cleanup func() error
	)

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0700); err != nil {
			return nil, nil, err
		}
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			LocalTime:  true,
		}
		writer = lj
		cleanup = lj.Close
	} else {
		writer = os.Stderr
		cleanup = func() error { return nil }
	}

	logger := New(writer, cfg.Level)
	slog.SetDefault(logger)
	return logger, cleanup, nil
}

// New returns a text logger writing to w at the given level.
func New(w io.Writer, level string) *slog.Logger {
	if w == nil {
		w = io.Discard
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	return slog.New(handler).With(slog.String("app", "paischema"))
}

// Discard returns a logger that drops everything; used as the nil default.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps a level name to slog.Level, defaulting to info.
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
