// Package logging configures the process-wide slog logger. Records are written
// as JSON to stdout and to a size-rotated file.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	once sync.Once
	base *slog.Logger
)

// Options controls the rotating file sink. An empty FilePath logs to stdout only.
type Options struct {
	Service  string
	FilePath string
	Level    string
}

// Init builds the global logger exactly once and returns it.
func Init(opts Options) *slog.Logger {
	once.Do(func() {
		base = New(os.Stdout, opts)
	})
	return base
}

// New builds a logger writing to w and, when opts.FilePath is set, to a
// lumberjack-rotated file next to it. If the log directory cannot be
// created the file sink is dropped and a warning is written to w.
func New(w io.Writer, opts Options) *slog.Logger {
	out := w
	var dirErr error
	if opts.FilePath != "" {
		if dirErr = os.MkdirAll(filepath.Dir(opts.FilePath), 0o755); dirErr == nil {
			out = io.MultiWriter(w, &lumberjack.Logger{
				Filename:   opts.FilePath,
				MaxSize:    50, // MB
				MaxBackups: 3,
				MaxAge:     7, // days
			})
		}
	}

	h := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: ParseLevel(opts.Level)})
	logger := slog.New(h)
	if opts.Service != "" {
		logger = logger.With("service", opts.Service)
	}
	if dirErr != nil {
		logger.Warn("log file disabled, cannot create its directory",
			"path", opts.FilePath,
			"error", dirErr,
		)
	}
	return logger
}

// ParseLevel maps debug/info/warn/error to slog levels, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
