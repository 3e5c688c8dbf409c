package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config contains logging configuration.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string
	// FilePath enables file logging when set.
	FilePath string
	// MaxSizeMB is the file size that triggers rotation (default: 10).
	MaxSizeMB int
	// MaxFiles is the number of rotated files kept (default: 5).
	MaxFiles int
	// Stderr receives records too; nil disables it.
	Stderr io.Writer
}

// DefaultConfig logs info and above to stderr only.
func DefaultConfig() Config {
	return Config{
		Level:     "info",
		MaxSizeMB: 10,
		MaxFiles:  5,
		Stderr:    os.Stderr,
	}
}

// New builds a JSON logger from cfg. The returned cleanup closes the log
// file and is never nil.
func New(cfg Config) (*slog.Logger, func(), error) {
	var outputs []io.Writer
	cleanup := func() {}

	if cfg.FilePath != "" {
		w, err := NewRotatingWriter(cfg.FilePath, cfg.MaxSizeMB, cfg.MaxFiles)
		if err != nil {
			return nil, cleanup, err
		}
		outputs = append(outputs, w)
		cleanup = func() { _ = w.Close() }
	}
	if cfg.Stderr != nil {
		outputs = append(outputs, cfg.Stderr)
	}

	var out io.Writer
	switch len(outputs) {
	case 0:
		out = io.Discard
	case 1:
		out = outputs[0]
	default:
		out = io.MultiWriter(outputs...)
	}

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: LevelFromString(cfg.Level)})
	return slog.New(handler).With(slog.String("app", "pulse")), cleanup, nil
}

// Setup builds the logger and installs it as the slog default.
func Setup(cfg Config) (func(), error) {
	logger, cleanup, err := New(cfg)
	if err != nil {
		return cleanup, err
	}
	slog.SetDefault(logger)
	return cleanup, nil
}

// LevelFromString converts a level name to slog.Level; unknown names map
// to info.
func LevelFromString(level string) slog.Level {
	switch strings.ToLower(level) {
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
