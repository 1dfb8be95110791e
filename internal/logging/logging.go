// Package logging builds the process-wide structured logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Config describes how diagnostic logs are written. Console output for
// humans is separate and not affected.
type Config struct {
	Level  string `yaml:"level" env:"SASA_LOG_LEVEL"`
	Format string `yaml:"format" env:"SASA_LOG_FORMAT"`
	// Output is stderr, stdout, discard or a file path.
	Output string `yaml:"output" env:"SASA_LOG_OUTPUT"`
}

func DefaultConfig() Config {
	return Config{Level: "warn", Format: "text", Output: "stderr"}
}

// New returns a logger for cfg. The returned closer releases a log file and
// is a no-op for the standard streams.
func New(cfg Config) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	w, closer, err := openWriter(cfg.Output)
	if err != nil {
		return nil, nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		h = slog.NewTextHandler(w, opts)
	case "json":
		h = slog.NewJSONHandler(w, opts)
	default:
		_ = closer.Close()
		return nil, nil, fmt.Errorf("logging: unknown format %q", cfg.Format)
	}
	return slog.New(h), closer, nil
}

func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("logging: unknown level %q", level)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func openWriter(path string) (io.Writer, io.Closer, error) {
	switch strings.ToLower(path) {
	case "", "stderr":
		return os.Stderr, nopCloser{}, nil
	case "stdout":
		return os.Stdout, nopCloser{}, nil
	case "discard", "none":
		return io.Discard, nopCloser{}, nil
	default:
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("logging: create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("logging: open log file %s: %w", path, err)
		}
		return f, f, nil
	}
}
