// Package logger implements a logging adapter using log/slog.
package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"go.trai.ch/memo/internal/core/ports"
)

// Logger implements ports.Logger using log/slog.
type Logger struct {
	mu     sync.RWMutex
	level  *slog.LevelVar
	logger *slog.Logger
}

// New creates a Logger writing text output to stderr at the given level.
// The level can be raised or lowered later with SetLevel, once the
// configured settings are known.
func New(level slog.Level) *Logger {
	lv := &slog.LevelVar{}
	lv.Set(level)
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: lv,
	})
	return &Logger{
		level:  lv,
		logger: slog.New(handler),
	}
}

// SetLevel adjusts the minimum emitted level from a settings level string.
func (l *Logger) SetLevel(level string) {
	l.level.Set(ParseLevel(level))
}

// ParseLevel maps a settings log level string to a slog.Level.
// Unknown strings map to info; validation happens at config load.
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

// SetOutput updates the logger's output destination. Used in tests.
func (l *Logger) SetOutput(w io.Writer) {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: l.level,
	})
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger = slog.New(handler)
}

// Info logs an informational message with key-value args.
func (l *Logger) Info(msg string, args ...any) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg, args...)
}

// Warn logs a warning message with key-value args.
func (l *Logger) Warn(msg string, args ...any) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg, args...)
}

// Error logs an error with key-value args.
func (l *Logger) Error(err error, args ...any) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Error("operation failed", append([]any{"error", err}, args...)...)
}

var _ ports.Logger = (*Logger)(nil)
