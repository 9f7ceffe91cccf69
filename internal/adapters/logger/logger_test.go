package logger_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"go.trai.ch/memo/internal/adapters/logger"
)

func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	lg := logger.New(slog.LevelDebug)
	var buf bytes.Buffer
	lg.SetOutput(&buf)
	return lg, &buf
}

func TestLoggerInfo(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.Info("cache warmed", "keys", 20)

	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "msg=\"cache warmed\"")
	assert.Contains(t, out, "keys=20")
}

func TestLoggerWarn(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.Warn("disk cache unreadable, starting cold", "path", "/tmp/cache.zst")

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "path=/tmp/cache.zst")
}

func TestLoggerError(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.Error(errors.New("no such file"), "query", "size")

	out := buf.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "no such file")
	assert.Contains(t, out, "query=size")
}

func TestSetLevel(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.SetLevel("error")
	lg.Info("cache warmed", "keys", 20)
	assert.Empty(t, buf.String())

	lg.SetLevel("info")
	lg.Info("cache warmed", "keys", 20)
	assert.Contains(t, buf.String(), "level=INFO")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, logger.ParseLevel(tt.in), "level %q", tt.in)
	}
}
