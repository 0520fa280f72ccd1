package log

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetup(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	tests := []struct {
		level   string
		enabled slog.Level
		blocked slog.Level
	}{
		{level: "debug", enabled: slog.LevelDebug, blocked: slog.LevelDebug - 1},
		{level: "info", enabled: slog.LevelInfo, blocked: slog.LevelDebug},
		{level: "warn", enabled: slog.LevelWarn, blocked: slog.LevelInfo},
		{level: "error", enabled: slog.LevelError, blocked: slog.LevelWarn},
		{level: "bogus", enabled: slog.LevelInfo, blocked: slog.LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			Setup(tt.level)

			assert.True(t, slog.Default().Enabled(context.Background(), tt.enabled))
			assert.False(t, slog.Default().Enabled(context.Background(), tt.blocked))
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARNING"))
	assert.Equal(t, slog.LevelDebug, ParseLevel("Debug"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestWithModule(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	var buf bytes.Buffer
	slog.SetDefault(New(&buf, "info"))

	WithModule("compiler").Info("compiled")

	assert.Contains(t, buf.String(), "module=compiler")
	assert.Contains(t, buf.String(), "msg=compiled")
}
