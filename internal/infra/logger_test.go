package infra

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for name, want := range cases {
		assert.Equal(t, want, ParseLevel(name), "ParseLevel(%q)", name)
	}
}

func TestNewLogger_WritesRotatedFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Dir = t.TempDir()
	cfg.Logging.Level = "warn"

	logger := NewLogger(cfg)
	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo), "info should be disabled at warn level")

	logger.Warn("disk check", slog.String("component", "test"))

	data, err := os.ReadFile(filepath.Join(cfg.Logging.Dir, "app.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"disk check"`)
}
