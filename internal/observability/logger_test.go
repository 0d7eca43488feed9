package observability

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/san-kum/epipe/internal/config"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LogConfig{Level: "info", Format: "json"}, zapcore.AddSync(&buf))
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("run complete", zap.Int("snapshots", 21))
	require.NoError(t, logger.Sync())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1, "debug is below the configured level")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "epipe", entry["logger"])
	assert.Equal(t, "run complete", entry["msg"])
	assert.Equal(t, float64(21), entry["snapshots"])
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LogConfig{Level: "debug"}, zapcore.AddSync(&buf))
	require.NoError(t, err)

	logger.Debug("snapshot recorded", zap.Int("step", 3))
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.Contains(t, out, "DEBUG")
	assert.Contains(t, out, "snapshot recorded")
	assert.Contains(t, out, `"step": 3`)
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "epipe.log")
	var console bytes.Buffer

	logger, err := New(config.LogConfig{Level: "warn", Format: "console", File: path, MaxSizeMB: 1}, zapcore.AddSync(&console))
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("run canceled", zap.Int("step", 9))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	assert.Equal(t, "run canceled", entry["msg"])
	assert.Contains(t, console.String(), "run canceled")
}

func TestNew_Errors(t *testing.T) {
	var buf bytes.Buffer
	_, err := New(config.LogConfig{Level: "loud"}, zapcore.AddSync(&buf))
	assert.Error(t, err)

	_, err = New(config.LogConfig{Format: "xml"}, zapcore.AddSync(&buf))
	assert.Error(t, err)
}
