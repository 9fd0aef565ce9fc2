package logging

import (
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureWritesJSONToWriter(t *testing.T) {
	var buf strings.Builder
	Configure(LevelInfo, &buf)
	t.Cleanup(func() { Configure(LevelInfo, nil) })

	Info("something happened", "key", "value")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(buf.String()), &entry))
	assert.Equal(t, "something happened", entry["msg"])
	assert.Equal(t, "value", entry["key"])
	assert.Equal(t, "INFO", entry["level"])
}

func TestConfigureRespectsLevel(t *testing.T) {
	var buf strings.Builder
	Configure(LevelWarn, &buf)
	t.Cleanup(func() { Configure(LevelInfo, nil) })

	Debug("quiet")
	Info("also quiet")
	Warn("loud")

	out := buf.String()
	assert.NotContains(t, out, "quiet")
	assert.Contains(t, out, "loud")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel(LevelDebug))
	assert.Equal(t, slog.LevelInfo, parseLevel(LevelInfo))
	assert.Equal(t, slog.LevelWarn, parseLevel(Level("WARNING")))
	assert.Equal(t, slog.LevelError, parseLevel(LevelError))
	assert.Equal(t, slog.LevelInfo, parseLevel(Level("bogus")))
}
