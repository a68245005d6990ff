package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Format: FormatJSON, Output: &buf})

	log.Info().Str("phase", "wait").Msg("database ready")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "wait", entry["phase"])
	assert.Equal(t, "database ready", entry["message"])
	assert.Equal(t, "frankenboot", entry["component"])
	assert.Contains(t, entry, "time")
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "warn", Format: FormatJSON, Output: &buf})

	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "loud", Format: FormatJSON, Output: &buf})

	log.Debug().Msg("debug")
	log.Info().Msg("info")

	out := buf.String()
	assert.NotContains(t, out, `"debug"`)
	assert.Contains(t, out, `"info"`)
}

func TestNew_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Format: FormatConsole, Output: &buf})

	log.Info().Msg("hello")

	out := buf.String()
	assert.Contains(t, out, "hello")
	assert.False(t, strings.HasPrefix(strings.TrimSpace(out), "{"), "console output should not be JSON")
}

func TestUseConsole_AutoWithBuffer(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, useConsole(FormatAuto, &buf), "a buffer is never a terminal")
	assert.True(t, useConsole("pretty", &buf))
	assert.False(t, useConsole(FormatJSON, &buf))
}
