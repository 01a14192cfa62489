package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLogLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, parseLogLevel("WARN"))
	assert.Equal(t, zerolog.InfoLevel, parseLogLevel("unknown"))
}

func TestLogger_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	Initialize(Config{Level: "debug", Format: "json", Output: &buf})

	Error("Something failed", errors.New("boom"), map[string]interface{}{
		"user_id": 7,
	})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "Something failed", entry["message"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, float64(7), entry["user_id"])
	assert.Contains(t, entry["caller"], "logger_test.go")
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Initialize(Config{Level: "warn", Format: "json", Output: &buf})

	Info("hidden")
	assert.Empty(t, buf.String())

	Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestLogger_WithContext(t *testing.T) {
	var buf bytes.Buffer
	Initialize(Config{Level: "info", Format: "json", Output: &buf})

	WithContext(map[string]interface{}{"request_id": "abc"}).Info("scoped")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "abc", entry["request_id"])
}
