package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	Initialize(Config{Level: "debug", Format: "json", Output: &buf})
	t.Cleanup(func() { globalLogger = nil })

	Info("attribute assigned", map[string]interface{}{
		"attribute_id": 3,
		"category_id":  7,
	})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "attribute assigned", entry["message"])
	assert.Equal(t, float64(3), entry["attribute_id"])
	assert.Contains(t, entry["caller"], "logger_test.go")
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Initialize(Config{Level: "warn", Format: "json", Output: &buf})
	t.Cleanup(func() { globalLogger = nil })

	Debug("hidden")
	Info("hidden")
	assert.Zero(t, buf.Len())

	Error("sku conflict", errors.New("duplicate key"))
	assert.Contains(t, buf.String(), "duplicate key")
}

func TestLogger_WithContext(t *testing.T) {
	var buf bytes.Buffer
	Initialize(Config{Level: "info", Format: "json", Output: &buf})
	t.Cleanup(func() { globalLogger = nil })

	WithContext(map[string]interface{}{"run_id": "abc"}).Warn("reindex slow")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "abc", entry["run_id"])
	assert.Equal(t, "warn", entry["level"])
}
