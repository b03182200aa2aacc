package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_KeyValueFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: "debug", Out: &buf})

	logger.Info("workflow created", "id", "wf-1", "steps", 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "workflow created", entry["message"])
	assert.Equal(t, "wf-1", entry["id"])
	assert.Equal(t, float64(2), entry["steps"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantDebug bool
		wantWarn  bool
	}{
		{"debug shows everything", "debug", true, true},
		{"info hides debug", "info", false, true},
		{"error hides warn", "ERROR", false, false},
		{"unknown falls back to info", "chatty", false, true},
		{"empty falls back to info", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Options{Level: tt.level, Out: &buf})

			logger.Debug("debug line")
			logger.Warn("warn line")

			assert.Equal(t, tt.wantDebug, strings.Contains(buf.String(), "debug line"))
			assert.Equal(t, tt.wantWarn, strings.Contains(buf.String(), "warn line"))
		})
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Out: &buf}).With("component", "registry")

	logger.Error("lookup failed")

	assert.Contains(t, buf.String(), `"component":"registry"`)
	assert.Contains(t, buf.String(), `"level":"error"`)
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().Info("discarded", "key", "value")
	})
}
