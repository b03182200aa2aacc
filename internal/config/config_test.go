package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, DefaultBridgeURL, cfg.Bridge.URL)
	assert.Equal(t, 5*time.Second, cfg.Bridge.Timeout)
	assert.False(t, cfg.Bridge.Dispatch)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "0.1.0-alpha", cfg.App.Version)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.File)
}

func TestLoadConfig_FileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
bridge:
  url: "http://bridge.local:9000/"
  timeout: 2s
  dispatch: true
server:
  addr: "127.0.0.1:9090"
log:
  level: debug
`), 0o600))

	t.Setenv("AISTUDIO_LOG_LEVEL", "warn")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://bridge.local:9000", cfg.Bridge.URL)
	assert.Equal(t, 2*time.Second, cfg.Bridge.Timeout)
	assert.True(t, cfg.Bridge.Dispatch)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, path, cfg.File)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_RejectsBadBridgeURL(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AISTUDIO_BRIDGE_URL", "localhost:8000")

	_, err := LoadConfig("")
	assert.ErrorContains(t, err, "bridge.url")
}

func TestNormalizeBridgeURL(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"http://localhost:8000", "http://localhost:8000", false},
		{"  https://bridge.example.com/  ", "https://bridge.example.com", false},
		{"http://localhost:8000/api//", "http://localhost:8000/api", false},
		{"ftp://localhost", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := normalizeBridgeURL(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
