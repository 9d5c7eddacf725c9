package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
input:
  min_height: 2
  max_height: 14
  debounce_ms: 25
logging:
  debug_mode: true
  dir: /tmp/autogrow-logs
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Input.MinHeight)
	assert.Equal(t, 14, cfg.Input.MaxHeight)
	assert.Equal(t, 25, cfg.Input.DebounceMs)
	// Untouched fields keep defaults.
	assert.Equal(t, Default().Input.TransitionMs, cfg.Input.TransitionMs)
	assert.True(t, cfg.Logging.DebugMode)
}

func TestLoadRejectsInvalidBounds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
input:
  min_height: 5
  max_height: 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("input: ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEngineConfigTranslation(t *testing.T) {
	cfg := Default()
	cfg.Input.DebounceMs = 30
	cfg.Input.TransitionMs = 200

	ec := cfg.EngineConfig()
	assert.Equal(t, cfg.Input.MinHeight, ec.MinHeight)
	assert.Equal(t, cfg.Input.MaxHeight, ec.MaxHeight)
	assert.Equal(t, 30*time.Millisecond, ec.Debounce)
	assert.Equal(t, 200*time.Millisecond, ec.TransitionDuration)
}
