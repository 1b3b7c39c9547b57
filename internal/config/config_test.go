package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "editor.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[editor]
tick_rate = "50ms"
max_ticks = 10
scripts_dir = "startup"

[tool]
snap_radius = 4.5
default_road_name = "Unnamed"

[input]
confirm_road = "space"

[logging]
level = "debug"
format = "json"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 50*time.Millisecond, cfg.Editor.TickRate)
	assert.Equal(t, 10, cfg.Editor.MaxTicks)
	assert.Equal(t, "startup", cfg.Editor.ScriptsDir)
	assert.Equal(t, 4.5, cfg.Tool.SnapRadius)
	assert.Equal(t, "Unnamed", cfg.Tool.DefaultRoadName)
	assert.Equal(t, "space", cfg.Input.ConfirmRoad)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Untouched keys keep their defaults.
	assert.Equal(t, 2, cfg.Tool.MinPoints)
	assert.Equal(t, 256, cfg.Editor.QueueSize)
	assert.Equal(t, "r", cfg.Input.ToggleBuild)
	assert.False(t, cfg.Database.Enabled)
}

func TestDefaultsRunNoStartupScripts(t *testing.T) {
	assert.Empty(t, Defaults().Editor.ScriptsDir)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"min points below two", "[tool]\nmin_points = 1\n", ErrMinPoints},
		{"negative snap radius", "[tool]\nsnap_radius = -1.0\n", ErrSnapRadius},
		{"zero queue", "[editor]\nqueue_size = 0\n", ErrQueueSize},
		{"zero action budget", "[editor]\nmax_actions_per_tick = 0\n", ErrMaxActions},
		{"zero zoom", "[render]\nzoom = 0.0\n", ErrZoom},
		{"database without dsn", "[database]\nenabled = true\ndsn = \"\"\n", ErrDatabaseDSN},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	_, err := Load(writeConfig(t, "[editor\n"))
	assert.Error(t, err)
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestDefaultsAreValid(t *testing.T) {
	assert.NoError(t, Defaults().Validate())
}
