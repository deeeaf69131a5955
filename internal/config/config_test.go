package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, time.Second, cfg.TickInterval.Std())
	assert.Equal(t, 1.0, cfg.DeltaTime)
	assert.Equal(t, 8080, cfg.APIPort)
	assert.Empty(t, cfg.AdminKey)
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().DBPath, cfg.DBPath)
}

func TestLoadYAMLOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
seed: 99
depth: 3
tick_interval: 250ms
delta_time: 2.5
api_port: 9000
allowed_origins:
  - https://viewer.example.com
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(99), cfg.Seed)
	assert.Equal(t, 3, cfg.Depth)
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval.Std())
	assert.Equal(t, 2.5, cfg.DeltaTime)
	assert.Equal(t, 9000, cfg.APIPort)
	assert.Equal(t, []string{"https://viewer.example.com"}, cfg.AllowedOrigins)
	// Unset keys keep their defaults.
	assert.Equal(t, Default().DBPath, cfg.DBPath)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: 1\n"), 0o644))

	t.Setenv("MACROVERSE_SEED", "777")
	t.Setenv("MACROVERSE_DB_PATH", "/tmp/override.db")
	t.Setenv("MACROVERSE_ADMIN_KEY", "hunter2")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(777), cfg.Seed)
	assert.Equal(t, "/tmp/override.db", cfg.DBPath)
	assert.Equal(t, "hunter2", cfg.AdminKey)
}

func TestLoadRejectsBadValues(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "bad_delta.yaml")
	require.NoError(t, os.WriteFile(path, []byte("delta_time: -1\n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)

	path = filepath.Join(dir, "not_yaml.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{{nope"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
