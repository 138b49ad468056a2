package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(orig) })
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "dataset-prep.db", cfg.Store.Path)
	assert.Equal(t, "https://hub.sells.dev", cfg.Hub.BaseURL)
	assert.Empty(t, cfg.Hub.Token)
	assert.Equal(t, 5.0, cfg.Hub.RPS)
	assert.Equal(t, 0.2, cfg.Split.TestSize)
	assert.Equal(t, int64(42), cfg.Split.Seed)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvOverride(t *testing.T) {
	chdirTemp(t)
	t.Setenv("DATASET_HUB_TOKEN", "tok-from-env")
	t.Setenv("DATASET_STORE_DRIVER", "off")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "tok-from-env", cfg.Hub.Token)
	assert.Equal(t, "off", cfg.Store.Driver)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := chdirTemp(t)
	yaml := "hub:\n  base_url: http://localhost:9999\nsplit:\n  test_size: 0.3\n  seed: 7\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999", cfg.Hub.BaseURL)
	assert.Equal(t, 0.3, cfg.Split.TestSize)
	assert.Equal(t, int64(7), cfg.Split.Seed)
}

func TestLoad_MalformedConfigFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("hub: ["), 0o644))

	_, err := Load()
	require.Error(t, err)
}

func TestInitLogger_RejectsBadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "nope", Format: "json"})
	require.Error(t, err)
}

func TestInitLogger_Console(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
}
