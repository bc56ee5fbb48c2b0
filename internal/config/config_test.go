package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Listen)
	assert.Equal(t, "localhost", cfg.ProxyDomain)

	bp := cfg.Build.Blueprint()
	assert.Equal(t, "python:3.12-slim", bp.BaseImage)
	assert.Equal(t, "/app", bp.WorkDir)
	assert.Equal(t, "requirements.txt", bp.ManifestName)
	assert.Equal(t, "app.py", bp.EntryFile)
	assert.Equal(t, "python", bp.Interpreter)
	assert.Equal(t, 6969, bp.Port)
	assert.True(t, bp.UpgradeOS)
	assert.NoError(t, bp.Validate())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "portside.yaml")
	content := `listen: ":8080"
proxy_domain: apps.example.com
build:
  base_image: python:3.11-slim
  port: 5000
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, "apps.example.com", cfg.ProxyDomain)
	assert.Equal(t, "python:3.11-slim", cfg.Build.BaseImage)
	assert.Equal(t, 5000, cfg.Build.Port)
	// Unset fields keep their defaults.
	assert.Equal(t, "app.py", cfg.Build.EntryFile)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PORTSIDE_BUILD_PORT", "9000")
	t.Setenv("PORTSIDE_LISTEN", ":4000")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":4000", cfg.Listen)
	assert.Equal(t, 9000, cfg.Build.Port)
}

func TestLoadRejectsInvalidDefaults(t *testing.T) {
	t.Setenv("PORTSIDE_BUILD_PORT", "70000")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid build defaults")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
