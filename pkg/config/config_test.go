package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "app", cfg.Prefix)
	assert.Equal(t, StorageJSON, cfg.Storage)
	assert.Empty(t, cfg.CatalogURL)
}

func TestLoadFrom_File(t *testing.T) {
	dir := t.TempDir()
	yaml := `
catalog_url: https://github.com/example/published-apps
prefix: tool
base_url: https://example.github.io/published-apps
storage: sqlite
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/example/published-apps", cfg.CatalogURL)
	assert.Equal(t, "tool", cfg.Prefix)
	assert.Equal(t, StorageSQLite, cfg.Storage)
	assert.Equal(t, dir, cfg.ConfigDir)
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
		[]byte("catalog_url: https://github.com/example/from-file\n"), 0o644))
	t.Setenv("AF_CATALOG_URL", "https://github.com/example/from-env")
	t.Setenv("AF_STORAGE", "sqlite")

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/example/from-env", cfg.CatalogURL)
	assert.Equal(t, StorageSQLite, cfg.Storage)
}

func TestLoadFrom_InvalidStorage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
		[]byte("storage: postgres\n"), 0o644))
	_, err := LoadFrom(dir)
	assert.Error(t, err)
}

func TestLoadFrom_CorruptYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
		[]byte(":\n  - not yaml {"), 0o644))
	_, err := LoadFrom(dir)
	assert.Error(t, err, "corrupt config is an operator error, not degradable state")
}

func TestLoad_HonorsConfigDirEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AF_CONFIG_DIR", dir)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.ConfigDir)
}
