// Package config loads the appforge runtime configuration.
//
// Configuration lives in <config-dir>/config.yaml (default ~/.appforge).
// A missing file means defaults. A present but unparsable file is an error:
// unlike the persisted state documents, the config is owned by the operator
// and silently ignoring it would hide a real mistake.
//
// Environment overrides (applied after the file):
//
//	AF_CONFIG_DIR    config/state directory
//	AF_CATALOG_URL   catalog repository URL
//	AF_STORAGE       state backend: "json" or "sqlite"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/appforge/appforge/pkg/model"
)

// ConfigDirName is the per-user directory holding config and state files.
const ConfigDirName = ".appforge"

// Storage backend selectors.
const (
	StorageJSON   = "json"
	StorageSQLite = "sqlite"
)

// Config is the runtime configuration for one agent process.
type Config struct {
	// CatalogURL is the git URL of the shared artifact catalog.
	CatalogURL string `yaml:"catalog_url"`
	// Prefix is the artifact-id prefix ("app" by default).
	Prefix string `yaml:"prefix"`
	// BaseURL is the public URL artifacts are served under; allocation URLs
	// are BaseURL + "/" + id + "/". Empty disables URL derivation.
	BaseURL string `yaml:"base_url"`
	// Storage selects the state backend: "json" (default) or "sqlite".
	Storage string `yaml:"storage"`

	// ConfigDir is resolved at load time, not read from the file.
	ConfigDir string `yaml:"-"`
}

// Load resolves the config directory, reads config.yaml when present, and
// applies environment overrides and defaults.
func Load() (*Config, error) {
	dir := os.Getenv("AF_CONFIG_DIR")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("config: resolve home directory: %w", err)
		}
		dir = filepath.Join(home, ConfigDirName)
	}
	return LoadFrom(dir)
}

// LoadFrom loads configuration rooted at an explicit directory.
func LoadFrom(dir string) (*Config, error) {
	cfg := &Config{ConfigDir: dir}

	path := filepath.Join(dir, "config.yaml")
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// StatePath returns the path of a state file or database inside ConfigDir.
func (c *Config) StatePath(name string) string {
	return filepath.Join(c.ConfigDir, name)
}

func (c *Config) applyEnv() {
	if v := os.Getenv("AF_CATALOG_URL"); v != "" {
		c.CatalogURL = v
	}
	if v := os.Getenv("AF_STORAGE"); v != "" {
		c.Storage = v
	}
}

func (c *Config) applyDefaults() {
	c.Prefix = strings.TrimSpace(c.Prefix)
	if c.Prefix == "" {
		c.Prefix = model.DefaultPrefix
	}
	c.Storage = strings.ToLower(strings.TrimSpace(c.Storage))
	if c.Storage == "" {
		c.Storage = StorageJSON
	}
	c.CatalogURL = strings.TrimSpace(c.CatalogURL)
	c.BaseURL = strings.TrimSpace(c.BaseURL)
}

func (c *Config) validate() error {
	if c.Storage != StorageJSON && c.Storage != StorageSQLite {
		return fmt.Errorf("storage must be %q or %q, got %q", StorageJSON, StorageSQLite, c.Storage)
	}
	if strings.ContainsAny(c.Prefix, " \t\n") {
		return fmt.Errorf("prefix must not contain whitespace")
	}
	return nil
}
