// Package paths resolves the well-known per-installation directories used
// by litedb: where configuration files live and where databases are kept
// by default.
//
// Both locations can be redirected with environment variables, which is how
// tests and containers keep the user's real configuration untouched:
//
//	LITEDB_CONFIG_DIR=/etc/litedb litedb ping
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// appDir is the directory created under the user's configuration root.
	appDir = "litedb"

	// EnvConfigDir overrides ConfigurationDirectory.
	EnvConfigDir = "LITEDB_CONFIG_DIR"

	// EnvDataDir overrides DataDirectory.
	EnvDataDir = "LITEDB_DATA_DIR"

	// dirPermissions is the permission mode for directories we create.
	dirPermissions = 0750
)

// ConfigurationDirectory returns the directory holding litedb configuration
// files. It does not create it.
func ConfigurationDirectory() (string, error) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir, nil
	}
	root, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving user config directory: %w", err)
	}
	return filepath.Join(root, appDir), nil
}

// DataDirectory returns the default directory for database files.
func DataDirectory() (string, error) {
	if dir := os.Getenv(EnvDataDir); dir != "" {
		return dir, nil
	}
	cfgDir, err := ConfigurationDirectory()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, "data"), nil
}

// EnsureDir creates dir and any missing parents.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return nil
}
