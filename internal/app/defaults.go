package app

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	configPathEnv = "PHOTOCAT_CONFIG_PATH"
	homeEnv       = "PHOTOCAT_HOME"
)

// GetDefaults locates the config file and the photocat data directory.
//
// The data directory holds derived state only: rendered renditions under
// cache/ and the rotating log under log/. Deleting it loses nothing that
// cannot be rebuilt from the collection.
//
// PHOTOCAT_CONFIG_PATH overrides ~/.config/photocat.toml and PHOTOCAT_HOME
// overrides ~/.local/share/photocat.
func GetDefaults() (map[string]string, error) {
	configPath, err := envOrHome(configPathEnv, ".config", "photocat.toml")
	if err != nil {
		return nil, err
	}
	dataDir, err := envOrHome(homeEnv, ".local", "share", "photocat")
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    dataDir,
		"cache_root":  filepath.Join(dataDir, "cache"),
		"log_dir":     filepath.Join(dataDir, "log"),
	}, nil
}

// envOrHome returns the value of env, or rel joined below the user's home.
func envOrHome(env string, rel ...string) (string, error) {
	if path := os.Getenv(env); path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory for %s default: %w", env, err)
	}
	return filepath.Join(append([]string{home}, rel...)...), nil
}
