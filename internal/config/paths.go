package config

import (
	"os"
	"path/filepath"
)

const appName = "tidydag"

// ProjectConfigPath is the project config, relative to the working directory.
const ProjectConfigPath = ".tidydag.yaml"

// UserConfigPath returns the user config path, honoring XDG_CONFIG_HOME.
func UserConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName, "config.yaml"), nil
}

// CacheDir returns the cache directory using the XDG standard
// (~/.cache/tidydag/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
