package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	// EnvConfigPath is the environment variable for explicit config path
	EnvConfigPath = "HOSTLOOKUP_CONFIG"
	// ConfigFileName is the default config file name
	ConfigFileName = "hostlookup.yaml"
	// ConfigDirName is the config directory name under XDG
	ConfigDirName = "hostlookup"
)

// SearchPaths returns the config file candidates in priority order:
// 1. $HOSTLOOKUP_CONFIG (explicit path)
// 2. ./hostlookup.yaml (working directory)
// 3. $XDG_CONFIG_HOME/hostlookup/config.yaml
// 4. ~/.config/hostlookup/config.yaml
// 5. /etc/hostlookup/config.yaml
func SearchPaths() []string {
	var paths []string

	if path := os.Getenv(EnvConfigPath); path != "" {
		paths = append(paths, path)
	}

	if abs, err := filepath.Abs(ConfigFileName); err == nil {
		paths = append(paths, abs)
	} else {
		paths = append(paths, ConfigFileName)
	}

	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		paths = append(paths, filepath.Join(xdgHome, ConfigDirName, "config.yaml"))
	}
	if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", ConfigDirName, "config.yaml"))
	}

	return append(paths, filepath.Join("/etc", ConfigDirName, "config.yaml"))
}

// FindConfigPath returns the first search path that exists on fs, or an
// empty string when there is none
func FindConfigPath(fs afero.Fs) string {
	for _, path := range SearchPaths() {
		if fileExists(fs, path) {
			return path
		}
	}
	return ""
}

// DefaultConfigPath returns the preferred location for a new config file
// Prefers XDG config home, falls back to working directory
func DefaultConfigPath() string {
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		return filepath.Join(xdgHome, ConfigDirName, "config.yaml")
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".config", ConfigDirName, "config.yaml")
	}
	return ConfigFileName
}

func fileExists(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	return err == nil && !info.IsDir()
}
