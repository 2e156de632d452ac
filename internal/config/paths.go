package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const (
	// AppName names the per-user config directory.
	AppName = "ntfy-publisher"
	// ConfigFileName is the default config file name.
	ConfigFileName = "config.toml"
	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "NTFY_PUBLISHER"
)

// userDir resolves a per-user directory: the environment variable env if set,
// otherwise the given path below the home directory.
func userDir(env string, fallback ...string) (string, error) {
	if env != "" {
		if v := os.Getenv(env); v != "" {
			return v, nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{home}, fallback...)...), nil
}

// DefaultConfigDir returns the default configuration directory for the current OS.
func DefaultConfigDir() (string, error) {
	var base string
	var err error

	switch runtime.GOOS {
	case "windows":
		base, err = userDir("APPDATA", "AppData", "Roaming")
	case "darwin":
		base, err = userDir("", "Library", "Application Support")
	default:
		base, err = userDir("XDG_CONFIG_HOME", ".config")
	}
	if err != nil {
		return "", err
	}
	return filepath.Join(base, AppName), nil
}

// DefaultConfigPath returns the full path to the default config file.
func DefaultConfigPath() (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}
