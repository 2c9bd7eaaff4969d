package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// Environment variables that relocate nutri's files.
const (
	EnvConfigPath = "NUTRI_CONFIG_PATH"
	EnvHome       = "NUTRI_HOME"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - NUTRI_CONFIG_PATH: config file location (default: ~/.config/nutri.toml)
//   - NUTRI_HOME: base directory for nutri data (default: ~/.local/share/nutri)
//
// env_file is the .env file read before the config is applied; it sits next
// to the config file.
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	baseDir, err := getBaseDir()
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"env_file":    filepath.Join(filepath.Dir(configPath), ".env"),
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
	}, nil
}

func getConfigPath() (string, error) {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "nutri.toml"), nil
}

// getBaseDir falls back to the XDG data directory ~/.local/share/nutri.
func getBaseDir() (string, error) {
	if path := os.Getenv(EnvHome); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "nutri"), nil
}
