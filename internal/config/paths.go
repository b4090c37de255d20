package config

import (
	"os"
	"path/filepath"
)

const (
	settingsFileJSON = "settings.json"
	settingsFileYAML = "settings.yaml"
)

// GetHome returns $ISSUETREE_HOME or ~/.issuetree
func GetHome() string {
	home := os.Getenv("ISSUETREE_HOME")
	if home == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ".issuetree"
		}
		return filepath.Join(homeDir, ".issuetree")
	}
	return ExpandPath(home)
}

// GetSettingsPath returns the settings file in use.
// settings.yaml wins when present, otherwise settings.json (which may not exist yet).
func GetSettingsPath() string {
	home := GetHome()
	yamlPath := filepath.Join(home, settingsFileYAML)
	if _, err := os.Stat(yamlPath); err == nil {
		return yamlPath
	}
	return filepath.Join(home, settingsFileJSON)
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			if len(path) == 1 {
				return homeDir
			}
			return filepath.Join(homeDir, path[1:])
		}
	}
	return path
}
