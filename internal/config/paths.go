package config

import (
	"os"
	"path/filepath"
)

// UserConfigPath returns the path to the user-level config file, following
// the XDG Base Directory Specification:
//   - Linux: ~/.config/autobump/config.yml
//   - macOS: ~/Library/Application Support/autobump/config.yml
//   - Windows: %APPDATA%\autobump\config.yml
func UserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "autobump", "config.yml"), nil
}

// ProjectConfigPath returns the project-level config file, relative to the
// current directory.
func ProjectConfigPath() string {
	return ".autobump.yml"
}

// ProjectJSONConfigPath returns the JSON flavor of the project config.
func ProjectJSONConfigPath() string {
	return ".autobump.json"
}
