package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// projectConfigNames are checked in order in the working directory.
var projectConfigNames = []string{AppName + ".toml", "." + AppName + ".toml"}

// findProjectConfigFile looks for a config file in the current directory.
func findProjectConfigFile() string {
	for _, name := range projectConfigNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// findUserConfigFile looks for a user-level config file in the
// OS-specific config directory.
func findUserConfigFile() string {
	cfgDir := osUserConfigDir()
	if cfgDir == "" {
		return ""
	}
	userConfigPath := filepath.Join(cfgDir, AppName, AppName+".toml")
	if _, err := os.Stat(userConfigPath); err == nil {
		return userConfigPath
	}
	return ""
}

// osUserConfigDir returns the OS-specific user config directory.
// Returns empty string if the directory cannot be determined.
func osUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return appdata
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, "Library", "Application Support")
		}
	default:
		// Linux/BSD: respect XDG_CONFIG_HOME or use ~/.config
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, ".config")
		}
	}
	return ""
}
