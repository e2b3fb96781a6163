package config

import (
	"os"
	"path/filepath"
)

// CapigenPath returns the root directory for capigen data.
// It uses $CAPIGEN_PATH if set, otherwise defaults to ~/.capigen.
func CapigenPath() string {
	if v := os.Getenv("CAPIGEN_PATH"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".capigen")
	}
	return filepath.Join(home, ".capigen")
}

// ConfigPath returns the path to the active integration config.
func ConfigPath() string {
	return filepath.Join(CapigenPath(), "config.jsonc")
}

// DotenvPath returns the path to the capigen .env file.
func DotenvPath() string {
	return filepath.Join(CapigenPath(), ".env")
}

// BuildsPath returns the directory holding recorded builds.
func BuildsPath() string {
	return filepath.Join(CapigenPath(), "builds")
}

// HeartbeatPath returns the file a running gateway refreshes.
func HeartbeatPath() string {
	return filepath.Join(CapigenPath(), "heartbeat.json")
}
