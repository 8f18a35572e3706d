package config

import (
	"os"
	"path/filepath"
)

// Paths contains commonly used file paths.
type Paths struct {
	Log          string // Log file
	Credentials  string // Persisted OAuth token
	LocalStorage string // Blob root for the local storage backend
	Exports      string // Default spreadsheet export directory
}

// GetPaths returns all commonly used paths based on config.
func GetPaths(cfg *Config) Paths {
	return Paths{
		Log:          filepath.Join(cfg.BaseDir, "studydeck.log"),
		Credentials:  filepath.Join(cfg.BaseDir, "credentials.json"),
		LocalStorage: filepath.Join(cfg.BaseDir, "storage"),
		Exports:      filepath.Join(cfg.BaseDir, "exports"),
	}
}

// DefaultBaseDir returns the default base directory (~/.studydeck).
func DefaultBaseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".studydeck"
	}
	return filepath.Join(home, ".studydeck")
}
