// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

const appName = "readlog"

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultConfigPath returns the TOML config path. READLOG_CONFIG overrides it.
func DefaultConfigPath() string {
	if v := os.Getenv("READLOG_CONFIG"); v != "" {
		return v
	}
	return filepath.Join(XDGConfigHome(), appName, "config.toml")
}

// DefaultBooksPath returns the default path for the JSON book file.
func DefaultBooksPath() string {
	return filepath.Join(XDGDataHome(), appName, "books.json")
}

// DefaultDBPath returns the default path for the SQLite database.
func DefaultDBPath() string {
	return filepath.Join(XDGDataHome(), appName, "readlog.db")
}

// DefaultBackupDir returns the directory for backup snapshots.
func DefaultBackupDir() string {
	return filepath.Join(XDGDataHome(), appName, "backups")
}
