// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Storage backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// DefaultAddr is the listen address used by `serve` when nothing is configured.
const DefaultAddr = ":8080"

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
	Stats   StatsConfig   `toml:"stats"`
	Log     LogConfig     `toml:"log"`
}

// ServerConfig maps web server settings.
type ServerConfig struct {
	Addr *string `toml:"addr"`
}

// StorageConfig maps persistence settings.
type StorageConfig struct {
	Backend   *string `toml:"backend"`
	Path      *string `toml:"path"`
	BackupDir *string `toml:"backup-dir"`
}

// StatsConfig maps statistics output settings.
type StatsConfig struct {
	ChartWidth *int `toml:"chart-width"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
}

// Storage is the resolved storage configuration.
type Storage struct {
	Backend   string
	Path      string
	BackupDir string
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return FileConfig{}, err
	}
	return cfg, nil
}

func (c FileConfig) validate() error {
	if c.Storage.Backend != nil {
		switch *c.Storage.Backend {
		case BackendJSON, BackendSQLite:
		default:
			return fmt.Errorf("unknown storage backend %q (use %q or %q)", *c.Storage.Backend, BackendJSON, BackendSQLite)
		}
	}
	if c.Log.Level != nil {
		if _, err := ParseLevel(*c.Log.Level); err != nil {
			return err
		}
	}
	return nil
}

// ResolveStorage fills unset storage values with defaults.
func (c FileConfig) ResolveStorage() Storage {
	s := Storage{Backend: BackendJSON}
	if c.Storage.Backend != nil {
		s.Backend = *c.Storage.Backend
	}
	switch {
	case c.Storage.Path != nil && *c.Storage.Path != "":
		s.Path = *c.Storage.Path
	case s.Backend == BackendSQLite:
		s.Path = DefaultDBPath()
	default:
		s.Path = DefaultBooksPath()
	}
	s.BackupDir = DefaultBackupDir()
	if c.Storage.BackupDir != nil && *c.Storage.BackupDir != "" {
		s.BackupDir = *c.Storage.BackupDir
	}
	return s
}

// Addr returns the configured listen address or the default.
func (c FileConfig) Addr() string {
	if c.Server.Addr != nil && *c.Server.Addr != "" {
		return *c.Server.Addr
	}
	return DefaultAddr
}

// LogLevel returns the configured log level, defaulting to info.
func (c FileConfig) LogLevel() slog.Level {
	if c.Log.Level == nil {
		return slog.LevelInfo
	}
	level, err := ParseLevel(*c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// ChartWidth returns the configured chart width; 0 means terminal width.
func (c FileConfig) ChartWidth() int {
	if c.Stats.ChartWidth == nil || *c.Stats.ChartWidth < 0 {
		return 0
	}
	return *c.Stats.ChartWidth
}

// ParseLevel parses a log level name such as "debug" or "warn".
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}
