package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("expected missing file to be ignored, got %v", err)
	}
	if cfg.Addr() != DefaultAddr {
		t.Fatalf("expected default addr, got %q", cfg.Addr())
	}
	if cfg.LogLevel() != slog.LevelInfo {
		t.Fatalf("expected info level")
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
addr = "127.0.0.1:9000"

[storage]
backend = "sqlite"
backup-dir = "/tmp/readlog-backups"

[stats]
chart-width = 72

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Addr() != "127.0.0.1:9000" {
		t.Fatalf("unexpected addr %q", cfg.Addr())
	}
	if cfg.LogLevel() != slog.LevelDebug {
		t.Fatalf("expected debug level, got %v", cfg.LogLevel())
	}
	if cfg.ChartWidth() != 72 {
		t.Fatalf("expected chart width 72, got %d", cfg.ChartWidth())
	}
	storage := cfg.ResolveStorage()
	if storage.Backend != BackendSQLite || filepath.Base(storage.Path) != "readlog.db" {
		t.Fatalf("unexpected storage: %+v", storage)
	}
	if storage.BackupDir != "/tmp/readlog-backups" {
		t.Fatalf("unexpected backup dir %q", storage.BackupDir)
	}
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[storage]\nbackend = \"csv\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestResolveStorageDefaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	storage := FileConfig{}.ResolveStorage()
	if storage.Backend != BackendJSON {
		t.Fatalf("expected json backend, got %q", storage.Backend)
	}
	if storage.Path != filepath.Join("/data", "readlog", "books.json") {
		t.Fatalf("unexpected path %q", storage.Path)
	}
	if storage.BackupDir != filepath.Join("/data", "readlog", "backups") {
		t.Fatalf("unexpected backup dir %q", storage.BackupDir)
	}
}

func TestDefaultConfigPathOverride(t *testing.T) {
	t.Setenv("READLOG_CONFIG", "/etc/readlog.toml")
	if got := DefaultConfigPath(); got != "/etc/readlog.toml" {
		t.Fatalf("expected override, got %q", got)
	}
}
