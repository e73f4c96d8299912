// Package main provides the CLI entrypoint for readlog.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/readlog/internal/config"
	"github.com/verte-zerg/readlog/internal/store"
)

var (
	storageBackend string
	storagePath    string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "readlog",
		Short:         "Personal reading log with statistics",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&storageBackend, "backend", "", "storage backend (json or sqlite)")
	rootCmd.PersistentFlags().StringVar(&storagePath, "data", "", "path to the book file or database")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newEditCmd())
	rootCmd.AddCommand(newRemoveCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newBackupCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// loadConfig reads the config file and applies the storage flags on top.
func loadConfig(cmd *cobra.Command) (config.FileConfig, config.Storage, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, config.Storage{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringFlag(cmd, "backend", &fileCfg.Storage.Backend, storageBackend)
	applyStringFlag(cmd, "data", &fileCfg.Storage.Path, storagePath)
	return fileCfg, fileCfg.ResolveStorage(), nil
}

// openStore loads config, sets up logging and opens the configured store.
func openStore(cmd *cobra.Command) (config.FileConfig, store.Store, error) {
	fileCfg, storage, err := loadConfig(cmd)
	if err != nil {
		return config.FileConfig{}, nil, err
	}
	slog.SetDefault(newLogger(fileCfg.LogLevel(), false))
	st, err := store.Open(storage)
	if err != nil {
		return config.FileConfig{}, nil, fmt.Errorf("failed to open store: %w", err)
	}
	return fileCfg, st, nil
}

func closeStore(st store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close store: %v\n", cerr)
	}
}

func newLogger(level slog.Level, jsonOutput bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if jsonOutput {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# readlog configuration
# Uncomment a value to enable it. CLI flags override config values.

[server]
# addr = %q            # Listen address for readlog serve

[storage]
# backend = %q           # json or sqlite
# path = %q
# backup-dir = %q

[stats]
# chart-width = 0            # Bar chart width; 0 uses the terminal width

[log]
# level = "info"             # debug, info, warn or error
`,
		config.DefaultAddr,
		config.BackendJSON,
		config.DefaultBooksPath(),
		config.DefaultBackupDir(),
	)
}

// applyStringFlag copies a changed flag value over the config value.
func applyStringFlag(cmd *cobra.Command, name string, target **string, value string) {
	if !cmd.Flags().Changed(name) {
		return
	}
	v := value
	*target = &v
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
