package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/readlog/internal/store"
)

var importMerge bool

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import books from a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
	cmd.Flags().BoolVar(&importMerge, "merge", false, "merge by id instead of replacing the collection")
	return cmd
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close of a read-only file.
			_ = cerr
		}
	}()

	_, st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closeStore(st)

	mode := store.ImportReplace
	if importMerge {
		mode = store.ImportMerge
	}
	n, err := store.Import(context.Background(), st, f, mode)
	if err != nil {
		return err
	}
	logErrf("Imported %d books (%s)\n", n, mode)
	return nil
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Export books as JSON (stdout by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runExportCmd,
	}
}

func runExportCmd(cmd *cobra.Command, args []string) error {
	_, st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closeStore(st)

	if len(args) == 0 {
		return store.Export(context.Background(), st, cmd.OutOrStdout())
	}
	f, err := os.Create(args[0])
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := store.Export(context.Background(), st, f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close export file: %w", err)
	}
	logErrf("Wrote %s\n", args[0])
	return nil
}

func newBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Write a timestamped backup of the collection",
		Args:  cobra.NoArgs,
		RunE:  runBackupCmd,
	}
}

func runBackupCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closeStore(st)

	path, err := store.Backup(context.Background(), st, fileCfg.ResolveStorage().BackupDir)
	if err != nil {
		return err
	}
	logErrln("Backup written to", path)
	return nil
}
