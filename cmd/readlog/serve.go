package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/readlog/internal/metrics"
	"github.com/verte-zerg/readlog/internal/server"
	"github.com/verte-zerg/readlog/internal/stats"
	"github.com/verte-zerg/readlog/internal/store"
)

var serveAddr string

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web UI and JSON API",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default :8080)")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, storage, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	addr := fileCfg.Addr()
	applyStringConfig(cmd, "addr", &serveAddr, &addr)

	logger := newLogger(fileCfg.LogLevel(), true)
	slog.SetDefault(logger)

	st, err := store.Open(storage)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer closeStore(st)

	m := metrics.New()
	engine := stats.New(stats.WithLogger(logger), stats.WithRecorder(m))
	srv, err := server.New(server.Config{
		Store:     st,
		Engine:    engine,
		Metrics:   m,
		Logger:    logger,
		BackupDir: storage.BackupDir,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Info("starting readlog",
		slog.String("backend", storage.Backend),
		slog.String("path", storage.Path))
	return srv.ListenAndServe(ctx, serveAddr)
}
