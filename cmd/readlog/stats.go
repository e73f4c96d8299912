package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/readlog/internal/model"
	"github.com/verte-zerg/readlog/internal/stats"
	"github.com/verte-zerg/readlog/internal/statsui"
)

var (
	statsGenre      string
	statsYear       int
	statsSince      string
	statsJSON       bool
	statsPlain      bool
	statsChartWidth int
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show reading statistics",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsGenre, "genre", "", "genre filter")
	cmd.Flags().IntVar(&statsYear, "year", 0, "completion year filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "completed on or after (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&statsJSON, "json", false, "print the summary as JSON")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the interactive viewer")
	cmd.Flags().IntVar(&statsChartWidth, "chart-width", 0, "bar chart width (0: terminal width)")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg := model.StatsConfig{Genre: strings.TrimSpace(statsGenre), Year: statsYear}
	if statsYear < 0 {
		return fmt.Errorf("--year must be >= 0")
	}
	if statsSince != "" {
		parsed, ok := model.ParseCompletionDate(statsSince)
		if !ok {
			return fmt.Errorf("invalid --since value %q (expected YYYY-MM-DD)", statsSince)
		}
		cfg.Since = &parsed
	}

	fileCfg, st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closeStore(st)
	chartWidth := fileCfg.ChartWidth()
	applyIntConfig(cmd, "chart-width", &statsChartWidth, &chartWidth)

	engine := stats.New()
	out := cmd.OutOrStdout()
	interactive := !statsJSON && !statsPlain && term.IsTerminal(int(os.Stdout.Fd()))
	if interactive {
		program := tea.NewProgram(statsui.NewModel(st, engine, cfg), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run stats TUI: %w", err)
		}
		return nil
	}

	report, err := stats.BuildReport(context.Background(), st, cfg, engine)
	if err != nil {
		return err
	}
	if statsJSON {
		if report.Summary == nil {
			return errors.New("statistics unavailable")
		}
		data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(report.Summary, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode summary: %w", err)
		}
		if _, err := fmt.Fprintln(out, string(data)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	if err := stats.RenderSummary(out, report.Summary, statsChartWidth, false); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
