package app

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/vk/tanglestat/internal/ctxlog"
	"github.com/vk/tanglestat/internal/ledger"
	"github.com/vk/tanglestat/internal/stats"
)

// Run executes the main application logic: parse the ledger, compute the
// statistics, print the report, then check profile thresholds.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "ledger", a.config.LedgerPath)

	f, err := os.Open(a.config.LedgerPath)
	if err != nil {
		return fmt.Errorf("failed to open ledger file: %w", err)
	}
	defer f.Close()

	led, err := ledger.Parse(ctx, f)
	if err != nil {
		return fmt.Errorf("failed to parse ledger %s: %w", a.config.LedgerPath, err)
	}
	a.logger.Debug("Ledger parsed.", "records", len(led.Nodes))

	st := stats.Compute(led)
	if _, err := fmt.Fprintln(a.outW, st); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	a.checkThresholds(st)

	a.logger.Debug("App.Run method finished.")
	return nil
}

// checkThresholds logs a warning for every profile threshold the computed
// metrics fall below. Thresholds never alter the report or the exit code.
func (a *App) checkThresholds(st stats.Stats) {
	if a.profile == nil || len(a.profile.Thresholds) == 0 {
		return
	}

	metrics := st.Metrics()
	names := make([]string, 0, len(a.profile.Thresholds))
	for name := range a.profile.Thresholds {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		threshold := a.profile.Thresholds[name]
		value, ok := metrics[name]
		if !ok {
			a.logger.Warn("Unknown metric in profile thresholds.", "metric", name)
			continue
		}
		if value < threshold {
			a.logger.Warn("Metric below profile threshold.", "metric", name, "value", value, "threshold", threshold)
		}
	}
}
