package core

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/huangsam/archivepulse/core/agg"
	"github.com/huangsam/archivepulse/core/algo"
	"github.com/huangsam/archivepulse/internal/contract"
	"github.com/huangsam/archivepulse/internal/outwriter"
	"github.com/huangsam/archivepulse/schema"
)

// runTrendCore performs the Aggregation, Fill, Curve and Summary steps for one URL.
func runTrendCore(ctx context.Context, cfg *contract.Config, client contract.IndexClient, mgr contract.CacheManager) (*schema.TrendResult, error) {
	if !shouldSuppressHeader(ctx) {
		outwriter.LogTrendHeader(cfg)
	}

	// --- 0. Begin Run Tracking (if configured) ---
	var history contract.HistoryStore
	if mgr != nil {
		history = mgr.GetHistoryStore()
	}
	if history != nil {
		configParams := map[string]any{
			"fill":     cfg.FillLimit,
			"policy":   string(cfg.FillPolicy),
			"as_of":    cfg.Today().Format(schema.DayLayout),
			"endpoint": cfg.IndexEndpoint,
		}
		runID, err := history.BeginRun(cfg.TargetURL, time.Now(), configParams)
		if err != nil {
			contract.LogWarn("Run tracking initialization failed", err)
		} else if runID > 0 {
			ctx = withRunID(ctx, runID)
		}
	}

	// --- 1. Aggregation Phase (with caching) ---
	output, err := agg.CachedAggregate(ctx, cfg, client, mgr, progressFor(ctx))
	if err != nil {
		closeFailedRun(ctx, history)
		return nil, err
	}

	// --- 2. Fill, Curve and Summary ---
	result, err := buildTrend(cfg, client.Query(cfg.TargetURL), output)
	if err != nil {
		closeFailedRun(ctx, history)
		return nil, err
	}

	// --- 3. End Run Tracking ---
	if runID := getRunID(ctx); history != nil && runID > 0 {
		recordRun(history, runID, result.Daily)
	}

	return result, nil
}

// buildTrend runs every stage that depends on per-run parameters.
// It never touches the network or the cache.
func buildTrend(cfg *contract.Config, query string, output *schema.AggregateOutput) (*schema.TrendResult, error) {
	params := cfg.TrendParams()

	filled, err := algo.Fill(output.Records, params.FillLimit, params.FillPolicy)
	if err != nil {
		return nil, err
	}
	daily, err := algo.Curve(filled, params.SigParams, params.AsOf)
	if err != nil {
		return nil, fmt.Errorf("curve generation failed for %s: %w", cfg.TargetURL, err)
	}
	summary := algo.Summarize(daily)

	return &schema.TrendResult{
		URL:         cfg.TargetURL,
		Query:       query,
		Params:      params,
		Daily:       daily,
		Transitions: algo.Transitions(daily),
		Samples:     output.Samples,
		Summary:     summary,
		Narrative:   algo.Narrative(cfg.TargetURL, summary),
		Skipped:     output.Skipped,
	}, nil
}

// recordRun stores every daily record and closes the run. Failures only warn.
func recordRun(history contract.HistoryStore, runID int64, daily []schema.DailyRecord) {
	for i := range daily {
		if err := history.RecordDaily(runID, &daily[i]); err != nil {
			contract.LogWarn("Failed to record daily history", err)
			break
		}
	}
	if err := history.EndRun(runID, time.Now(), len(daily)); err != nil {
		contract.LogWarn("Failed to finalize run tracking", err)
	}
}

// closeFailedRun ends an open run with no recorded days.
func closeFailedRun(ctx context.Context, history contract.HistoryStore) {
	runID := getRunID(ctx)
	if history == nil || runID <= 0 {
		return
	}
	if err := history.EndRun(runID, time.Now(), 0); err != nil {
		contract.LogWarn("Failed to finalize run tracking", err)
	}
}

// progressFor returns a stderr progress reporter, or nil when headers are suppressed.
func progressFor(ctx context.Context) contract.ProgressFunc {
	if shouldSuppressHeader(ctx) {
		return nil
	}
	return func(fraction float64) {
		fmt.Fprintf(os.Stderr, "\r⏳ Fetching index: %3.0f%%", fraction*100)
		if fraction >= 1 {
			fmt.Fprintln(os.Stderr)
		}
	}
}
