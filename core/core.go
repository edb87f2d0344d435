// Package core has core logic for running the trend pipeline end to end.
package core

import (
	"context"
	"time"

	"github.com/huangsam/archivepulse/internal/contract"
	"github.com/huangsam/archivepulse/internal/outwriter"
	"github.com/huangsam/archivepulse/internal/telemetry"
	"github.com/huangsam/archivepulse/schema"
)

// ExecutorFunc defines the function signature for executing different output modes.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// GetTrendResult runs the whole pipeline for cfg.TargetURL against the remote index.
// It is shared by the CLI, the MCP server and the HTTP API.
func GetTrendResult(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*schema.TrendResult, time.Duration, error) {
	return getTrendResultWithClient(ctx, cfg, contract.NewRemoteIndexClientFromConfig(cfg), mgr)
}

func getTrendResultWithClient(ctx context.Context, cfg *contract.Config, client contract.IndexClient, mgr contract.CacheManager) (*schema.TrendResult, time.Duration, error) {
	start := time.Now()
	result, err := runTrendCore(ctx, cfg, client, mgr)
	duration := time.Since(start)
	telemetry.ObserveRun(duration.Seconds(), err)
	return result, duration, err
}

// ExecuteDaily runs the pipeline and prints the daily series.
// It serves as the main entry point for the 'daily' command.
func ExecuteDaily(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	result, duration, err := GetTrendResult(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintDailyResults(result, cfg, duration)
}

// ExecuteSummary runs the pipeline and prints the summary, transitions and samples.
func ExecuteSummary(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	result, duration, err := GetTrendResult(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintSummaryResults(result, cfg, duration)
}

// ExecuteNarrative runs the pipeline and prints the trend-analysis text block.
func ExecuteNarrative(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	result, _, err := GetTrendResult(WithSuppressHeader(ctx), cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintNarrative(result, cfg)
}
