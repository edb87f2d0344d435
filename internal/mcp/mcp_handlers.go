package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/archivepulse/core"
	"github.com/huangsam/archivepulse/core/algo"
	"github.com/huangsam/archivepulse/internal/contract"
	"github.com/huangsam/archivepulse/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// runTrend applies the request arguments to a copy of the base config and runs the pipeline.
// A non-nil tool result reports a failure to the client.
func (h *toolHandler) runTrend(ctx context.Context, request mcp.CallToolRequest) (*schema.TrendResult, *contract.Config, *mcp.CallToolResult) {
	cfg := h.baseCfg.Clone()

	overrides := contract.TrendOverrides{
		TargetURL: request.GetString("url", ""),
		Policy:    request.GetString("policy", ""),
		AsOf:      request.GetString("as_of", ""),
	}
	if _, ok := request.GetArguments()["fill"]; ok {
		fill := request.GetInt("fill", cfg.FillLimit)
		overrides.Fill = &fill
	}
	if err := contract.ApplyTrendOverrides(cfg, overrides); err != nil {
		return nil, nil, mcp.NewToolResultError(fmt.Sprintf("invalid trend parameters: %v", err))
	}

	result, _, err := core.GetTrendResult(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return nil, nil, mcp.NewToolResultError(fmt.Sprintf("trend analysis failed: %v", err))
	}
	return result, cfg, nil
}

func (h *toolHandler) handleGetTrendAnalysis(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, _, failed := h.runTrend(ctx, request)
	if failed != nil {
		return failed, nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	res := mcp.NewToolResultText(string(jsonData))
	res.Content = append(res.Content, mcp.NewTextContent(algo.PresentationGuide))
	return res, nil
}

func (h *toolHandler) handleGetDailySeries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, cfg, failed := h.runTrend(ctx, request)
	if failed != nil {
		return failed, nil
	}

	limit := cfg.ResultLimit
	if l := request.GetInt("limit", 0); l > 0 {
		limit = l
	}
	tail := algo.TailDays(result.Daily, limit)
	views := make([]schema.DailyView, 0, len(tail))
	for i := range tail {
		views = append(views, tail[i].View(result.URL))
	}

	jsonData, _ := json.MarshalIndent(map[string]any{
		"url":  result.URL,
		"days": views,
	}, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, _, failed := h.runTrend(ctx, request)
	if failed != nil {
		return failed, nil
	}

	jsonData, _ := json.MarshalIndent(map[string]any{
		"url":     result.URL,
		"summary": result.Summary,
	}, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
