// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/archivepulse/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// trendAnalysisGuide is appended to the trend tool description so that clients
// know how to present the result.
const trendAnalysisGuide = "Use the narrative to describe the trend, then present the resilience, fixity " +
	"and chaos scores with their trends. Mention how many captures were observed and the status distribution."

// NewMCPServer initializes and configures the ArchivePulse MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"ArchivePulse Trend Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_trend_analysis ---
	s.AddTool(mcp.NewTool("get_trend_analysis",
		append([]mcp.ToolOption{
			mcp.WithDescription("Analyze the web archive history of a URL and return its trend summary, transition matrix and narrative. " + trendAnalysisGuide),
		}, trendArgs()...)...,
	), h.handleGetTrendAnalysis)

	// --- 2. Tool: get_daily_series ---
	s.AddTool(mcp.NewTool("get_daily_series",
		append([]mcp.ToolOption{
			mcp.WithDescription("Return the most recent days of the daily capture series of a URL with resilience, fixity and chaos scores."),
			mcp.WithNumber("limit", mcp.Description("Number of most recent days to return. Defaults to the configured limit.")),
		}, trendArgs()...)...,
	), h.handleGetDailySeries)

	// --- 3. Tool: get_summary ---
	s.AddTool(mcp.NewTool("get_summary",
		append([]mcp.ToolOption{
			mcp.WithDescription("Return the compact trend summary of a URL: captures, span, gaps, current scores, their trends and the status distribution."),
		}, trendArgs()...)...,
	), h.handleGetSummary)

	return s
}

// trendArgs are the pipeline arguments shared by every tool.
func trendArgs() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("url", mcp.Description("The URL whose archive history is analyzed."), mcp.Required()),
		mcp.WithNumber("fill", mcp.Description("Longest gap in days to fill with synthesized records (-1 unlimited, 0 disabled).")),
		mcp.WithString("policy", mcp.Description("How filled days pick their status. Defaults to 'identical'."), mcp.Enum("identical", "closest", "forward", "backward")),
		mcp.WithString("as_of", mcp.Description("Last day of the curve as YYYY-MM-DD. Defaults to today.")),
	}
}

// StartMCPServer starts the ArchivePulse MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
