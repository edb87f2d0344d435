package cmd

import (
	"github.com/huangsam/archivepulse/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the ArchivePulse MCP server",
	Long: `Launch an MCP server over stdio that lets AI agents run trend analyses
through the get_trend_analysis, get_daily_series and get_summary tools.

Flags and config values act as defaults that each tool call can override.`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
