package cmd

import (
	"github.com/huangsam/archivepulse/core"
	"github.com/spf13/cobra"
)

// dailyCmd prints the daily capture series of one URL.
var dailyCmd = &cobra.Command{
	Use:   "daily <url>",
	Short: "Show the daily resilience, fixity and chaos series of a URL.",
	Long: `Fetch the capture index of a URL, aggregate it per day and compute the
resilience, fixity and chaos curves.

Each row is one calendar day from the first capture through --as-of:
- Per-class capture counts (2xx, 3xx, 4xx, 5xx)
- The specimen status that represents the day
- Whether the content changed since the previous known day
- The three trend scores

Gaps up to --fill days long are filled with synthesized records chosen by --policy.
Text output shows the last --limit days; csv, json and parquet carry every day.

Examples:
  # Last 30 days of the series
  archivepulse daily example.com

  # Fill every gap using the closest neighbor
  archivepulse daily example.com --fill -1 --policy closest

  # Export the full series
  archivepulse daily example.com --output parquet --output-file series.parquet`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE:    runPipeline(core.ExecuteDaily),
}

// summaryCmd prints the compact summary of one URL.
var summaryCmd = &cobra.Command{
	Use:   "summary <url>",
	Short: "Summarize the archive history of a URL.",
	Long: `Compute the trend summary of a URL.

Shows:
- Capture count, span in days and gap count
- Current resilience, fixity and chaos with their last-day trends
- Status distribution: captures per status class summed over all days
- Status transition matrix between consecutive known days
- Sampling density: distinct second, minute, hour, day, month and year
  periods holding at least one capture

Examples:
  # Summary as tables
  archivepulse summary example.com

  # Summary for scripts
  archivepulse summary example.com --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE:    runPipeline(core.ExecuteSummary),
}

// narrativeCmd prints the fixed trend-analysis text block.
var narrativeCmd = &cobra.Command{
	Use:   "narrative <url>",
	Short: "Describe the archive history of a URL in plain text.",
	Long: `Print a short plain-text analysis of the captures, scores and status
distribution of a URL. Useful as input for reports and language models.

Examples:
  archivepulse narrative example.com --as-of 2024-01-01`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE:    runPipeline(core.ExecuteNarrative),
}
