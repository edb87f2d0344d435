package outwriter

import (
	"os"

	"github.com/huangsam/archivepulse/internal/contract"
	"golang.org/x/term"
)

// wideTableWidth is the terminal width needed to show the detail columns of the daily table.
const wideTableWidth = 140

// getTerminalWidth returns the configured width override or the detected terminal width.
func getTerminalWidth(cfg *contract.Config) int {
	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		return cfg.Width
	}

	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		// Fallback to conservative default if terminal size can't be detected
		return 80 // Conservative default for narrow terminals and CI
	}
	return detectedWidth
}

// showDetailColumns reports whether the daily table has room for digest and windowed chaos.
func showDetailColumns(cfg *contract.Config) bool {
	return getTerminalWidth(cfg) >= wideTableWidth
}
