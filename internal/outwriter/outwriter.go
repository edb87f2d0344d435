// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"io"
	"os"

	"github.com/huangsam/archivepulse/internal/contract"
	"github.com/huangsam/archivepulse/schema"
)

// LogTrendHeader prints a concise, 2-line header before a pipeline run.
// Machine-readable output on stdout keeps the header on stderr.
func LogTrendHeader(cfg *contract.Config) {
	writeTrendHeader(headerWriter(cfg), cfg)
}

func headerWriter(cfg *contract.Config) io.Writer {
	if cfg.Output == schema.TextOut || cfg.Output == "" || cfg.OutputFile != "" {
		return os.Stdout
	}
	return os.Stderr
}

func writeTrendHeader(w io.Writer, cfg *contract.Config) {
	// Line 1: The target and how gaps are treated
	_, _ = fmt.Fprintf(w, "🔎 URL: %s (Fill: %s, Policy: %s)\n", cfg.TargetURL, fillLabel(cfg.FillLimit), cfg.FillPolicy)

	// Line 2: The day the curve walks up to
	_, _ = fmt.Fprintf(w, "📅 As of: %s\n", cfg.Today().Format(schema.DayLayout))
}

// fillLabel renders the fill limit for humans.
func fillLabel(limit int) string {
	switch {
	case limit < 0:
		return "unlimited"
	case limit == 0:
		return "off"
	default:
		return fmt.Sprintf("%dd", limit)
	}
}

// labelFor returns the tier label, colored when enabled.
func labelFor(cfg *contract.Config, score float64) string {
	if cfg.UseColors {
		return contract.GetColorLabel(score)
	}
	return contract.GetPlainLabel(score)
}

// statusFor returns the status class, colored when enabled.
func statusFor(cfg *contract.Config, s schema.StatusClass) string {
	if cfg.UseColors {
		return contract.GetColorStatus(s)
	}
	return s.String()
}
