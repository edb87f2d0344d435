package outwriter

import (
	"fmt"
	"io"

	"github.com/huangsam/archivepulse/internal/contract"
	"github.com/huangsam/archivepulse/schema"
)

// PrintNarrative writes the fixed trend-analysis text block. JSON output wraps it with the URL.
func PrintNarrative(result *schema.TrendResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		if cfg.Output == schema.JSONOut {
			return writeJSON(w, map[string]string{"url": result.URL, "narrative": result.Narrative})
		}
		_, err := fmt.Fprintln(w, result.Narrative)
		return err
	}, "Wrote narrative")
}
