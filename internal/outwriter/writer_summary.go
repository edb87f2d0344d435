package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/huangsam/archivepulse/schema"
)

// writeCSVResultsForSummary writes the summary as flat metric/value rows.
func writeCSVResultsForSummary(w io.Writer, result *schema.TrendResult, fmtFloat func(float64) string, intFmt string) error {
	s := result.Summary
	return writeCSVWithHeader(w, []string{"metric", "value"}, func(cw *csv.Writer) error {
		rows := [][]string{
			{"url", result.URL},
			{"captures", fmt.Sprintf(intFmt, s.Captures)},
			{"span", fmt.Sprintf(intFmt, s.Span)},
			{"gaps", fmt.Sprintf(intFmt, s.Gaps)},
			{"resilience", fmtFloat(s.Resilience)},
			{"resilience_trend", fmtFloat(s.ResilienceTrend)},
			{"fixity", fmtFloat(s.Fixity)},
			{"fixity_trend", fmtFloat(s.FixityTrend)},
			{"chaos", fmtFloat(s.Chaos)},
			{"chaos_trend", fmtFloat(s.ChaosTrend)},
		}
		for _, class := range schema.KnownClasses {
			rows = append(rows, []string{"status_" + string(class), fmt.Sprintf(intFmt, s.StatusDistribution[class])})
		}
		for _, cell := range result.Transitions.Cells() {
			rows = append(rows, []string{
				fmt.Sprintf("transition_%s_%s", cell.Source, cell.Target),
				fmt.Sprintf(intFmt, cell.Count),
			})
		}
		for _, ps := range result.Samples.Rows() {
			rows = append(rows, []string{"samples_" + string(ps.Period), fmt.Sprintf(intFmt, ps.Samples)})
		}
		rows = append(rows, []string{"skipped_lines", fmt.Sprintf(intFmt, result.Skipped)})
		return cw.WriteAll(rows)
	})
}
