package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/archivepulse/schema"
)

// dailyDocument is the JSON shape of a daily series.
type dailyDocument struct {
	URL     string             `json:"url"`
	Params  schema.TrendParams `json:"params"`
	Skipped int                `json:"skipped_lines"`
	Days    []schema.DailyView `json:"days"`
}

// writeJSONResultsForDaily writes every day of the series in JSON format.
func writeJSONResultsForDaily(w io.Writer, result *schema.TrendResult) error {
	return writeJSON(w, dailyDocument{
		URL:     result.URL,
		Params:  result.Params,
		Skipped: result.Skipped,
		Days:    result.Views(),
	})
}

// writeCSVResultsForDaily writes every day of the series in CSV format.
func writeCSVResultsForDaily(w io.Writer, result *schema.TrendResult, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"day",
		"datetime",
		"2xx",
		"3xx",
		"4xx",
		"5xx",
		"all",
		"specimen",
		"filled",
		"digest",
		"content",
		"resilience",
		"fixity",
		"chaos",
		"chaos_windowed",
		"urim",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, v := range result.Views() {
			rec := []string{
				v.Day,
				v.Datetime,
				fmt.Sprintf(intFmt, v.Count2xx),
				fmt.Sprintf(intFmt, v.Count3xx),
				fmt.Sprintf(intFmt, v.Count4xx),
				fmt.Sprintf(intFmt, v.Count5xx),
				fmt.Sprintf(intFmt, v.All),
				v.Specimen,
				strconv.FormatBool(v.Filled),
				v.Digest,
				v.Content,
				fmtFloat(v.Resilience),
				fmtFloat(v.Fixity),
				fmtFloat(v.Chaos),
				fmtFloat(v.ChaosWindowed),
				v.URIM,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
