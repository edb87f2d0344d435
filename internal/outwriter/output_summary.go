package outwriter

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/archivepulse/internal/contract"
	"github.com/huangsam/archivepulse/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// ErrSummaryParquet is returned when the summary is asked for in parquet format.
var ErrSummaryParquet = errors.New("parquet output is only supported for the daily series")

// PrintSummaryResults outputs the summary, transition matrix and sample density,
// dispatching based on the output format configured.
func PrintSummaryResults(result *schema.TrendResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForSummary(w, result, fmtFloat, intFmt)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return ErrSummaryParquet
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSummaryTables(result, cfg, fmtFloat, intFmt, duration, w)
		}, "Wrote tables")
	}
	return nil
}

// writeSummaryTables writes the human-readable summary as a sequence of tables.
func writeSummaryTables(result *schema.TrendResult, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, w io.Writer) error {
	s := result.Summary

	// 1. Scores with their last-day deltas
	scores := [][]string{
		{"Resilience", fmtFloat(s.Resilience), fmtFloat(s.ResilienceTrend), labelFor(cfg, s.Resilience)},
		{"Fixity", fmtFloat(s.Fixity), fmtFloat(s.FixityTrend), labelFor(cfg, s.Fixity)},
		{"Chaos", fmtFloat(s.Chaos), fmtFloat(s.ChaosTrend), labelFor(cfg, s.Chaos)},
	}
	if err := renderTable(w, []string{"Metric", "Value", "Trend", "Label"}, scores); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Captures: %d, Span: %s, Gaps: %d\n\n", s.Captures, schema.FormatSpan(s.Span), s.Gaps); err != nil {
		return err
	}

	// 2. Specimen distribution over every day of the series
	var dist [][]string
	for _, class := range schema.KnownClasses {
		dist = append(dist, []string{statusFor(cfg, class), fmt.Sprintf(intFmt, s.StatusDistribution[class])})
	}
	if err := renderTable(w, []string{"Specimen", "Days"}, dist); err != nil {
		return err
	}

	// 3. Transition matrix, source by target
	header := []string{"From \\ To"}
	for _, target := range schema.KnownClasses {
		header = append(header, target.String())
	}
	var matrix [][]string
	for _, source := range schema.KnownClasses {
		row := []string{statusFor(cfg, source)}
		for _, target := range schema.KnownClasses {
			row = append(row, fmt.Sprintf(intFmt, result.Transitions.Get(source, target)))
		}
		matrix = append(matrix, row)
	}
	if err := renderTable(w, header, matrix); err != nil {
		return err
	}

	// 4. Sampling density
	var samples [][]string
	for _, ps := range result.Samples.Rows() {
		samples = append(samples, []string{string(ps.Period), fmt.Sprintf(intFmt, ps.Samples)})
	}
	if err := renderTable(w, []string{"Period", "Samples"}, samples); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Captures read: %d, malformed lines skipped: %d\n", result.Samples.Count, result.Skipped); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Pipeline completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// renderTable writes one right-aligned table followed by a blank line.
func renderTable(w io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(header)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}
