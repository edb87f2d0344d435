package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/huangsam/archivepulse/core/algo"
	"github.com/huangsam/archivepulse/internal/contract"
	"github.com/huangsam/archivepulse/internal/parquet"
	"github.com/huangsam/archivepulse/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintDailyResults outputs the daily series, dispatching based on the output format configured.
// The text table shows the most recent days up to the result limit; other formats carry every day.
func PrintDailyResults(result *schema.TrendResult, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONResultsForDaily(w, result)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForDaily(w, result, fmtFloat, intFmt)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.WriteDailySeries(w, parquet.ConvertDailyViews(result.URL, result.Views()))
		}, "Wrote Parquet"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDailyTable(result, cfg, fmtFloat, intFmt, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeDailyTable generates and writes the human-readable table.
func writeDailyTable(result *schema.TrendResult, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	detail := showDetailColumns(cfg)

	// 1. Define Headers
	headers := []string{"Day", "Datetime", "2xx", "3xx", "4xx", "5xx", "All", "Specimen", "Content", "Resilience", "Fixity", "Chaos", "Label"}
	if detail {
		headers = append(headers, "Digest", "Windowed")
	}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	shown := algo.TailDays(result.Daily, cfg.ResultLimit)
	var data [][]string
	for i := range shown {
		v := shown[i].View(result.URL)
		row := []string{
			v.Day,
			v.Datetime,
			fmt.Sprintf(intFmt, v.Count2xx),
			fmt.Sprintf(intFmt, v.Count3xx),
			fmt.Sprintf(intFmt, v.Count4xx),
			fmt.Sprintf(intFmt, v.Count5xx),
			fmt.Sprintf(intFmt, v.All),
			statusFor(cfg, shown[i].Specimen()),
			v.Content,
			fmtFloat(v.Resilience),
			fmtFloat(v.Fixity),
			fmtFloat(v.Chaos),
			labelFor(cfg, v.Resilience),
		}
		if v.Filled {
			row[1] = "(filled)"
		}
		if detail {
			row = append(row, v.Digest, fmtFloat(v.ChaosWindowed))
		}
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	s := result.Summary
	if _, err := fmt.Fprintf(writer, "Showing last %d of %d days (captures: %d, span: %s, gaps: %d)\n",
		len(shown), len(result.Daily), s.Captures, schema.FormatSpan(s.Span), s.Gaps); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Pipeline completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}
