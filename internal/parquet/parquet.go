// Package parquet provides data structures and functions for exporting archivepulse
// trend data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/archivepulse/schema"
	"github.com/parquet-go/parquet-go"
)

// Run represents a single pipeline run with metadata.
// This struct maps to the archivepulse_runs database table.
type Run struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// TargetURL is the URL whose archive history was analyzed
	TargetURL string `parquet:"target_url,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalDays is the number of daily records produced by this run
	TotalDays int32 `parquet:"total_days,snappy"`

	// ConfigParams contains the JSON-encoded run parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// DailyRecord represents one stored day of a run.
// This struct maps to the archivepulse_daily_records database table.
type DailyRecord struct {
	RunID         int64   `parquet:"run_id,snappy"`
	Day           string  `parquet:"record_day,snappy"`
	Count2xx      int32   `parquet:"count_2xx,snappy"`
	Count3xx      int32   `parquet:"count_3xx,snappy"`
	Count4xx      int32   `parquet:"count_4xx,snappy"`
	Count5xx      int32   `parquet:"count_5xx,snappy"`
	Specimen      string  `parquet:"specimen,snappy"`
	Datetime      *string `parquet:"capture_time,optional,snappy"`
	Digest        *string `parquet:"digest,optional,snappy"`
	Content       string  `parquet:"content,snappy"`
	Chaos         float64 `parquet:"chaos,snappy"`
	ChaosWindowed float64 `parquet:"chaos_windowed,snappy"`
	Resilience    float64 `parquet:"resilience,snappy"`
	Fixity        float64 `parquet:"fixity,snappy"`
}

// DailySeries is one row of a daily series written by the parquet output mode.
type DailySeries struct {
	URL           string  `parquet:"url,dict,snappy"`
	Day           string  `parquet:"day,snappy"`
	Datetime      string  `parquet:"datetime,snappy"`
	Count2xx      int32   `parquet:"count_2xx,snappy"`
	Count3xx      int32   `parquet:"count_3xx,snappy"`
	Count4xx      int32   `parquet:"count_4xx,snappy"`
	Count5xx      int32   `parquet:"count_5xx,snappy"`
	All           int32   `parquet:"all,snappy"`
	Specimen      string  `parquet:"specimen,dict,snappy"`
	Filled        bool    `parquet:"filled"`
	Digest        string  `parquet:"digest,snappy"`
	Content       string  `parquet:"content,dict,snappy"`
	Resilience    float64 `parquet:"resilience,snappy"`
	Fixity        float64 `parquet:"fixity,snappy"`
	Chaos         float64 `parquet:"chaos,snappy"`
	ChaosWindowed float64 `parquet:"chaos_windowed,snappy"`
	URIM          string  `parquet:"urim,snappy"`
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteDailyRecordsParquet writes a slice of DailyRecord structs to a Parquet file.
func WriteDailyRecordsParquet(data []DailyRecord, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteDailySeries writes a daily series to w.
func WriteDailySeries(w io.Writer, data []DailySeries) error {
	return write(w, data)
}

func writeFile[T any](data []T, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return write(file, data)
}

// write encodes rows with a schema derived from the struct tags of T.
func write[T any](w io.Writer, data []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	// Close flushes the footer, so its error matters
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:         record.RunID,
			TargetURL:     record.TargetURL,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			TotalDays:     record.TotalDays,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertDailyRecordRows converts schema.DailyRecordRow to DailyRecord for Parquet export.
func ConvertDailyRecordRows(records []schema.DailyRecordRow) []DailyRecord {
	result := make([]DailyRecord, len(records))
	for i, r := range records {
		result[i] = DailyRecord{
			RunID:         r.RunID,
			Day:           r.Day,
			Count2xx:      r.Count2xx,
			Count3xx:      r.Count3xx,
			Count4xx:      r.Count4xx,
			Count5xx:      r.Count5xx,
			Specimen:      r.Specimen,
			Datetime:      r.Datetime,
			Digest:        r.Digest,
			Content:       r.Content,
			Chaos:         r.Chaos,
			ChaosWindowed: r.ChaosWindowed,
			Resilience:    r.Resilience,
			Fixity:        r.Fixity,
		}
	}
	return result
}

// ConvertDailyViews converts materialized daily views of one URL into series rows.
func ConvertDailyViews(url string, views []schema.DailyView) []DailySeries {
	result := make([]DailySeries, len(views))
	for i, v := range views {
		result[i] = DailySeries{
			URL:           url,
			Day:           v.Day,
			Datetime:      v.Datetime,
			Count2xx:      int32(v.Count2xx),
			Count3xx:      int32(v.Count3xx),
			Count4xx:      int32(v.Count4xx),
			Count5xx:      int32(v.Count5xx),
			All:           int32(v.All),
			Specimen:      v.Specimen,
			Filled:        v.Filled,
			Digest:        v.Digest,
			Content:       v.Content,
			Resilience:    v.Resilience,
			Fixity:        v.Fixity,
			Chaos:         v.Chaos,
			ChaosWindowed: v.ChaosWindowed,
			URIM:          v.URIM,
		}
	}
	return result
}
