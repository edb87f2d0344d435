package iocache

import (
	"errors"
	"fmt"

	"github.com/huangsam/archivepulse/internal/parquet"
)

// ExecuteHistoryExport performs the actual export of run history to Parquet files.
func ExecuteHistoryExport(outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := Manager.GetHistoryStore()
	if store == nil {
		return errors.New("history tracking is disabled. Set --history-backend to enable it")
	}

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}

	if status.TotalRuns == 0 {
		return errors.New("no run history found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total runs: %d\n", status.TotalRuns)
	fmt.Printf("Total daily records: %d\n", status.TableSizes[dailyRecordsTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}

	dailyRows, err := store.GetAllDailyRecords()
	if err != nil {
		return fmt.Errorf("failed to retrieve daily records: %w", err)
	}

	parquetRuns := parquet.ConvertRunRecords(runs)
	parquetDaily := parquet.ConvertDailyRecordRows(dailyRows)

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(parquetRuns), runsFile)

	dailyFile := outputFile + ".daily_records.parquet"
	if err := parquet.WriteDailyRecordsParquet(parquetDaily, dailyFile); err != nil {
		return fmt.Errorf("failed to write daily records: %w", err)
	}
	fmt.Printf("Exported %d daily records to: %s\n", len(parquetDaily), dailyFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
