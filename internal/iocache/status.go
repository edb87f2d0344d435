package iocache

import (
	"fmt"

	"github.com/huangsam/archivepulse/schema"
)

const statusTimeLayout = "2006-01-02 15:04:05"

// PrintCacheStatus prints cache status information.
func PrintCacheStatus(status schema.CacheStatus) {
	fmt.Printf("Cache Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Entries: %d\n", status.TotalEntries)
	if status.TotalEntries > 0 {
		fmt.Printf("Last Entry: %s\n", status.LastEntryTime.Format(statusTimeLayout))
		fmt.Printf("Oldest Entry: %s\n", status.OldestEntryTime.Format(statusTimeLayout))
	}
	fmt.Printf("Table Size: %d bytes\n", status.TableSizeBytes)
}

// PrintHistoryStatus prints run history status information.
func PrintHistoryStatus(status schema.HistoryStatus) {
	fmt.Printf("History Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns > 0 {
		fmt.Printf("Last Run ID: %d\n", status.LastRunID)
		fmt.Printf("Last Run: %s\n", status.LastRunTime.Format(statusTimeLayout))
		fmt.Printf("Oldest Run: %s\n", status.OldestRunTime.Format(statusTimeLayout))
		fmt.Printf("Total Days Recorded: %d\n", status.TotalDays)
	}
	fmt.Println("Table Sizes:")
	for _, table := range historyTables {
		fmt.Printf("  %s: %d rows\n", table, status.TableSizes[table])
	}
}
