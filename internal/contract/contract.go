// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"iter"
	"time"

	"github.com/huangsam/archivepulse/schema"
)

// ProgressFunc receives the fraction of index pages consumed so far.
type ProgressFunc func(fraction float64)

// IndexClient defines the operations needed to read a remote capture index.
// This allows the aggregation logic to be tested without network access.
type IndexClient interface {
	// Query builds the index query string for a target URL. It is also the cache key.
	Query(target string) string

	// Lines streams every raw line of every page of the query, in page order.
	// A failed page yields a single error and ends the stream.
	Lines(ctx context.Context, query string, progress ProgressFunc) iter.Seq2[string, error]
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetAggregateStore() CacheStore
	GetHistoryStore() HistoryStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// HistoryStore defines the interface for tracking pipeline runs and their daily records.
type HistoryStore interface {
	// BeginRun creates a new run for a target URL and returns its unique ID
	BeginRun(target string, startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, totalDays int) error

	// RecordDaily stores one finished daily record of a run
	RecordDaily(runID int64, record *schema.DailyRecord) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns retrieves all runs in insertion order
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllDailyRecords retrieves every stored daily record
	GetAllDailyRecords() ([]schema.DailyRecordRow, error)

	// Close closes the underlying connection
	Close() error
}
