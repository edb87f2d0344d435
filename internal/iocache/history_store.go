package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/archivepulse/internal/contract"
	"github.com/huangsam/archivepulse/schema"
)

// Table names for run history.
const (
	runsTable         = "archivepulse_runs"
	dailyRecordsTable = "archivepulse_daily_records"
)

// historyTables lists the history tables in creation order.
var historyTables = []string{runsTable, dailyRecordsTable}

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &HistoryStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr, contract.GetHistoryDBFilePath())
	if err != nil {
		return nil, fmt.Errorf("history store: %w", err)
	}

	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

// createHistoryTables creates the run history tables.
func createHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{runsTable, getCreateRunsQuery(backend)},
		{dailyRecordsTable, getCreateDailyRecordsQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateRunsQuery returns the CREATE TABLE query for archivepulse_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				target_url VARCHAR(2048) NOT NULL,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				total_days INT,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				target_url TEXT NOT NULL,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms INT,
				total_days INT,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				target_url TEXT NOT NULL,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				total_days INTEGER,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateDailyRecordsQuery returns the CREATE TABLE query for archivepulse_daily_records.
func getCreateDailyRecordsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(dailyRecordsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				record_day CHAR(10) NOT NULL,
				count_2xx INT NOT NULL,
				count_3xx INT NOT NULL,
				count_4xx INT NOT NULL,
				count_5xx INT NOT NULL,
				specimen VARCHAR(8) NOT NULL,
				capture_time CHAR(14),
				digest CHAR(8),
				content VARCHAR(16) NOT NULL,
				chaos DOUBLE NOT NULL,
				chaos_windowed DOUBLE NOT NULL,
				resilience DOUBLE NOT NULL,
				fixity DOUBLE NOT NULL,
				PRIMARY KEY (run_id, record_day)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				record_day TEXT NOT NULL,
				count_2xx INT NOT NULL,
				count_3xx INT NOT NULL,
				count_4xx INT NOT NULL,
				count_5xx INT NOT NULL,
				specimen TEXT NOT NULL,
				capture_time TEXT,
				digest TEXT,
				content TEXT NOT NULL,
				chaos DOUBLE PRECISION NOT NULL,
				chaos_windowed DOUBLE PRECISION NOT NULL,
				resilience DOUBLE PRECISION NOT NULL,
				fixity DOUBLE PRECISION NOT NULL,
				PRIMARY KEY (run_id, record_day)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				record_day TEXT NOT NULL,
				count_2xx INTEGER NOT NULL,
				count_3xx INTEGER NOT NULL,
				count_4xx INTEGER NOT NULL,
				count_5xx INTEGER NOT NULL,
				specimen TEXT NOT NULL,
				capture_time TEXT,
				digest TEXT,
				content TEXT NOT NULL,
				chaos REAL NOT NULL,
				chaos_windowed REAL NOT NULL,
				resilience REAL NOT NULL,
				fixity REAL NOT NULL,
				PRIMARY KEY (run_id, record_day)
			);
		`, quotedTableName)
	}
}

// BeginRun creates a new run for a target URL and returns its unique ID.
func (hs *HistoryStoreImpl) BeginRun(targetURL string, startTime time.Time, configParams map[string]any) (int64, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(runsTable, hs.backend)

	var runID int64
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (target_url, start_time, config_params) VALUES ($1, $2, $3) RETURNING run_id`, quotedTableName)
		err = hs.db.QueryRow(query, targetURL, startTime, string(configJSON)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (target_url, start_time, config_params) VALUES (?, ?, ?)`, quotedTableName)
		var result sql.Result
		result, err = hs.db.Exec(query, targetURL, formatTime(startTime, hs.backend), string(configJSON))
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// EndRun updates the run with completion data.
func (hs *HistoryStoreImpl) EndRun(runID int64, endTime time.Time, totalDays int) error {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(runsTable, hs.backend)

	// First, get the start_time to calculate duration
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quotedTableName, bindVars(hs.backend, 1))
	row := hs.db.QueryRow(query, runID)

	var startTime time.Time
	switch hs.backend {
	case schema.SQLiteBackend:
		var startTimeStr string
		if err := row.Scan(&startTimeStr); err != nil {
			return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
		}
		var err error
		if startTime, err = parseStoredTime(startTimeStr); err != nil {
			return fmt.Errorf("failed to parse start_time: %w", err)
		}
	default: // MySQL and PostgreSQL store as native datetime
		if err := row.Scan(&startTime); err != nil {
			return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
		}
	}

	durationMs := endTime.Sub(startTime).Milliseconds()

	var updateQuery string
	switch hs.backend {
	case schema.PostgreSQLBackend:
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = $1, run_duration_ms = $2, total_days = $3 WHERE run_id = $4`, quotedTableName)
	default: // SQLite and MySQL
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = ?, run_duration_ms = ?, total_days = ? WHERE run_id = ?`, quotedTableName)
	}

	if _, err := hs.db.Exec(updateQuery, formatTime(endTime, hs.backend), durationMs, totalDays, runID); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// RecordDaily stores one finished daily record for a run.
func (hs *HistoryStoreImpl) RecordDaily(runID int64, record *schema.DailyRecord) error {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil
	}

	row := schema.NewDailyRecordRow(runID, record)
	query := fmt.Sprintf(`
		INSERT INTO %s (run_id, record_day, count_2xx, count_3xx, count_4xx, count_5xx,
		                specimen, capture_time, digest, content,
		                chaos, chaos_windowed, resilience, fixity)
		VALUES (%s)
	`, quoteTableName(dailyRecordsTable, hs.backend), bindVars(hs.backend, 14))

	_, err := hs.db.Exec(query,
		row.RunID, row.Day, row.Count2xx, row.Count3xx, row.Count4xx, row.Count5xx,
		row.Specimen, row.Datetime, row.Digest, row.Content,
		row.Chaos, row.ChaosWindowed, row.Resilience, row.Fixity,
	)
	if err != nil {
		return fmt.Errorf("failed to insert daily record %s: %w", row.Day, err)
	}
	return nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if hs.backend == schema.NoneBackend || hs.db == nil {
		return status, nil
	}

	quotedRuns := quoteTableName(runsTable, hs.backend)
	if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedRuns)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		lastRunQuery := fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", quotedRuns)
		oldestRunQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", quotedRuns)

		switch hs.backend {
		case schema.SQLiteBackend:
			var lastStr, oldestStr string
			if err := hs.db.QueryRow(lastRunQuery).Scan(&status.LastRunID, &lastStr); err != nil {
				return status, fmt.Errorf("failed to get last run info: %w", err)
			}
			if err := hs.db.QueryRow(oldestRunQuery).Scan(&oldestStr); err != nil {
				return status, fmt.Errorf("failed to get oldest run time: %w", err)
			}
			var err error
			if status.LastRunTime, err = parseStoredTime(lastStr); err != nil {
				return status, fmt.Errorf("failed to parse last run time: %w", err)
			}
			if status.OldestRunTime, err = parseStoredTime(oldestStr); err != nil {
				return status, fmt.Errorf("failed to parse oldest run time: %w", err)
			}
		default: // MySQL and PostgreSQL store as native datetime
			if err := hs.db.QueryRow(lastRunQuery).Scan(&status.LastRunID, &status.LastRunTime); err != nil {
				return status, fmt.Errorf("failed to get last run info: %w", err)
			}
			if err := hs.db.QueryRow(oldestRunQuery).Scan(&status.OldestRunTime); err != nil {
				return status, fmt.Errorf("failed to get oldest run time: %w", err)
			}
		}

		daysQuery := fmt.Sprintf("SELECT COALESCE(SUM(total_days), 0) FROM %s", quotedRuns)
		if err := hs.db.QueryRow(daysQuery).Scan(&status.TotalDays); err != nil {
			return status, fmt.Errorf("failed to get total days: %w", err)
		}
	}

	for _, table := range historyTables {
		var count int64
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend))
		if err := hs.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllRuns retrieves all runs from the store.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, target_url, start_time, end_time, run_duration_ms, COALESCE(total_days, 0), config_params
		FROM %s ORDER BY run_id`, quoteTableName(runsTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord

		switch hs.backend {
		case schema.SQLiteBackend:
			var startTimeStr string
			var endTimeStr *string
			if err := rows.Scan(&record.RunID, &record.TargetURL, &startTimeStr, &endTimeStr, &record.RunDurationMs, &record.TotalDays, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
			if record.StartTime, err = parseStoredTime(startTimeStr); err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			if endTimeStr != nil {
				endTime, err := parseStoredTime(*endTimeStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				record.EndTime = &endTime
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.RunID, &record.TargetURL, &record.StartTime, &record.EndTime, &record.RunDurationMs, &record.TotalDays, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetAllDailyRecords retrieves every stored daily record ordered by run and day.
func (hs *HistoryStoreImpl) GetAllDailyRecords() ([]schema.DailyRecordRow, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, record_day, count_2xx, count_3xx, count_4xx, count_5xx,
		specimen, capture_time, digest, content, chaos, chaos_windowed, resilience, fixity
		FROM %s ORDER BY run_id, record_day`, quoteTableName(dailyRecordsTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.DailyRecordRow
	for rows.Next() {
		var r schema.DailyRecordRow
		if err := rows.Scan(&r.RunID, &r.Day, &r.Count2xx, &r.Count3xx, &r.Count4xx, &r.Count5xx,
			&r.Specimen, &r.Datetime, &r.Digest, &r.Content,
			&r.Chaos, &r.ChaosWindowed, &r.Resilience, &r.Fixity); err != nil {
			return nil, fmt.Errorf("failed to scan daily record: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily records: %w", err)
	}
	return results, nil
}
