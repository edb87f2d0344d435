package cmd

import (
	"fmt"

	"github.com/huangsam/archivepulse/internal/contract"
	"github.com/huangsam/archivepulse/internal/iocache"
	"github.com/huangsam/archivepulse/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historyBackendConfig reads and validates the history backend settings.
// An empty backend is treated as NoneBackend.
func historyBackendConfig() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backend := schema.NoneBackend
	if backendStr := viper.GetString("history-backend"); backendStr != "" {
		backend = schema.DatabaseBackend(backendStr)
	}
	connStr := viper.GetString("history-db-connect")

	if _, ok := schema.ValidCacheBackends[backend]; !ok {
		return "", "", fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// historySetup loads minimal configuration needed for history operations.
func historySetup() error {
	backend, connStr, err := historyBackendConfig()
	if err != nil {
		return err
	}

	// Initialize stores with the loaded config (no aggregate cache for history commands)
	if err := iocache.InitStores("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")

	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyMigrateSetup loads the history settings without opening the store,
// so migrations can run against a fresh database.
func historyMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := historyBackendConfig()
	if err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetHistoryDBFilePath()
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	return nil
}

// historyCmd focused on run history management.
//
// Note: History subcommands use minimal initialization (historySetup) instead of
// the full sharedSetup used by trend commands.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage stored pipeline runs and exports",
	Long: `Manage the run history used for longitudinal reporting.

When --history-backend is set, every pipeline run stores:
- Run metadata (URL, timestamps, fill settings, number of days)
- Every daily record of the computed series

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, default)

Subcommands:
  status  - Show run history statistics
  export  - Export runs and daily records to Parquet
  clear   - Remove all run history
  migrate - Run database schema migrations

Examples:
  # Track runs in SQLite
  archivepulse daily example.com --history-backend sqlite

  # Export for analysis in pandas/DuckDB
  archivepulse history export --history-backend sqlite --output-file pulse`,
}

// historyClearCmd clears the run history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored runs and daily records",
	Long: `Delete all stored runs and their daily records.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  archivepulse history export --history-backend sqlite --output-file backup
  archivepulse history clear --history-backend sqlite`,
	PreRunE: historySetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		iocache.CloseStores()
		if err := iocache.ClearHistory(cfg.HistoryBackend, contract.GetHistoryDBFilePath(), cfg.HistoryDBConnect); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		fmt.Println("Run history cleared successfully.")
		return nil
	},
}

// historyStatusCmd shows run history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run history statistics and connection details",
	Long: `Show detailed information about the run history store.

Displays:
- Backend type and connection status
- Total number of runs and the last run ID
- Last and oldest run timestamps
- Total daily records stored
- Database table sizes

Examples:
  archivepulse history status --history-backend sqlite`,
	PreRunE: historySetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		store := iocache.Manager.GetHistoryStore()
		if store == nil {
			return fmt.Errorf("history tracking is disabled. set --history-backend")
		}
		status, err := store.GetStatus()
		if err != nil {
			return fmt.Errorf("failed to get history status: %w", err)
		}
		iocache.PrintHistoryStatus(status)
		return nil
	},
}

// historyExportCmd exports run history to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet for BI tools and analytics",
	Long: `Export all stored runs and daily records to Parquet.

Writes two files next to --output-file:
- <output-file>.runs.parquet          - one row per pipeline run
- <output-file>.daily_records.parquet - one row per day of every run

Requires: --output-file parameter

Examples:
  archivepulse history export --history-backend sqlite --output-file pulse
  duckdb -c "SELECT * FROM read_parquet('pulse.runs.parquet') LIMIT 10"`,
	PreRunE: historySetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := iocache.ExecuteHistoryExport(cfg.OutputFile); err != nil {
			return fmt.Errorf("failed to export history: %w", err)
		}
		return nil
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  archivepulse history migrate --history-backend sqlite

  # Rollback to initial state
  archivepulse history migrate --history-backend sqlite --target-version 0`,
	PreRunE: historyMigrateSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		return nil
	},
}
