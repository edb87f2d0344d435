package cmd

import (
	"fmt"

	"github.com/huangsam/archivepulse/internal/contract"
	"github.com/huangsam/archivepulse/internal/iocache"
	"github.com/huangsam/archivepulse/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need cache access without full shared setup.
func cacheSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	connStr := viper.GetString("cache-db-connect")

	if _, ok := schema.ValidCacheBackends[backend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Initialize caching with the loaded config (no history tracking for cache commands)
	if err := iocache.InitStores(backend, connStr, "", ""); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr

	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheCmd focused on cache management.
//
// Note: Cache subcommands use minimal initialization (cacheSetup) instead of
// the full sharedSetup used by trend commands.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the capture index aggregation cache",
	Long: `Manage the cache that stores daily aggregations of capture indexes.

Fetching a large index can take thousands of page requests. ArchivePulse stores
the aggregated days keyed by the full index query so that re-running with a
different --fill, --policy or curve parameters does not refetch anything.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None

Subcommands:
  status - Show cache statistics and connection info
  clear  - Remove all cached data

Examples:
  # Check cache status
  archivepulse cache status

  # Force the next run to refetch every index
  archivepulse cache clear`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached aggregations",
	Long: `Delete all cached aggregations from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache table

Examples:
  # Clear SQLite cache (default)
  archivepulse cache clear

  # Clear MySQL cache (set connection string via env variable)
  ARCHIVEPULSE_CACHE_BACKEND=mysql ARCHIVEPULSE_CACHE_DB_CONNECT="..." archivepulse cache clear`,
	PreRunE: cacheSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		iocache.CloseStores()
		if err := iocache.ClearCache(cfg.CacheBackend, contract.GetCacheDBFilePath(), cfg.CacheDBConnect); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		fmt.Println("Cache cleared successfully.")
		return nil
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show detailed information about the aggregation cache.

Displays:
- Backend type and connection status
- Total number of cached entries
- Last and oldest cache entry timestamps
- Cache database size

Examples:
  archivepulse cache status`,
	PreRunE: cacheSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		store := iocache.Manager.GetAggregateStore()
		if store == nil {
			return fmt.Errorf("cache store is not initialized")
		}
		status, err := store.GetStatus()
		if err != nil {
			return fmt.Errorf("failed to get cache status: %w", err)
		}
		iocache.PrintCacheStatus(status)
		return nil
	},
}
