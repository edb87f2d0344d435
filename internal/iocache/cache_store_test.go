package iocache

import (
	"database/sql"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/huangsam/archivepulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteCacheStore(t *testing.T) *CacheStoreImpl {
	t.Helper()
	store, err := NewCacheStore(aggregateTable, schema.SQLiteBackend, filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	impl, ok := store.(*CacheStoreImpl)
	require.True(t, ok)
	return impl
}

func TestCacheStoreSQLiteRoundTrip(t *testing.T) {
	store := newSQLiteCacheStore(t)

	_, _, _, err := store.Get("missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	require.NoError(t, store.Set("key", []byte(`{"events":1}`), 1, 1000))
	value, version, ts, err := store.Get("key")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"events":1}`), value)
	assert.Equal(t, 1, version)
	assert.Equal(t, int64(1000), ts)

	// Overwrite keeps a single row
	require.NoError(t, store.Set("key", []byte(`{"events":2}`), 2, 2000))
	value, version, ts, err = store.Get("key")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"events":2}`), value)
	assert.Equal(t, 2, version)
	assert.Equal(t, int64(2000), ts)

	require.NoError(t, store.Set("other", []byte(`{}`), 2, 500))
	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.True(t, status.Connected)
	assert.Equal(t, 2, status.TotalEntries)
	assert.Equal(t, time.Unix(2000, 0), status.LastEntryTime)
	assert.Equal(t, time.Unix(500, 0), status.OldestEntryTime)
	assert.Greater(t, status.TableSizeBytes, int64(0))
}

func TestCacheStoreEmptyStatus(t *testing.T) {
	store := newSQLiteCacheStore(t)
	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 0, status.TotalEntries)
	assert.True(t, status.LastEntryTime.IsZero())
}

func TestCacheStoreNoneBackend(t *testing.T) {
	store, err := NewCacheStore(aggregateTable, schema.NoneBackend, "")
	require.NoError(t, err)

	assert.NoError(t, store.Set("key", []byte("v"), 1, 1))
	_, _, _, err = store.Get("key")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}

func TestNewCacheStoreRejectsBadTableName(t *testing.T) {
	_, err := NewCacheStore("cache; DROP TABLE x", schema.NoneBackend, "")
	assert.Error(t, err)
}

func TestCacheStorePostgresQueries(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	store := &CacheStoreImpl{db: db, tableName: aggregateTable, backend: schema.PostgreSQLBackend}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "aggregate_cache" (cache_key, cache_value, cache_version, cache_timestamp) VALUES ($1, $2, $3, $4)`)).
		WithArgs("key", []byte("v"), 1, int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, store.Set("key", []byte("v"), 1, 42))

	rows := sqlmock.NewRows([]string{"cache_value", "cache_version", "cache_timestamp"}).AddRow([]byte("v"), 1, int64(42))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT cache_value, cache_version, cache_timestamp FROM "aggregate_cache" WHERE cache_key = $1`)).
		WithArgs("key").
		WillReturnRows(rows)
	value, version, ts, err := store.Get("key")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), value)
	assert.Equal(t, 1, version)
	assert.Equal(t, int64(42), ts)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheStoreMySQLUpsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	store := &CacheStoreImpl{db: db, tableName: aggregateTable, backend: schema.MySQLBackend}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `aggregate_cache`") + ".*ON DUPLICATE KEY UPDATE").
		WithArgs("key", []byte("v"), 1, int64(42)).
		WillReturnError(assert.AnError)
	assert.ErrorIs(t, store.Set("key", []byte("v"), 1, 42), assert.AnError)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCreateTableQuery(t *testing.T) {
	assert.Contains(t, getCreateTableQuery("t", schema.MySQLBackend), "LONGBLOB")
	assert.Contains(t, getCreateTableQuery("t", schema.MySQLBackend), "`t`")
	assert.Contains(t, getCreateTableQuery("t", schema.PostgreSQLBackend), "BYTEA")
	assert.Contains(t, getCreateTableQuery("t", schema.SQLiteBackend), `"t"`)
}
