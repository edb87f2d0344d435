package agg

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/huangsam/archivepulse/internal/contract"
	"github.com/huangsam/archivepulse/internal/iocache"
	"github.com/huangsam/archivepulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCacheStore for testing (alias for MockCacheStore)
type MockCacheStore = iocache.MockCacheStore

func cachedOutput(t *testing.T) []byte {
	t.Helper()
	out := mustAggregate(t, "20200101000000 200 AAAAAAAA")
	data, err := json.Marshal(out)
	require.NoError(t, err)
	return data
}

func TestCheckCacheHit_CacheHit(t *testing.T) {
	mockStore := &MockCacheStore{}
	now := time.Now()
	mockStore.On("Get", "test-key").Return(cachedOutput(t), currentCacheVersion, now.Unix(), nil)

	actual := checkCacheHit(mockStore, "test-key", contract.DefaultCacheTTL, now)
	require.NotNil(t, actual)
	assert.Equal(t, 1, actual.Events)
	assert.Equal(t, schema.Status2xx, actual.Records["2020-01-01"].Representative)
	mockStore.AssertExpectations(t)
}

func TestCheckCacheHit_CacheMiss_VersionMismatch(t *testing.T) {
	mockStore := &MockCacheStore{}
	now := time.Now()
	mockStore.On("Get", "test-key").Return(cachedOutput(t), currentCacheVersion-1, now.Unix(), nil)

	assert.Nil(t, checkCacheHit(mockStore, "test-key", contract.DefaultCacheTTL, now))
	mockStore.AssertExpectations(t)
}

func TestCheckCacheHit_CacheMiss_Stale(t *testing.T) {
	mockStore := &MockCacheStore{}
	now := time.Now()
	staleTime := now.Add(-8 * 24 * time.Hour).Unix()
	mockStore.On("Get", "test-key").Return(cachedOutput(t), currentCacheVersion, staleTime, nil)

	assert.Nil(t, checkCacheHit(mockStore, "test-key", contract.DefaultCacheTTL, now))
	mockStore.AssertExpectations(t)
}

func TestCheckCacheHit_ZeroTTLNeverExpires(t *testing.T) {
	mockStore := &MockCacheStore{}
	now := time.Now()
	ancient := now.Add(-5 * 365 * 24 * time.Hour).Unix()
	mockStore.On("Get", "test-key").Return(cachedOutput(t), currentCacheVersion, ancient, nil)

	assert.NotNil(t, checkCacheHit(mockStore, "test-key", 0, now))
	mockStore.AssertExpectations(t)
}

func TestCheckCacheHit_CacheMiss_Error(t *testing.T) {
	mockStore := &MockCacheStore{}
	mockStore.On("Get", "test-key").Return([]byte{}, 0, int64(0), assert.AnError)

	assert.Nil(t, checkCacheHit(mockStore, "test-key", contract.DefaultCacheTTL, time.Now()))
	mockStore.AssertExpectations(t)
}

func TestCheckCacheHit_CacheMiss_UnmarshalError(t *testing.T) {
	mockStore := &MockCacheStore{}
	now := time.Now()
	mockStore.On("Get", "test-key").Return([]byte("invalid json"), currentCacheVersion, now.Unix(), nil)

	assert.Nil(t, checkCacheHit(mockStore, "test-key", contract.DefaultCacheTTL, now))
	mockStore.AssertExpectations(t)
}

func TestGenerateCacheKey(t *testing.T) {
	key1 := generateCacheKey("https://index/cdx?fl=timestamp,statuscode,digest&url=a.com")
	key2 := generateCacheKey("https://index/cdx?fl=timestamp,statuscode,digest&url=b.com")

	assert.Len(t, key1, 64) // SHA256 hash length
	assert.NotEqual(t, key1, key2)
	assert.Equal(t, key1, generateCacheKey("https://index/cdx?fl=timestamp,statuscode,digest&url=a.com"))
}

func TestCachedAggregate_MissStoresResult(t *testing.T) {
	client := &contract.MockIndexClient{}
	client.On("Query", "example.com").Return("q?url=example.com")
	client.On("Lines", mock.Anything, "q?url=example.com").Return([]string{"20200101000000 200 AAAAAAAA"}, nil)

	key := generateCacheKey("q?url=example.com")
	store := &MockCacheStore{}
	store.On("Get", key).Return([]byte{}, 0, int64(0), assert.AnError)
	store.On("Set", key, mock.Anything, currentCacheVersion, mock.AnythingOfType("int64")).Return(nil)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetAggregateStore").Return(store)

	cfg := &contract.Config{TargetURL: "example.com", CacheTTL: contract.DefaultCacheTTL}
	out, err := CachedAggregate(context.Background(), cfg, client, mgr, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Events)

	client.AssertExpectations(t)
	store.AssertExpectations(t)
	mgr.AssertExpectations(t)
}

func TestCachedAggregate_HitSkipsClient(t *testing.T) {
	client := &contract.MockIndexClient{}
	client.On("Query", "example.com").Return("q?url=example.com")

	key := generateCacheKey("q?url=example.com")
	store := &MockCacheStore{}
	store.On("Get", key).Return(cachedOutput(t), currentCacheVersion, time.Now().Unix(), nil)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetAggregateStore").Return(store)

	var progress []float64
	cfg := &contract.Config{TargetURL: "example.com", CacheTTL: contract.DefaultCacheTTL}
	out, err := CachedAggregate(context.Background(), cfg, client, mgr, func(f float64) { progress = append(progress, f) })
	require.NoError(t, err)
	assert.Equal(t, 1, out.Events)
	assert.Equal(t, []float64{1.0}, progress)

	client.AssertNotCalled(t, "Lines", mock.Anything, mock.Anything)
	store.AssertExpectations(t)
}

func TestCachedAggregate_ErrorNotCached(t *testing.T) {
	client := &contract.MockIndexClient{}
	client.On("Query", "example.com").Return("q?url=example.com")
	client.On("Lines", mock.Anything, "q?url=example.com").Return([]string{}, nil)

	store := &MockCacheStore{}
	store.On("Get", mock.Anything).Return([]byte{}, 0, int64(0), assert.AnError)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetAggregateStore").Return(store)

	cfg := &contract.Config{TargetURL: "example.com"}
	_, err := CachedAggregate(context.Background(), cfg, client, mgr, nil)
	var empty *schema.EmptyIndexError
	assert.ErrorAs(t, err, &empty)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCachedAggregate_NoStoreFallsBack(t *testing.T) {
	client := &contract.MockIndexClient{}
	client.On("Query", "example.com").Return("q?url=example.com")
	client.On("Lines", mock.Anything, "q?url=example.com").Return([]string{"20200101000000 200 AAAAAAAA"}, nil)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetAggregateStore").Return(nil)

	out, err := CachedAggregate(context.Background(), &contract.Config{TargetURL: "example.com"}, client, mgr, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Events)

	out, err = CachedAggregate(context.Background(), &contract.Config{TargetURL: "example.com"}, client, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Events)
}
