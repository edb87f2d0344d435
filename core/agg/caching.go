package agg

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/archivepulse/internal/contract"
	"github.com/huangsam/archivepulse/internal/telemetry"
	"github.com/huangsam/archivepulse/schema"
)

// currentCacheVersion defines the version of the cache schema
const currentCacheVersion = 1

// CachedAggregate returns the aggregation for the configured target, reading it
// from the aggregate store when a fresh entry exists. Only the aggregation is
// cached; everything downstream depends on per-run parameters.
func CachedAggregate(ctx context.Context, cfg *contract.Config, client contract.IndexClient, mgr contract.CacheManager, progress contract.ProgressFunc) (*schema.AggregateOutput, error) {
	var store contract.CacheStore
	if mgr != nil {
		store = mgr.GetAggregateStore()
	}
	if store == nil {
		// Fallback to direct computation
		return aggregateIndex(ctx, cfg, client, progress)
	}

	key := generateCacheKey(client.Query(cfg.TargetURL))

	// Check for cache hit
	if result := checkCacheHit(store, key, cfg.CacheTTL, time.Now()); result != nil {
		telemetry.CacheHits.Inc()
		if progress != nil {
			progress(1.0)
		}
		return result, nil
	}
	telemetry.CacheMisses.Inc()

	// Cache miss: compute and store
	return computeAndStore(ctx, cfg, client, store, key, progress)
}

// checkCacheHit attempts to retrieve and validate a cached result.
// A zero ttl means entries never expire.
func checkCacheHit(store contract.CacheStore, key string, ttl time.Duration, now time.Time) *schema.AggregateOutput {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	if version != currentCacheVersion {
		return nil
	}
	if ttl > 0 && now.Sub(time.Unix(ts, 0)) > ttl {
		return nil
	}

	var result schema.AggregateOutput
	if err := json.Unmarshal(data, &result); err != nil || result.Events == 0 {
		return nil
	}
	return &result
}

// computeAndStore computes the result and stores it in cache.
// Failed aggregations are never cached.
func computeAndStore(ctx context.Context, cfg *contract.Config, client contract.IndexClient, store contract.CacheStore, key string, progress contract.ProgressFunc) (*schema.AggregateOutput, error) {
	result, err := aggregateIndex(ctx, cfg, client, progress)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(result); err == nil {
		if err := store.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
			contract.LogWarn("Cannot store aggregation in cache", err)
		}
	}

	return result, nil
}

// generateCacheKey creates a unique key from the full index query.
func generateCacheKey(query string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(query)))
}
