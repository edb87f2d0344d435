// Package iocache is for caching index aggregations and keeping run history.
package iocache

import (
	"sync"

	"github.com/huangsam/archivepulse/internal/contract"
)

// CacheStoreManager manages the aggregate cache and the run history store.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	aggregate    contract.CacheStore
	history      contract.HistoryStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetAggregateStore returns the aggregation CacheStore.
func (mgr *CacheStoreManager) GetAggregateStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.aggregate
}

// GetHistoryStore returns the run HistoryStore.
func (mgr *CacheStoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}
