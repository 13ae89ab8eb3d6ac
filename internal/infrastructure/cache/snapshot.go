package cache

import (
	"context"
	"log"
	"sync"

	"github.com/shelfaware/backend/internal/domain"
)

// SnapshotCache holds the most recently loaded dataset snapshot. Loading is
// lazy and invalidation is explicit: the engine always receives a concrete
// snapshot value, never ambient mutable tables. Safe for concurrent use.
type SnapshotCache struct {
	repo domain.DatasetRepository

	mutex    sync.RWMutex
	snapshot *domain.Snapshot
}

// NewSnapshotCache creates a snapshot cache over a dataset repository
func NewSnapshotCache(repo domain.DatasetRepository) *SnapshotCache {
	return &SnapshotCache{repo: repo}
}

// Snapshot returns the cached snapshot, loading it from the repository on
// first use or after an invalidation.
func (c *SnapshotCache) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	c.mutex.RLock()
	snap := c.snapshot
	c.mutex.RUnlock()
	if snap != nil {
		return snap, nil
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	// Another caller may have loaded while we waited for the lock.
	if c.snapshot != nil {
		return c.snapshot, nil
	}

	snap, err := c.repo.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	log.Printf("[cache] snapshot loaded: %d observations, %d stores, %d items",
		len(snap.Observations), len(snap.Stores), len(snap.Items))
	c.snapshot = snap
	return snap, nil
}

// Invalidate drops the cached snapshot so the next Snapshot call reloads.
func (c *SnapshotCache) Invalidate() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.snapshot = nil
}

// Loaded reports whether a snapshot is currently cached (for debugging/monitoring)
func (c *SnapshotCache) Loaded() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.snapshot != nil
}
