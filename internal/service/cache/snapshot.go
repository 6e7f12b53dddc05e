package cache

import (
	"sync/atomic"

	"BtcPulse/internal/domain/models"
)

// SnapshotCache holds the most recent refresh result. The refresh
// coordinator is the only writer; HTTP handlers read concurrently.
// The whole state is swapped atomically so readers never observe a
// verdict paired with snapshots from a different cycle.
type SnapshotCache struct {
	state atomic.Pointer[models.CacheState]
}

func NewSnapshotCache() *SnapshotCache {
	return &SnapshotCache{}
}

// Publish replaces the cached state with the result of a completed cycle.
func (c *SnapshotCache) Publish(state *models.CacheState) {
	c.state.Store(state)
}

// Get returns the latest published state. ok is false until the first
// refresh cycle completes.
func (c *SnapshotCache) Get() (*models.CacheState, bool) {
	s := c.state.Load()
	return s, s != nil
}
