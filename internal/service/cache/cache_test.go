package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BtcPulse/internal/domain/models"
)

func TestSnapshotCacheEmptyUntilFirstPublish(t *testing.T) {
	c := NewSnapshotCache()

	state, ok := c.Get()
	assert.False(t, ok)
	assert.Nil(t, state)
}

func TestSnapshotCachePublishReplacesWholeState(t *testing.T) {
	c := NewSnapshotCache()

	first := &models.CacheState{BTCPrice: 64000, GeneratedAt: time.Now()}
	c.Publish(first)

	got, ok := c.Get()
	require.True(t, ok)
	assert.Equal(t, 64000.0, got.BTCPrice)

	second := &models.CacheState{BTCPrice: 65000, GeneratedAt: time.Now()}
	c.Publish(second)

	got, ok = c.Get()
	require.True(t, ok)
	assert.Equal(t, 65000.0, got.BTCPrice)
}

func TestSnapshotCacheConcurrentReaders(t *testing.T) {
	c := NewSnapshotCache()
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			c.Publish(&models.CacheState{BTCPrice: float64(i)})
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				if state, ok := c.Get(); ok {
					_ = state.BTCPrice
				}
			}
		}()
	}
	wg.Wait()
}

func TestHistoryRingEvictsOldest(t *testing.T) {
	r := NewHistoryRing(50)

	for i := 0; i < 51; i++ {
		r.Append(models.HistoryEntry{BTCPrice: float64(i)})
	}

	assert.Equal(t, 50, r.Len())

	entries := r.Snapshot(0)
	require.Len(t, entries, 50)
	// Most recent first; entry 0 was evicted.
	assert.Equal(t, 50.0, entries[0].BTCPrice)
	assert.Equal(t, 1.0, entries[49].BTCPrice)
}

func TestHistoryRingSnapshotLimit(t *testing.T) {
	r := NewHistoryRing(50)
	for i := 0; i < 10; i++ {
		r.Append(models.HistoryEntry{BTCPrice: float64(i)})
	}

	entries := r.Snapshot(3)
	require.Len(t, entries, 3)
	assert.Equal(t, 9.0, entries[0].BTCPrice)
	assert.Equal(t, 8.0, entries[1].BTCPrice)
	assert.Equal(t, 7.0, entries[2].BTCPrice)
}

func TestHistoryRingSnapshotIsCopy(t *testing.T) {
	r := NewHistoryRing(5)
	r.Append(models.HistoryEntry{BTCPrice: 1})

	entries := r.Snapshot(0)
	entries[0].BTCPrice = 999

	again := r.Snapshot(0)
	assert.Equal(t, 1.0, again[0].BTCPrice)
}
