package cache

import (
	"sync"

	"BtcPulse/internal/domain/models"
)

// HistoryRing keeps the most recent verdicts in a fixed-size FIFO ring.
// When full, appending evicts the oldest entry.
type HistoryRing struct {
	mu       sync.Mutex
	entries  []models.HistoryEntry
	capacity int
	head     int // index of the oldest entry
	size     int
}

func NewHistoryRing(capacity int) *HistoryRing {
	if capacity <= 0 {
		capacity = 1
	}
	return &HistoryRing{
		entries:  make([]models.HistoryEntry, capacity),
		capacity: capacity,
	}
}

// Append records a completed cycle, evicting the oldest entry when full.
func (r *HistoryRing) Append(entry models.HistoryEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tail := (r.head + r.size) % r.capacity
	r.entries[tail] = entry
	if r.size < r.capacity {
		r.size++
	} else {
		r.head = (r.head + 1) % r.capacity
	}
}

// Snapshot returns up to limit entries, most recent first. A limit of
// zero or less returns everything retained.
func (r *HistoryRing) Snapshot(limit int) []models.HistoryEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := r.size
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]models.HistoryEntry, n)
	for i := 0; i < n; i++ {
		idx := (r.head + r.size - 1 - i) % r.capacity
		out[i] = r.entries[idx]
	}
	return out
}

// Len reports how many entries are currently retained.
func (r *HistoryRing) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}
