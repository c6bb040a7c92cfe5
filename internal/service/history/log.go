// Package history keeps a bounded in-memory record of recent conversions,
// for observability only. The conversion path never consults it.
package history

import (
	"sync"

	"docmill/internal/domain/models"
)

// Log is a fixed-capacity ring of conversion events. Insertion beyond
// capacity evicts the oldest entry first (FIFO, not LRU). Safe for
// concurrent use.
type Log struct {
	mu       sync.RWMutex
	entries  []models.HistoryEntry
	capacity int
}

// NewLog creates a history log holding at most capacity entries.
func NewLog(capacity int) *Log {
	return &Log{
		entries:  make([]models.HistoryEntry, 0, capacity),
		capacity: capacity,
	}
}

// Record appends an entry, evicting the oldest when the ring is full.
func (l *Log) Record(entry models.HistoryEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.entries) == l.capacity {
		copy(l.entries, l.entries[1:])
		l.entries = l.entries[:l.capacity-1]
	}
	l.entries = append(l.entries, entry)
}

// Recent returns a copy of the entries, most recent first.
func (l *Log) Recent() []models.HistoryEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]models.HistoryEntry, len(l.entries))
	for i, entry := range l.entries {
		out[len(l.entries)-1-i] = entry
	}
	return out
}
