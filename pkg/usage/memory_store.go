package usage

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrymomot/zenblog/pkg/subscription"
)

type counterKey struct {
	visitor string
	kind    subscription.UsageType
	day     string
}

// MemoryStore is an in-process Store. Counters of past days are dropped
// by Prune.
type MemoryStore struct {
	mu       sync.Mutex
	counters map[counterKey]int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counters: make(map[counterKey]int64)}
}

func (m *MemoryStore) Get(_ context.Context, visitor string, t subscription.UsageType, day time.Time) (int64, error) {
	if err := validate(visitor, t); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[counterKey{visitor, t, DayKey(day)}], nil
}

func (m *MemoryStore) Increment(_ context.Context, visitor string, t subscription.UsageType, day time.Time) (int64, error) {
	if err := validate(visitor, t); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	k := counterKey{visitor, t, DayKey(day)}
	m.counters[k]++
	return m.counters[k], nil
}

// Prune removes counters for days before today.
func (m *MemoryStore) Prune(today time.Time) int {
	cutoff := DayKey(today)
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for k := range m.counters {
		if k.day < cutoff {
			delete(m.counters, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of live counters.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.counters)
}
