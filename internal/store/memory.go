// internal/store/memory.go
//
// In-memory implementation of Store.
// Used for development and tests, or when durability is not required.
//
// Characteristics:
//   - Values are kept JSON-encoded, so callers never share mutable records.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"sync"

	"github.com/robalobadob/kategorie/internal/game"
)

type entry struct {
	value   []byte
	version int64
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu   sync.RWMutex      // guards data
	data map[string]entry // keyed by storage key
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{data: make(map[string]entry)}
}

// Get decodes a fresh copy of the stored record.
func (m *memory) Get(ctx context.Context, key string) (*game.Record, int64, error) {
	m.mu.RLock()
	e, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return nil, 0, ErrNotFound
	}
	rec, err := decode(e.value)
	if err != nil {
		return nil, 0, err
	}
	return rec, e.version, nil
}

// Set performs the version check and write under a single lock.
func (m *memory) Set(ctx context.Context, key string, rec *game.Record, expect int64) error {
	b, err := encode(rec)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.data[key]
	switch {
	case expect == 0 && ok:
		return ErrConflict
	case expect != 0 && (!ok || cur.version != expect):
		return ErrConflict
	}
	m.data[key] = entry{value: b, version: cur.version + 1}
	return nil
}
