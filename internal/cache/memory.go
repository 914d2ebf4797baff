package cache

import (
	"context"
	"sync"
	"time"
)

type memoryItem struct {
	entry     Entry
	expiresAt time.Time
}

// MemoryStore is a process-local Store
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]memoryItem
	now   func() time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]memoryItem),
		now:   time.Now,
	}
}

// SetClock replaces the time source. Used by tests.
func (m *MemoryStore) SetClock(now func() time.Time) {
	m.mu.Lock()
	m.now = now
	m.mu.Unlock()
}

func (m *MemoryStore) Get(ctx context.Context, pollID string) (Entry, error) {
	m.mu.RLock()
	item, ok := m.items[pollID]
	now := m.now()
	m.mu.RUnlock()

	if !ok {
		return Entry{}, ErrMiss
	}
	if !now.Before(item.expiresAt) {
		m.mu.Lock()
		// Re-check: a concurrent Put may have refreshed the entry.
		if cur, ok := m.items[pollID]; ok && !now.Before(cur.expiresAt) {
			delete(m.items, pollID)
		}
		m.mu.Unlock()
		return Entry{}, ErrMiss
	}
	return item.entry, nil
}

func (m *MemoryStore) Put(ctx context.Context, pollID string, entry Entry, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for id, item := range m.items {
		if !now.Before(item.expiresAt) {
			delete(m.items, id)
		}
	}
	m.items[pollID] = memoryItem{entry: entry, expiresAt: now.Add(ttl)}
	return nil
}

func (m *MemoryStore) Has(ctx context.Context, pollID string) (bool, error) {
	_, err := m.Get(ctx, pollID)
	if err == ErrMiss {
		return false, nil
	}
	return err == nil, err
}

// Len returns the number of entries held, expired or not
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
