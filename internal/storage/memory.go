package storage

import (
	"context"
	"sync"
	"time"
)

type memoryItem struct {
	val       []byte
	expiresAt time.Time
}

// Memory is an in-process Storage. Expired keys are dropped on access.
type Memory struct {
	mu    sync.RWMutex
	items map[string]memoryItem
	now   func() time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		items: make(map[string]memoryItem),
		now:   time.Now,
	}
}

// Get returns a copy of the value stored at key.
func (m *Memory) Get(key string) ([]byte, error) {
	m.mu.RLock()
	item, ok := m.items[key]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	if !item.expiresAt.IsZero() && !m.now().Before(item.expiresAt) {
		m.mu.Lock()
		if cur, ok := m.items[key]; ok && cur.expiresAt.Equal(item.expiresAt) {
			delete(m.items, key)
		}
		m.mu.Unlock()
		return nil, nil
	}

	out := make([]byte, len(item.val))
	copy(out, item.val)
	return out, nil
}

// Set stores val at key. A zero exp never expires.
func (m *Memory) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}

	item := memoryItem{val: make([]byte, len(val))}
	copy(item.val, val)
	if exp > 0 {
		item.expiresAt = m.now().Add(exp)
	}

	m.mu.Lock()
	m.items[key] = item
	m.mu.Unlock()
	return nil
}

// Delete removes key.
func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored keys, including not yet collected expired ones.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}

// PurgeExpired drops expired keys and returns how many were removed.
func (m *Memory) PurgeExpired(ctx context.Context) (int64, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for k, item := range m.items {
		if !item.expiresAt.IsZero() && !now.Before(item.expiresAt) {
			delete(m.items, k)
			n++
		}
	}
	return n, ctx.Err()
}
