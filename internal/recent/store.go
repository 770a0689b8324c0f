// Package recent keeps a short, deduplicated, most-recent-first list of
// search terms in a key-value backend.
package recent

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

const (
	// Key is the storage key for the list. Per-visitor keys append ":<id>".
	Key = "pokemon_recent_searches"
	// Limit caps the number of remembered terms.
	Limit = 5
)

// Backend is the persistence port. Get returns nil, nil when key is absent.
type Backend interface {
	Get(key string) ([]byte, error)
	Set(key string, val []byte, exp time.Duration) error
}

// KeyFor returns the storage key scoped to a visitor.
func KeyFor(visitor string) string {
	if visitor == "" {
		return Key
	}
	return Key + ":" + visitor
}

// Store is one visitor's recent-searches list.
type Store struct {
	backend Backend
	key     string

	mu    sync.Mutex
	items []string
}

// NewStore creates an empty store. Call Load to read persisted state.
func NewStore(backend Backend, key string) *Store {
	return &Store{backend: backend, key: key}
}

// Load reads the persisted list. Missing or unreadable data yields an empty list.
func (s *Store) Load() []string {
	var items []string
	if raw, err := s.backend.Get(s.key); err == nil {
		items = Decode(raw)
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return s.Items()
}

// Items returns a copy of the current list.
func (s *Store) Items() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// Record moves term to the front of the list and persists it.
// The in-memory list is updated even when persisting fails.
func (s *Store) Record(term string) ([]string, error) {
	if term == "" {
		return s.Items(), nil
	}

	s.mu.Lock()
	s.items = Promote(s.items, term, Limit)
	next := make([]string, len(s.items))
	copy(next, s.items)
	s.mu.Unlock()

	raw, err := json.Marshal(next)
	if err != nil {
		return next, fmt.Errorf("failed to encode recent searches: %w", err)
	}
	if err := s.backend.Set(s.key, raw, 0); err != nil {
		return next, fmt.Errorf("failed to persist recent searches: %w", err)
	}
	return next, nil
}

// Promote returns list with term at the front, any earlier occurrence
// removed, truncated to limit entries.
func Promote(list []string, term string, limit int) []string {
	next := make([]string, 0, len(list)+1)
	next = append(next, term)
	for _, item := range list {
		if item != term {
			next = append(next, item)
		}
	}
	if len(next) > limit {
		next = next[:limit]
	}
	return next
}

// Decode parses a persisted list. Anything other than a JSON array yields
// nil; non-string elements are dropped; the result is capped at Limit.
func Decode(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}

	var values []any
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil
	}

	items := make([]string, 0, len(values))
	for _, v := range values {
		if str, ok := v.(string); ok {
			items = append(items, str)
		}
	}
	if len(items) > Limit {
		items = items[:Limit]
	}
	return items
}
