// Package query caches remote lookups by canonical name.
package query

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"pokesearch/internal/models"
)

// Status is the lifecycle position of a cache entry.
type Status int

const (
	StatusMissing Status = iota
	StatusLoading
	StatusResolved
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusResolved:
		return "resolved"
	case StatusFailed:
		return "failed"
	default:
		return "missing"
	}
}

// Source performs the actual remote lookup.
type Source interface {
	Lookup(ctx context.Context, name string) (*models.Pokemon, error)
}

// Backend persists resolved payloads. Get returns nil, nil for a missing key.
type Backend interface {
	Get(key string) ([]byte, error)
	Set(key string, val []byte, exp time.Duration) error
}

// Snapshot is a point-in-time copy of a cache entry.
type Snapshot struct {
	Name    string
	Status  Status
	Pokemon *models.Pokemon
	Err     error

	done <-chan struct{}
}

// Done is closed once the entry has settled. It is nil for missing entries.
func (s Snapshot) Done() <-chan struct{} {
	return s.done
}

// Stats summarises cache contents for metrics.
type Stats struct {
	Loading  int
	Resolved int
	Failed   int
	Hits     uint64
	Misses   uint64
}

// Options configures a Client.
type Options struct {
	// Backend, when set, stores resolved payloads so other processes share them.
	Backend Backend
	// TTL applies to backend writes. Zero keeps payloads forever.
	TTL time.Duration
	// Observe is called with the outcome of every settled lookup.
	Observe func(name, outcome string)
	Logger  *slog.Logger
}

type entry struct {
	status  Status
	pokemon *models.Pokemon
	err     error
	done    chan struct{}
}

func (e *entry) snapshot(name string) Snapshot {
	return Snapshot{Name: name, Status: e.status, Pokemon: e.pokemon, Err: e.err, done: e.done}
}

// Client is a concurrency-safe, name-keyed lookup cache.
type Client struct {
	source Source
	opts   Options
	log    *slog.Logger

	mu      sync.Mutex
	entries map[string]*entry

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewClient creates a client over source.
func NewClient(source Source, opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		source:  source,
		opts:    opts,
		log:     logger,
		entries: make(map[string]*entry),
	}
}

// Fetch returns the entry for name, starting a lookup if there is none.
// Repeated calls for a known name never reach the network.
func (c *Client) Fetch(name string) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[name]; ok {
		c.hits.Add(1)
		return e.snapshot(name)
	}

	c.misses.Add(1)
	e := &entry{status: StatusLoading, done: make(chan struct{})}
	c.entries[name] = e
	go c.load(name, e)
	return e.snapshot(name)
}

// Peek returns the entry for name without starting a lookup.
func (c *Client) Peek(name string) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[name]; ok {
		return e.snapshot(name)
	}
	return Snapshot{Name: name, Status: StatusMissing}
}

// Wait blocks until the entry for name settles or ctx is done.
func (c *Client) Wait(ctx context.Context, name string) Snapshot {
	snap := c.Peek(name)
	if snap.Status != StatusLoading {
		return snap
	}
	select {
	case <-snap.Done():
		return c.Peek(name)
	case <-ctx.Done():
		return snap
	}
}

// Retry drops a failed entry so the next Fetch issues a new lookup.
// Loading and resolved entries are kept. Reports whether an entry was dropped.
func (c *Client) Retry(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[name]; ok && e.status == StatusFailed {
		delete(c.entries, name)
		return true
	}
	return false
}

// Stats returns entry counts by status and hit/miss totals.
func (c *Client) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
	for _, e := range c.entries {
		switch e.status {
		case StatusLoading:
			s.Loading++
		case StatusResolved:
			s.Resolved++
		case StatusFailed:
			s.Failed++
		}
	}
	return s
}

func (c *Client) load(name string, e *entry) {
	if p, ok := c.fromBackend(name); ok {
		c.settle(name, e, p, nil)
		return
	}

	p, err := c.source.Lookup(context.Background(), name)
	if err == nil {
		c.toBackend(name, p)
	}
	c.settle(name, e, p, err)
}

// settle publishes the result. Done is closed last so waiters observe
// backend writes and the outcome callback.
func (c *Client) settle(name string, e *entry, p *models.Pokemon, err error) {
	if c.opts.Observe != nil {
		c.opts.Observe(name, outcome(p, err))
	}

	c.mu.Lock()
	if err != nil {
		e.status = StatusFailed
		e.err = err
	} else {
		e.status = StatusResolved
		e.pokemon = p
	}
	close(e.done)
	c.mu.Unlock()
}

func outcome(p *models.Pokemon, err error) string {
	switch {
	case err != nil:
		return models.OutcomeFailed
	case p == nil:
		return models.OutcomeNotFound
	default:
		return models.OutcomeFound
	}
}

func backendKey(name string) string {
	return "pokemon:" + name
}

func (c *Client) fromBackend(name string) (*models.Pokemon, bool) {
	if c.opts.Backend == nil {
		return nil, false
	}
	raw, err := c.opts.Backend.Get(backendKey(name))
	if err != nil {
		c.log.Error("failed to read cached pokemon", "name", name, "error", err)
		return nil, false
	}
	if raw == nil {
		return nil, false
	}

	var p *models.Pokemon
	if err := json.Unmarshal(raw, &p); err != nil {
		c.log.Error("discarding unreadable cached pokemon", "name", name, "error", err)
		return nil, false
	}
	return p, true
}

func (c *Client) toBackend(name string, p *models.Pokemon) {
	if c.opts.Backend == nil {
		return
	}
	raw, err := json.Marshal(p)
	if err != nil {
		c.log.Error("failed to encode pokemon for cache", "name", name, "error", err)
		return
	}
	if err := c.opts.Backend.Set(backendKey(name), raw, c.opts.TTL); err != nil {
		c.log.Error("failed to cache pokemon", "name", name, "error", err)
	}
}
