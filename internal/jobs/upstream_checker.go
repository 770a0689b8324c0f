package jobs

import (
	"context"
	"log"
	"sync"
	"time"

	"pokesearch/internal/metrics"
)

// Pinger probes the remote API.
type Pinger interface {
	Ping(ctx context.Context) error
}

// UpstreamStatus is the result of the last probe.
type UpstreamStatus struct {
	Healthy   bool       `json:"healthy"`
	Error     string     `json:"error,omitempty"`
	CheckedAt *time.Time `json:"checked_at,omitempty"`
}

// UpstreamChecker periodically probes the GraphQL endpoint.
type UpstreamChecker struct {
	pinger   Pinger
	interval time.Duration
	timeout  time.Duration

	mu     sync.RWMutex
	status UpstreamStatus
}

// NewUpstreamChecker creates a new checker.
func NewUpstreamChecker(pinger Pinger, interval time.Duration) *UpstreamChecker {
	return &UpstreamChecker{
		pinger:   pinger,
		interval: interval,
		timeout:  10 * time.Second,
	}
}

// Start begins the background probe loop. It returns when ctx is done.
func (u *UpstreamChecker) Start(ctx context.Context) {
	log.Printf("Upstream checker started (interval: %v)", u.interval)

	// Run immediately on start
	u.Check(ctx)

	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Upstream checker stopped")
			return
		case <-ticker.C:
			u.Check(ctx)
		}
	}
}

// Check probes once and records the result.
func (u *UpstreamChecker) Check(ctx context.Context) UpstreamStatus {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	err := u.pinger.Ping(ctx)
	now := time.Now()
	status := UpstreamStatus{Healthy: err == nil, CheckedAt: &now}
	if err != nil {
		status.Error = err.Error()
		log.Printf("Upstream checker: probe failed: %v", err)
	}

	u.mu.Lock()
	u.status = status
	u.mu.Unlock()

	metrics.SetUpstreamUp(status.Healthy)
	return status
}

// Status returns the last recorded probe result. CheckedAt is nil before
// the first probe.
func (u *UpstreamChecker) Status() UpstreamStatus {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.status
}
