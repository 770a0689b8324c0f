package jobs

import (
	"context"
	"log"
	"time"
)

// Expirer removes expired entries from a store.
type Expirer interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// ExpiryPurger periodically deletes expired cache and recent-search entries
// so they do not accumulate in stores that only hide them on read.
type ExpiryPurger struct {
	store    Expirer
	interval time.Duration
}

// NewExpiryPurger creates a new purger.
func NewExpiryPurger(store Expirer, interval time.Duration) *ExpiryPurger {
	return &ExpiryPurger{store: store, interval: interval}
}

// Start runs the purge loop until ctx is done.
func (p *ExpiryPurger) Start(ctx context.Context) {
	log.Printf("Expiry purger started (interval: %v)", p.interval)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Expiry purger stopped")
			return
		case <-ticker.C:
			p.Purge(ctx)
		}
	}
}

// Purge runs one pass and returns the number of removed entries.
func (p *ExpiryPurger) Purge(ctx context.Context) int64 {
	n, err := p.store.PurgeExpired(ctx)
	if err != nil {
		log.Printf("Expiry purger: purge failed: %v", err)
		return 0
	}
	if n > 0 {
		log.Printf("Expiry purger: removed %d expired entries", n)
	}
	return n
}
