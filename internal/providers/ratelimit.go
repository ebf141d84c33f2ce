package providers

import (
	"context"
	"sync"
	"time"
)

// Pacer spaces out consecutive calls to an external API. Batch operations
// inject one pacer per run; tests inject NopPacer to keep runs instant.
type Pacer interface {
	Wait(ctx context.Context) error
}

// IntervalPacer enforces a minimum interval between consecutive Wait returns.
type IntervalPacer struct {
	mu       sync.Mutex
	lastCall time.Time
	interval time.Duration
}

// NewIntervalPacer creates a pacer with the given minimum spacing.
func NewIntervalPacer(interval time.Duration) *IntervalPacer {
	return &IntervalPacer{interval: interval}
}

// Wait blocks until the interval since the previous call has elapsed, or the
// context is cancelled.
func (p *IntervalPacer) Wait(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	since := time.Since(p.lastCall)
	if since < p.interval {
		timer := time.NewTimer(p.interval - since)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	p.lastCall = time.Now()
	return nil
}

// NopPacer never waits.
type NopPacer struct{}

func (NopPacer) Wait(ctx context.Context) error { return nil }
