package safety

import (
	"context"
	"sync"
	"time"
)

// RateLimiter enforces a minimum interval between operations. Both public
// API fetchers share one instance per upstream so that cache misses across
// goroutines never burst past the provider's request budget.
type RateLimiter struct {
	name     string
	interval time.Duration
	last     time.Time
	mu       sync.Mutex
}

// NewRateLimiter creates a limiter that allows one operation per interval.
func NewRateLimiter(name string, interval time.Duration) *RateLimiter {
	return &RateLimiter{name: name, interval: interval}
}

// Name identifies the limiter in logs and metrics.
func (rl *RateLimiter) Name() string {
	return rl.name
}

// Wait blocks until the minimum interval since the previous operation has
// elapsed, or the context is cancelled.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	rl.mu.Lock()
	now := time.Now()
	wait := rl.interval - now.Sub(rl.last)
	if wait < 0 {
		wait = 0
	}
	rl.last = now.Add(wait)
	rl.mu.Unlock()

	if wait == 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}
