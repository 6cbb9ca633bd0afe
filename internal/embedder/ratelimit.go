package embedder

import (
	"context"
	"sync"
	"time"
)

// rateLimiter enforces a minimum gap between batch calls, per spec.md §4.5:
// "wait until at least 60000/rpm ms have elapsed since the previous call".
// Modeled as a monotonic last-fired timestamp (spec.md §9's design note),
// not a shared token bucket, so each embedder instance's limiter stays
// isolated per workspace.
type rateLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	lastCall time.Time
	now      func() time.Time
	sleep    func(time.Duration)
}

func newRateLimiter(rpm int) *rateLimiter {
	if rpm <= 0 {
		rpm = 1
	}
	return &rateLimiter{
		interval: time.Duration(60000/rpm) * time.Millisecond,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// Wait blocks until the interval since the previous call has elapsed, or
// ctx is cancelled.
func (r *rateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	var wait time.Duration
	if !r.lastCall.IsZero() {
		elapsed := r.now().Sub(r.lastCall)
		if elapsed < r.interval {
			wait = r.interval - elapsed
		}
	}
	r.mu.Unlock()

	if wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	r.mu.Lock()
	r.lastCall = r.now()
	r.mu.Unlock()
	return nil
}
