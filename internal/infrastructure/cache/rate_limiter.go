package cache

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// RateLimiter tracks request timestamps per key over a rolling window.
// Used by the webhook receiver to enforce per-source request limits.
type RateLimiter struct {
	mu        sync.Mutex
	windows   map[string][]time.Time
	window    time.Duration
	now       func() time.Time
	lastSweep time.Time
	logger    zerolog.Logger
}

// NewRateLimiter creates a new RateLimiter with a rolling window
func NewRateLimiter(window time.Duration, logger zerolog.Logger) *RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		windows: make(map[string][]time.Time),
		window:  window,
		now:     time.Now,
		logger:  logger.With().Str("component", "rate_limiter").Logger(),
	}
}

// Allow reports whether another request for key is within limit, and records
// it when allowed. Older entries outside the window are pruned on each call.
func (r *RateLimiter) Allow(key string, limit int) bool {
	if limit <= 0 {
		return true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	cutoff := now.Add(-r.window)
	r.sweep(now, cutoff)

	recent := r.windows[key][:0]
	for _, ts := range r.windows[key] {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= limit {
		r.windows[key] = recent
		r.logger.Debug().
			Str("key", key).
			Int("limit", limit).
			Msg("rate limit exceeded")
		return false
	}

	r.windows[key] = append(recent, now)
	return true
}

// sweep drops keys whose entries all fell out of the window, at most once
// per window, so retired sources do not accumulate. Caller holds the lock.
func (r *RateLimiter) sweep(now, cutoff time.Time) {
	if now.Sub(r.lastSweep) < r.window {
		return
	}
	r.lastSweep = now

	for key, timestamps := range r.windows {
		if len(timestamps) == 0 || !timestamps[len(timestamps)-1].After(cutoff) {
			delete(r.windows, key)
		}
	}
}

// Reset clears the recorded window for key
func (r *RateLimiter) Reset(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.windows, key)
}
