// Package ratelimit provides an in-memory sliding-window request limiter.
//
// State does not survive a process restart: the limiter is advisory abuse
// protection for the AI structuring endpoint, not a correctness guarantee.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Result reports the outcome of an admission check.
type Result struct {
	OK        bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// Limiter admits up to limit requests per identifier within a sliding
// window. Concurrent admissions for the same identifier are serialized so
// two racing requests cannot both slip under the limit.
type Limiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	now    func() time.Time
	seen   map[string][]time.Time
}

// New creates a Limiter using the wall clock.
func New(limit int, window time.Duration) *Limiter {
	return NewWithClock(limit, window, time.Now)
}

// NewWithClock creates a Limiter with an injectable clock for tests.
func NewWithClock(limit int, window time.Duration, now func() time.Time) *Limiter {
	return &Limiter{
		limit:  limit,
		window: window,
		now:    now,
		seen:   map[string][]time.Time{},
	}
}

// Allow checks and, if admitted, records a request for the identifier.
// When denied, Reset is the time the oldest retained request leaves the
// window.
func (l *Limiter) Allow(identifier string) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	windowStart := now.Add(-l.window)

	valid := l.seen[identifier][:0:0]
	for _, ts := range l.seen[identifier] {
		if ts.After(windowStart) {
			valid = append(valid, ts)
		}
	}

	if len(valid) >= l.limit {
		l.seen[identifier] = valid
		// Timestamps are appended in order, so the oldest is first.
		return Result{
			OK:        false,
			Limit:     l.limit,
			Remaining: 0,
			Reset:     valid[0].Add(l.window),
		}
	}

	valid = append(valid, now)
	l.seen[identifier] = valid
	return Result{
		OK:        true,
		Limit:     l.limit,
		Remaining: l.limit - len(valid),
		Reset:     now.Add(l.window),
	}
}

// Sweep drops identifiers whose every recorded request has left the window,
// bounding memory growth.
func (l *Limiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	windowStart := l.now().Add(-l.window)
	for id, timestamps := range l.seen {
		valid := timestamps[:0:0]
		for _, ts := range timestamps {
			if ts.After(windowStart) {
				valid = append(valid, ts)
			}
		}
		if len(valid) == 0 {
			delete(l.seen, id)
		} else {
			l.seen[id] = valid
		}
	}
}

// StartSweeping runs Sweep once per window until the context is canceled.
// The caller owns the goroutine.
func (l *Limiter) StartSweeping(ctx context.Context) {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}
