package ratelimit

import (
	"testing"
	"time"
)

const window = 3600 * time.Second

// fakeClock is a manually advanced clock for limiter tests.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter() (*Limiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
	return NewWithClock(10, window, clock.now), clock
}

func TestEleventhRequestDenied(t *testing.T) {
	limiter, clock := newTestLimiter()
	first := clock.t

	for i := 0; i < 10; i++ {
		res := limiter.Allow("user-x")
		if !res.OK {
			t.Fatalf("request %d: expected admission", i+1)
		}
		if res.Remaining != 10-(i+1) {
			t.Fatalf("request %d: expected remaining %d, got %d", i+1, 10-(i+1), res.Remaining)
		}
		clock.advance(time.Minute)
	}

	res := limiter.Allow("user-x")
	if res.OK {
		t.Fatal("11th request within the window should be denied")
	}
	if res.Remaining != 0 {
		t.Fatalf("expected remaining 0 on denial, got %d", res.Remaining)
	}
	if want := first.Add(window); !res.Reset.Equal(want) {
		t.Fatalf("expected reset at oldest+window %v, got %v", want, res.Reset)
	}
}

func TestAdmissionAfterWindowElapses(t *testing.T) {
	limiter, clock := newTestLimiter()
	for i := 0; i < 10; i++ {
		limiter.Allow("user-x")
	}
	if res := limiter.Allow("user-x"); res.OK {
		t.Fatal("expected denial at the limit")
	}

	// Once the window slides past the 1st timestamp, one slot frees up.
	clock.advance(window + time.Second)
	res := limiter.Allow("user-x")
	if !res.OK {
		t.Fatal("expected admission after the window elapsed")
	}
}

func TestIdentifiersAreIndependent(t *testing.T) {
	limiter, _ := newTestLimiter()
	for i := 0; i < 10; i++ {
		limiter.Allow("user-a")
	}
	if res := limiter.Allow("user-a"); res.OK {
		t.Fatal("user-a should be at the limit")
	}
	if res := limiter.Allow("user-b"); !res.OK {
		t.Fatal("user-b should be unaffected by user-a's usage")
	}
}

func TestSweepEvictsExpiredIdentifiers(t *testing.T) {
	limiter, clock := newTestLimiter()
	limiter.Allow("stale")
	clock.advance(window / 2)
	limiter.Allow("fresh")
	clock.advance(window/2 + time.Second)

	limiter.Sweep()

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	if _, ok := limiter.seen["stale"]; ok {
		t.Fatal("expected stale identifier to be evicted")
	}
	if _, ok := limiter.seen["fresh"]; !ok {
		t.Fatal("expected fresh identifier to be retained")
	}
}
