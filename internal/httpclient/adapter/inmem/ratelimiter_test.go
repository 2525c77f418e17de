package inmem_test

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"apistatus/internal/httpclient/adapter/inmem"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func TestRateLimiterBurstThenDeny(t *testing.T) {
	clock := newClock()
	rl := inmem.NewRateLimiter(2, 3, clock.Now)

	for i := range 3 {
		if !rl.Allow("api.local").Allowed {
			t.Fatalf("request %d should be allowed within capacity", i+1)
		}
	}

	res := rl.Allow("api.local")
	if res.Allowed {
		t.Fatal("request beyond capacity should be denied")
	}
	if res.RetryAfter != 1 {
		t.Errorf("expected RetryAfter 1, got %d", res.RetryAfter)
	}
}

func TestRateLimiterRetryAfterSlowRate(t *testing.T) {
	clock := newClock()
	rl := inmem.NewRateLimiter(0.25, 1, clock.Now)

	rl.Allow("api.local")
	if got := rl.Allow("api.local").RetryAfter; got != 4 {
		t.Errorf("expected RetryAfter 4 at a quarter token per second, got %d", got)
	}
}

func TestRateLimiterRefill(t *testing.T) {
	clock := newClock()
	rl := inmem.NewRateLimiter(5, 1, clock.Now)

	rl.Allow("api.local")
	if rl.Allow("api.local").Allowed {
		t.Fatal("expected denial with an empty bucket")
	}

	clock.Advance(200 * time.Millisecond)
	if !rl.Allow("api.local").Allowed {
		t.Error("expected a token after refill")
	}
}

func TestRateLimiterCapsAtCapacity(t *testing.T) {
	clock := newClock()
	rl := inmem.NewRateLimiter(10, 2, clock.Now)

	rl.Allow("api.local")
	clock.Advance(time.Minute)

	allowed := 0
	for range 5 {
		if rl.Allow("api.local").Allowed {
			allowed++
		}
	}
	if allowed != 2 {
		t.Errorf("expected refill capped at 2, got %d", allowed)
	}
}

func TestRateLimiterHostsAreIndependent(t *testing.T) {
	clock := newClock()
	rl := inmem.NewRateLimiter(1, 1, clock.Now)

	rl.Allow("a.local")
	if rl.Allow("a.local").Allowed {
		t.Error("a.local should be exhausted")
	}
	if !rl.Allow("b.local").Allowed {
		t.Error("b.local should have its own bucket")
	}
	if rl.BucketCount() != 2 {
		t.Errorf("expected 2 buckets, got %d", rl.BucketCount())
	}
}

func TestRateLimiterConcurrentAllow(t *testing.T) {
	clock := newClock()
	rl := inmem.NewRateLimiter(1, 10, clock.Now)

	var allowed atomic.Int64
	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.Allow("api.local").Allowed {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := allowed.Load(); got != 10 {
		t.Errorf("expected exactly 10 allowed, got %d", got)
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	clock := newClock()
	rl := inmem.NewRateLimiter(1, 1, clock.Now)

	for i := range 5 {
		rl.Allow(fmt.Sprintf("host-%d.local", i))
	}
	clock.Advance(5 * time.Minute)
	rl.Allow("fresh.local")

	clock.Advance(6 * time.Minute)
	rl.Cleanup()

	if got := rl.BucketCount(); got != 1 {
		t.Errorf("expected only the recent host to survive, got %d buckets", got)
	}
}

func TestRateLimiterNilClock(t *testing.T) {
	rl := inmem.NewRateLimiter(1, 1, nil)
	if !rl.Allow("api.local").Allowed {
		t.Error("expected first request to be allowed")
	}
}
