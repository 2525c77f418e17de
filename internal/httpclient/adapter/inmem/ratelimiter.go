package inmem

import (
	"math"
	"sync"
	"time"

	"apistatus/internal/httpclient"
)

// Buckets idle for longer than this are dropped by Cleanup.
const idleBucketTTL = 10 * time.Minute

// RateLimiter is a token bucket limiter keeping one bucket per API host.
type RateLimiter struct {
	perSecond float64
	capacity  int
	now       func() time.Time

	mu    sync.Mutex
	hosts map[string]*hostBucket
}

type hostBucket struct {
	tokens float64
	last   time.Time
}

var _ httpclient.RateLimiter = (*RateLimiter)(nil)

// NewRateLimiter creates a limiter refilling perSecond tokens per second up
// to capacity. A nil clock means time.Now.
func NewRateLimiter(perSecond float64, capacity int, clock func() time.Time) *RateLimiter {
	if clock == nil {
		clock = time.Now
	}
	return &RateLimiter{
		perSecond: perSecond,
		capacity:  capacity,
		now:       clock,
		hosts:     make(map[string]*hostBucket),
	}
}

// Allow takes a token from the bucket for host.
func (rl *RateLimiter) Allow(host string) httpclient.RateLimitResult {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.hosts[host]
	if !ok {
		b = &hostBucket{tokens: float64(rl.capacity), last: now}
		rl.hosts[host] = b
	}

	b.tokens = math.Min(b.tokens+now.Sub(b.last).Seconds()*rl.perSecond, float64(rl.capacity))
	b.last = now

	if b.tokens >= 1 {
		b.tokens--
		return httpclient.RateLimitResult{Allowed: true}
	}

	wait := max(int(math.Ceil((1-b.tokens)/rl.perSecond)), 1)
	return httpclient.RateLimitResult{RetryAfter: wait}
}

// Cleanup forgets hosts that have not been contacted for a while.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for host, b := range rl.hosts {
		if now.Sub(b.last) > idleBucketTTL {
			delete(rl.hosts, host)
		}
	}
}

// BucketCount returns the number of hosts being tracked.
func (rl *RateLimiter) BucketCount() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.hosts)
}
