package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SplendidSupplies/shop_api/internal/utils"
)

// RateLimiter bounds the rate of a (caller, action) pair with a sliding
// time window over per-key timestamp lists. State is process-local: a
// multi-instance deployment under-enforces the limit, since each instance
// tracks its own counters.
type RateLimiter struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
}

type windowEntry struct {
	hits   []time.Time
	window time.Duration
}

// NewRateLimiter constructs a limiter and starts a background sweep that
// evicts keys whose whole window has expired, so the map stays bounded over
// the process lifetime.
func NewRateLimiter() *RateLimiter {
	rl := &RateLimiter{entries: make(map[string]*windowEntry)}
	go rl.sweep()
	return rl
}

// Allow reports whether another call for key fits inside the window. It
// discards timestamps older than the window, admits the call only if fewer
// than maxRequests remain, and records the new timestamp when admitted.
func (r *RateLimiter) Allow(key string, maxRequests int, window time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	e, ok := r.entries[key]
	if !ok {
		e = &windowEntry{window: window}
		r.entries[key] = e
	}
	e.window = window

	valid := e.hits[:0]
	for _, t := range e.hits {
		if now.Sub(t) < window {
			valid = append(valid, t)
		}
	}
	e.hits = valid

	if len(e.hits) >= maxRequests {
		return false
	}
	e.hits = append(e.hits, now)
	return true
}

func (r *RateLimiter) sweep() {
	ticker := time.NewTicker(5 * time.Minute)
	for range ticker.C {
		r.mu.Lock()
		now := time.Now()
		for key, e := range r.entries {
			if len(e.hits) == 0 || now.Sub(e.hits[len(e.hits)-1]) > e.window {
				delete(r.entries, key)
			}
		}
		r.mu.Unlock()
	}
}

// Handle returns gin middleware limiting the named action per client IP.
func (r *RateLimiter) Handle(action string, maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := action + ":" + c.ClientIP()
		if !r.Allow(key, maxRequests, window) {
			utils.Error(c, 429, "RATE_LIMITED", "Rate limit exceeded, retry later")
			c.Abort()
			return
		}
		c.Next()
	}
}
