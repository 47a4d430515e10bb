package http

import (
	"sync"
	"sync/atomic"
	"time"
)

// Write budget per client IP. Only mutating requests consume it; reads
// recompute cheap aggregates and are never limited.
const (
	defaultWriteLimit  = 60
	defaultWriteWindow = time.Minute
)

// rateLimiter counts mutating requests per client IP over a fixed
// window. A client that stays quiet for a full window gets a fresh
// budget; one that keeps hammering stays blocked, because the window
// anchor moves with every attempt.
type rateLimiter struct {
	limit  int
	window time.Duration

	mu           sync.Mutex
	clients      map[string]*clientWindow
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientWindow struct {
	lastSeen time.Time
	count    int
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	rl := &rateLimiter{
		limit:       limit,
		window:      window,
		clients:     make(map[string]*clientWindow),
		stopCleanup: make(chan struct{}),
	}
	go rl.runCleanup()
	return rl
}

// runCleanup drops idle client entries so the map stays bounded by the
// set of recently active writers.
func (rl *rateLimiter) runCleanup() {
	ticker := time.NewTicker(5 * rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.dropIdleClients()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *rateLimiter) dropIdleClients() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * rl.window)
	for ip, c := range rl.clients {
		if c.lastSeen.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

// stop terminates the cleanup goroutine.
func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		if rl.stopCleanup != nil {
			close(rl.stopCleanup)
		}
	})
}

// allow reports whether the client may perform another write, counting
// this attempt either way.
func (rl *rateLimiter) allow(clientIP string, metrics *securityMetrics) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	c, ok := rl.clients[clientIP]
	if !ok || now.Sub(c.lastSeen) > rl.window {
		rl.clients[clientIP] = &clientWindow{lastSeen: now, count: 1}
		return true
	}

	c.count++
	c.lastSeen = now

	if c.count > rl.limit {
		if metrics != nil {
			atomic.AddInt64(&metrics.rateLimitHits, 1)
		}
		return false
	}
	return true
}
