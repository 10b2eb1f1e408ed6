package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const maxTrackedClients = 10000

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter hands out one token bucket per client IP.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   rate.Limit
	burst   int
	idle    time.Duration
	max     int
	now     func() time.Time
}

func NewRateLimiter(perMinute, burst int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 30
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		clients: make(map[string]*client),
		limit:   rate.Limit(float64(perMinute) / 60),
		burst:   burst,
		idle:    10 * time.Minute,
		max:     maxTrackedClients,
		now:     time.Now,
	}
}

func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cl, ok := rl.clients[key]
	if !ok {
		if len(rl.clients) >= rl.max {
			rl.pruneLocked(now)
		}
		if len(rl.clients) >= rl.max {
			rl.evictOldestLocked()
		}
		cl = &client{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

func (rl *RateLimiter) pruneLocked(now time.Time) {
	for key, cl := range rl.clients {
		if now.Sub(cl.lastSeen) > rl.idle {
			delete(rl.clients, key)
		}
	}
}

// evictOldestLocked drops the least recently seen client.
func (rl *RateLimiter) evictOldestLocked() {
	var oldest string
	var seen time.Time
	for key, cl := range rl.clients {
		if oldest == "" || cl.lastSeen.Before(seen) {
			oldest, seen = key, cl.lastSeen
		}
	}
	delete(rl.clients, oldest)
}

// Middleware only limits mutating requests.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			c.Next()
			return
		}
		if !rl.Allow(c.ClientIP()) {
			c.Header("Retry-After", "60")
			c.String(http.StatusTooManyRequests, "Too many attempts, please wait a minute and try again.")
			c.Abort()
			return
		}
		c.Next()
	}
}
