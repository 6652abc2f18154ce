package api

import (
	"net/http"
	"sync"
	"time"

	"circl/backend/internal/config"

	"github.com/gin-gonic/gin"
)

// RateLimiter is a fixed-window request counter keyed by client. Windows are
// tracked in memory; a multi-instance deployment would need a shared store,
// which is why the limiter is injected rather than hard-wired.
type RateLimiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	requests int
	length   time.Duration
	now      func() time.Time
}

type window struct {
	start time.Time
	count int
}

func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		windows:  make(map[string]*window),
		requests: cfg.Requests,
		length:   cfg.Window,
		now:      time.Now,
	}
}

// Allow reports whether the client identified by key may make another request
// in the current window.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.windows[key]
	if !ok || now.Sub(w.start) >= rl.length {
		rl.windows[key] = &window{start: now, count: 1}
		rl.pruneLocked(now)
		return true
	}

	if w.count >= rl.requests {
		return false
	}
	w.count++
	return true
}

// pruneLocked drops expired windows so the map does not grow with every
// client ever seen. Called with rl.mu held.
func (rl *RateLimiter) pruneLocked(now time.Time) {
	for key, w := range rl.windows {
		if now.Sub(w.start) >= rl.length {
			delete(rl.windows, key)
		}
	}
}

// RateLimitMiddleware limits requests per client. Clients are keyed by the
// X-User-ID header when present, falling back to client IP for unauthenticated
// routes.
func RateLimitMiddleware(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-User-ID")
		if key == "" {
			key = c.ClientIP()
		}

		if !limiter.Allow(key) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, APIResponse{
				Success: false,
				Error: &APIError{
					Code:    "RATE_LIMITED",
					Message: "Too many requests. Try again shortly.",
				},
			})
			return
		}

		c.Next()
	}
}
