package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/medreminder-api/internal/handler"
)

// RateLimiter keeps one token bucket per client IP. Buckets of idle clients
// expire from the table after one window, at which point they would be full anyway.
type RateLimiter struct {
	mu      sync.Mutex
	clients *cache.Cache
	every   rate.Limit
	burst   int
	window  time.Duration
}

// NewRateLimiter allows requests per window for each client.
func NewRateLimiter(requests int, window, cleanup time.Duration) *RateLimiter {
	if cleanup <= 0 {
		cleanup = window
	}
	return &RateLimiter{
		clients: cache.New(window, cleanup),
		every:   rate.Every(window / time.Duration(requests)),
		burst:   requests,
		window:  window,
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	lim, ok := rl.clients.Get(key)
	if !ok {
		lim = rate.NewLimiter(rl.every, rl.burst)
	}
	rl.clients.Set(key, lim, cache.DefaultExpiration)
	return lim.(*rate.Limiter)
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiter(c.ClientIP()).Allow() {
			retry := math.Ceil((rl.window / time.Duration(rl.burst)).Seconds())
			c.Header("Retry-After", strconv.Itoa(int(retry)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, handler.NewErrorResponse("too many requests, please try again later"))
			return
		}
		c.Next()
	}
}
