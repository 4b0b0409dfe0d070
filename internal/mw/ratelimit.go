package mw

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// limiterIdle is how long an idle client's limiter is kept.
const limiterIdle = 10 * time.Minute

// ClientLimiters hands out one token bucket per client address. Buckets
// of clients idle for limiterIdle are dropped.
type ClientLimiters struct {
	buckets *cache.Cache
	r       rate.Limit
	b       int
}

// NewClientLimiters creates limiters allowing r requests per second with
// bursts of b.
func NewClientLimiters(r rate.Limit, b int) *ClientLimiters {
	return &ClientLimiters{
		buckets: cache.New(limiterIdle, limiterIdle),
		r:       r,
		b:       b,
	}
}

// Get returns the limiter for addr, creating it on first use.
func (l *ClientLimiters) Get(addr string) *rate.Limiter {
	if v, ok := l.buckets.Get(addr); ok {
		lim := v.(*rate.Limiter)
		l.buckets.SetDefault(addr, lim)
		return lim
	}

	lim := rate.NewLimiter(l.r, l.b)
	if err := l.buckets.Add(addr, lim, cache.DefaultExpiration); err != nil {
		// lost a race with another request from the same client
		if v, ok := l.buckets.Get(addr); ok {
			return v.(*rate.Limiter)
		}
	}
	return lim
}

// RateLimiter rejects clients exceeding r requests per second (burst b)
// with 429.
func RateLimiter(r rate.Limit, b int) gin.HandlerFunc {
	limiters := NewClientLimiters(r, b)
	return func(c *gin.Context) {
		if !limiters.Get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Too many requests"})
			return
		}
		c.Next()
	}
}
