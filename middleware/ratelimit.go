package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// ipBuckets hands out one token bucket per client IP and forgets buckets
// that have been idle long enough to be irrelevant.
type ipBuckets struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   rate.Limit
	burst   int
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func (b *ipBuckets) get(ip string) *rate.Limiter {
	b.mu.Lock()
	defer b.mu.Unlock()
	entry, ok := b.buckets[ip]
	if !ok {
		entry = &bucket{limiter: rate.NewLimiter(b.limit, b.burst)}
		b.buckets[ip] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

func (b *ipBuckets) sweep(idle time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	cutoff := time.Now().Add(-idle)
	for ip, entry := range b.buckets {
		if entry.lastSeen.Before(cutoff) {
			delete(b.buckets, ip)
		}
	}
}

// RateLimit applies per-IP token-bucket limiting to every request.
func RateLimit(r rate.Limit, burst int) gin.HandlerFunc {
	store := &ipBuckets{
		buckets: make(map[string]*bucket),
		limit:   r,
		burst:   burst,
	}
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			store.sweep(10 * time.Minute)
		}
	}()

	return func(c *gin.Context) {
		if !store.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
