package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// RateLimitConfig configures a per-client token bucket.
type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
	// IdleTTL is how long an unused bucket is kept.
	IdleTTL time.Duration
}

// DefaultAuthRateLimit allows a burst of 10 credential attempts per client
// and then one every 5 seconds.
func DefaultAuthRateLimit() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 0.2,
		BurstSize:         10,
		IdleTTL:           10 * time.Minute,
	}
}

type tokenBucket struct {
	tokens     float64
	lastRefill time.Time
}

// rateLimiter holds one bucket per client key.
type rateLimiter struct {
	cfg     RateLimitConfig
	now     func() time.Time
	mu      sync.Mutex
	buckets map[string]*tokenBucket
	swept   time.Time
}

func newRateLimiter(cfg RateLimitConfig, now func() time.Time) *rateLimiter {
	if cfg.BurstSize < 1 {
		cfg.BurstSize = 1
	}
	return &rateLimiter{cfg: cfg, now: now, buckets: make(map[string]*tokenBucket), swept: now()}
}

// allow takes a token for key. When none is left it returns the number of
// seconds until one will be.
func (l *rateLimiter) allow(key string) (bool, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	b, ok := l.buckets[key]
	if !ok {
		b = &tokenBucket{tokens: float64(l.cfg.BurstSize), lastRefill: now}
		l.buckets[key] = b
	}

	b.tokens += now.Sub(b.lastRefill).Seconds() * l.cfg.RequestsPerSecond
	if limit := float64(l.cfg.BurstSize); b.tokens > limit {
		b.tokens = limit
	}
	b.lastRefill = now

	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}
	if l.cfg.RequestsPerSecond <= 0 {
		return false, 60
	}
	wait := int(math.Ceil((1 - b.tokens) / l.cfg.RequestsPerSecond))
	if wait < 1 {
		wait = 1
	}
	return false, wait
}

func (l *rateLimiter) sweep(now time.Time) {
	if l.cfg.IdleTTL <= 0 || now.Sub(l.swept) < l.cfg.IdleTTL {
		return
	}
	for k, b := range l.buckets {
		if now.Sub(b.lastRefill) > l.cfg.IdleTTL {
			delete(l.buckets, k)
		}
	}
	l.swept = now
}

// RateLimit throttles requests per client IP. It is mounted on the login and
// registration routes to slow down password guessing.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	return rateLimit(newRateLimiter(cfg, time.Now))
}

func rateLimit(l *rateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ok, retryAfter := l.allow(c.RealIP())
			if !ok {
				c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many attempts, retry later")
			}
			return next(c)
		}
	}
}
