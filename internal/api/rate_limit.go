package api

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

const maxTrackedLimiters = 10000

// rateLimiter keeps one token bucket per client IP.
type rateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func newRateLimiter(perSecond float64, burst int) *rateLimiter {
	if perSecond <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return &rateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(perSecond),
		burst:    burst,
	}
}

func (limiter *rateLimiter) get(key string) *rate.Limiter {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	bucket, ok := limiter.limiters[key]
	if !ok {
		if len(limiter.limiters) >= maxTrackedLimiters {
			limiter.limiters = make(map[string]*rate.Limiter)
		}
		bucket = rate.NewLimiter(limiter.rate, limiter.burst)
		limiter.limiters[key] = bucket
	}
	return bucket
}

func (handler *Handler) AuthRateLimit(c *fiber.Ctx) error {
	if handler.authLimiter == nil {
		return c.Next()
	}

	key := requestLimiterKey(c)
	if !handler.authLimiter.get(key).Allow() {
		handler.logger.Warnw("auth rate limit exceeded", "ip", key, "path", c.Path())
		return handler.apiError(c, fiber.StatusTooManyRequests, errRateLimited)
	}
	return c.Next()
}
