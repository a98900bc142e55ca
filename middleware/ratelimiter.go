package middleware

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/utils"
)

// RateLimiterConfig holds configuration for the rate limiter.
type RateLimiterConfig struct {
	Max      int
	Duration time.Duration
	Skip     func(*fiber.Ctx) bool
	Storage  fiber.Storage // nil keeps counters in memory
}

// RateLimiterOption defines a function to modify RateLimiterConfig.
type RateLimiterOption func(*RateLimiterConfig)

// WithMax sets the number of requests a client may make per window.
func WithMax(max int) RateLimiterOption {
	return func(cfg *RateLimiterConfig) {
		cfg.Max = max
	}
}

// WithDuration sets the length of the rate limit window.
func WithDuration(duration time.Duration) RateLimiterOption {
	return func(cfg *RateLimiterConfig) {
		cfg.Duration = duration
	}
}

// WithSkip exempts requests for which skip returns true.
// Health checks are always exempt.
func WithSkip(skip func(*fiber.Ctx) bool) RateLimiterOption {
	return func(cfg *RateLimiterConfig) {
		cfg.Skip = skip
	}
}

// WithStorage shares counters between instances through a fiber.Storage.
func WithStorage(storage fiber.Storage) RateLimiterOption {
	return func(cfg *RateLimiterConfig) {
		cfg.Storage = storage
	}
}

// RateLimiter limits requests per client IP before they reach the resolver.
// By default a client gets 50 requests per second.
//
// A rejected request returns a 429 *fiber.Error, so it is rendered by the
// application's error handler like any other failed dispatch.
func RateLimiter(options ...RateLimiterOption) fiber.Handler {
	cfg := RateLimiterConfig{
		Max:      50,
		Duration: time.Second,
	}
	for _, option := range options {
		option(&cfg)
	}
	if cfg.Max <= 0 {
		cfg.Max = 50
	}
	if cfg.Duration <= 0 {
		cfg.Duration = time.Second
	}

	retryAfter := strconv.Itoa(int(math.Ceil(cfg.Duration.Seconds())))
	limit := strconv.Itoa(cfg.Max)

	return limiter.New(limiter.Config{
		Max:        cfg.Max,
		Expiration: cfg.Duration,
		Storage:    cfg.Storage,
		KeyGenerator: func(c *fiber.Ctx) string {
			// c.IP() points into a pooled buffer.
			return utils.CopyString(c.IP())
		},
		LimitReached: func(c *fiber.Ctx) error {
			c.Set(fiber.HeaderRetryAfter, retryAfter)
			c.Set("X-RateLimit-Limit", limit)
			c.Set("X-RateLimit-Remaining", "0")
			return fiber.NewError(fiber.StatusTooManyRequests, "rate limit exceeded")
		},
		Next: func(c *fiber.Ctx) bool {
			if strings.HasPrefix(c.Path(), "/_health") {
				return true
			}
			return cfg.Skip != nil && cfg.Skip(c)
		},
	})
}
