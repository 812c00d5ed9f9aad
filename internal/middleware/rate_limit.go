package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"bioatlas-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RateLimitConfig for the fixed-window per-IP limiter on company routes.
type RateLimitConfig struct {
	PerMinute int
	Prefix    string // Redis key namespace, default "ratelimit"
}

// RateLimit returns a Redis-backed fixed-window limiter: PerMinute requests
// per client IP per minute window, 429 past the budget. Redis faults fail
// open; throttling is best-effort, not a security boundary.
func RateLimit(rdb *redis.Client, cfg RateLimitConfig) fiber.Handler {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "ratelimit"
	}
	window := time.Minute

	return func(c *fiber.Ctx) error {
		if cfg.PerMinute <= 0 || rdb == nil {
			return c.Next()
		}

		bucket := time.Now().Unix() / int64(window.Seconds())
		key := fmt.Sprintf("%s:%s:%d", prefix, c.IP(), bucket)

		ctx := context.Background()
		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			log.Warn().Err(err).Msg("rate limit counter unavailable, allowing request")
			return c.Next()
		}
		if count == 1 {
			_, _ = rdb.Expire(ctx, key, window).Result()
		}
		if count > int64(cfg.PerMinute) {
			c.Set("Retry-After", strconv.Itoa(int(window.Seconds())))
			return response.Error(c, "Too many requests", fiber.StatusTooManyRequests, nil)
		}
		return c.Next()
	}
}
