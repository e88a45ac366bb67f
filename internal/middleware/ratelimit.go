package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window per-key limiter backed by redis, applied to
// the auth routes.
type RateLimiter struct {
	rdb    *redis.Client
	prefix string
	limit  int
	window time.Duration
}

func NewRateLimiter(rdb *redis.Client, prefix string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{rdb: rdb, prefix: prefix, limit: limit, window: window}
}

// ByIP limits requests per client address.
func (r *RateLimiter) ByIP() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := fmt.Sprintf("%s:%s", r.prefix, c.IP())
		count, err := r.rdb.Incr(c.Context(), key).Result()
		if err != nil {
			// the limiter never blocks traffic when redis is down
			return c.Next()
		}
		if count == 1 {
			r.rdb.Expire(c.Context(), key, r.window)
		}
		if count > int64(r.limit) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"error":   "Too many requests, please try again later",
			})
		}
		return c.Next()
	}
}
