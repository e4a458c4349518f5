package middleware

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const rateLimitWindow = 15 * time.Minute

// RateLimit caps requests per client IP over a fixed window using a Redis
// counter. Cache errors fail open so a Redis outage never blocks payments.
func RateLimit(cache *redis.Client, maxPerWindow int) fiber.Handler {
	if maxPerWindow <= 0 {
		maxPerWindow = 100
	}
	return func(c *fiber.Ctx) error {
		if cache == nil {
			return c.Next() // no-op without Redis
		}
		key := "rl:api:" + c.IP()
		cnt, err := cache.Incr(c.UserContext(), key).Result()
		if err != nil {
			return c.Next() // fail-open on cache errors
		}
		if cnt == 1 {
			cache.Expire(c.UserContext(), key, rateLimitWindow)
		}
		if cnt > int64(maxPerWindow) {
			return fiber.NewError(http.StatusTooManyRequests, "too many requests, please try again later")
		}
		return c.Next()
	}
}
