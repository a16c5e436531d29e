package middleware

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// RateLimit caps requests per key per minute using a Redis counter. The key
// function decides the bucket (user id, email, IP). Fails open when Redis is
// unavailable.
func RateLimit(cache *redis.Client, prefix string, maxPerMin int, keyFn func(c *fiber.Ctx) string) fiber.Handler {
	if maxPerMin <= 0 {
		maxPerMin = 5
	}
	return func(c *fiber.Ctx) error {
		if cache == nil {
			return c.Next()
		}
		key := keyFn(c)
		if key == "" {
			key = c.IP()
		}
		bucket := "rl:" + prefix + ":" + key
		cnt, err := cache.Incr(c.UserContext(), bucket).Result()
		if err == nil && cnt == 1 {
			cache.Expire(c.UserContext(), bucket, time.Minute)
		}
		if err != nil {
			return c.Next()
		}
		if cnt > int64(maxPerMin) {
			return fiber.NewError(http.StatusTooManyRequests, "too many attempts, try again later")
		}
		return c.Next()
	}
}

// UserKey buckets by the authenticated user, falling back to IP.
func UserKey(c *fiber.Ctx) string {
	uid, _ := c.Locals("user_id").(string)
	return uid
}

// EmailKey buckets login attempts by the submitted email, falling back to IP.
func EmailKey(c *fiber.Ctx) string {
	var req struct {
		Email string `json:"email"`
	}
	_ = c.BodyParser(&req)
	return req.Email
}
