package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy controls what happens to a request when the limiter's Redis
// backend cannot be reached.
type FailPolicy int

const (
	// FailOpen lets the request through when Redis is down.
	FailOpen FailPolicy = iota
	// FailClosed rejects the request with 503 when Redis is down.
	FailClosed
)

// CheckRateLimit records one hit for (resource, id) and reports whether the
// caller is still under limit for the window. Limits only apply when APP_ENV
// is production or staging; local and test runs are never throttled.
func CheckRateLimit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	switch os.Getenv("APP_ENV") {
	case "production", "staging":
	default:
		return true, nil
	}

	if rdb == nil {
		return false, fmt.Errorf("rate limiter has no redis client")
	}

	key := "diplomat:rl:" + resource + ":" + id
	hits, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	// First hit in a fresh window owns the expiry.
	if hits == 1 {
		rdb.Expire(ctx, key, window)
	}

	return hits <= int64(limit), nil
}

// RateLimit enforces `limit` requests per `window`, keyed by the authenticated
// user when present and by client IP otherwise. Failures are fail-open.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, name ...string) fiber.Handler {
	return RateLimitWithPolicy(rdb, limit, window, FailOpen, name...)
}

// RateLimitWithPolicy is RateLimit with an explicit Redis failure policy. The
// optional name overrides the request path as the bucket's resource label so
// several routes can share one budget.
func RateLimitWithPolicy(rdb *redis.Client, limit int, window time.Duration, policy FailPolicy, name ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resource := c.Path()
		if len(name) > 0 {
			resource = name[0]
		}

		id := "ip:" + c.IP()
		if uid := c.Locals("userID"); uid != nil {
			id = fmt.Sprintf("user:%v", uid)
		}

		allowed, err := CheckRateLimit(c.UserContext(), rdb, resource, id, limit, window)
		if err != nil {
			if policy == FailClosed {
				Logger.WarnContext(c.UserContext(), "rate limiter unavailable, failing closed",
					slog.String("resource", resource),
					slog.String("error", err.Error()),
				)
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"error": "rate limit unavailable",
				})
			}
			return c.Next()
		}

		if !allowed {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "rate limit exceeded",
			})
		}
		return c.Next()
	}
}
