package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"registrar_backend/internals/configs"
	helper "registrar_backend/internals/helpers"
)

// Global limiter for every API endpoint
func GlobalRateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        configs.Conf.GetInt("RATE_LIMIT_MAX"),
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		Next: func(c *fiber.Ctx) bool {
			p := c.Path()
			return p == "/health" || p == "/metrics"
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.Error(c, fiber.StatusTooManyRequests, "too many requests, try again later")
		},
	})
}

// Tighter limiter for the bulk write endpoints (enroll, grade batches, seeding).
func BatchRateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        30,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.Error(c, fiber.StatusTooManyRequests, "too many batch requests, try again later")
		},
	})
}
