package http

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

// rateLimit rejects requests beyond perMinute with 429. A non-positive
// perMinute disables the limit.
func rateLimit(perMinute int) fiber.Handler {
	if perMinute <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	limiter := rate.NewLimiter(rate.Limit(float64(perMinute)/60), perMinute)
	return func(c *fiber.Ctx) error {
		if !limiter.Allow() {
			return fiber.NewError(fiber.StatusTooManyRequests, "Too many export requests")
		}
		return c.Next()
	}
}
