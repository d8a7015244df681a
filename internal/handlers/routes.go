package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"resume-matcher/internal/models"
)

const rateLimitMessage = "Too many requests — try again in an hour."

type RateLimit struct {
	Max    int
	Window time.Duration
}

// RegisterRoutes mounts the health probes and the analysis endpoints. Both
// analysis endpoints share one limiter budget per client IP.
func RegisterRoutes(app *fiber.App, match *MatchHandler, health *HealthHandler, rl RateLimit) {
	app.Get("/health", health.HandleRoot)

	api := app.Group("/api")
	api.Get("/health", health.HandleHealth)
	api.Get("/ready", health.HandleReady)

	limit := newRateLimiter(rl)
	api.Post("/match-pdf-url", limit, match.HandleMatchPDF)
	api.Post("/match", limit, match.HandleMatchText)
}

func newRateLimiter(rl RateLimit) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               rl.Max,
		Expiration:        rl.Window,
		LimiterMiddleware: limiter.SlidingWindow{},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{Error: rateLimitMessage})
		},
	})
}
