package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/lhhieu89/reviewphims/internal/handler"
	"github.com/lhhieu89/reviewphims/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Video  *handler.VideoHandler
	Cache  *handler.CacheHandler
	Quota  *handler.QuotaHandler
	Health *handler.HealthHandler
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, limiter *middleware.RateLimiter, corsOrigins string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(middleware.NewCORS(corsOrigins))
	app.Use(handler.MetricsMiddleware())

	// Probes and metrics stay outside the rate limit
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	// API routes
	api := app.Group("/api", limiter.Handler())

	api.Get("/youtube/search", h.Video.Search)
	api.Get("/youtube/most-popular", h.Video.MostPopular)
	api.Get("/youtube/video", h.Video.GetVideo)
	api.Get("/youtube/channel", h.Video.GetChannel)

	api.Get("/cache/videos", h.Cache.GetVideos)
	api.Post("/cache/videos", h.Cache.PostVideos)
	api.Get("/cache/status", h.Cache.Status)

	api.Get("/quota", h.Quota.Usage)
}
