package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/ronan-soo/Redoxide-Feature-Request-System/internal/handler"
	"github.com/ronan-soo/Redoxide-Feature-Request-System/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Feature *handler.FeatureHandler
	Vote    *handler.VoteHandler
	Session *handler.SessionHandler
	Polish  *handler.PolishHandler
	Feed    *handler.FeedHandler
	Admin   *handler.AdminHandler
	Health  *handler.HealthHandler
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, corsOrigins string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(middleware.NewCORS(corsOrigins))
	app.Use(handler.MetricsMiddleware())

	// Health checks (before API group, no auth needed)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)

	// Prometheus metrics
	app.Get("/metrics", handler.MetricsHandler())

	// API routes
	api := app.Group("/api")

	// Session routes
	sessionLimit := middleware.NewSessionRateLimiter().Handler()
	api.Post("/session", h.Session.Resolve, sessionLimit)
	api.Get("/session", h.Session.Current)
	api.Delete("/session", h.Session.SignOut, sessionLimit)

	// Feature routes. The feed must be registered before the vote route so
	// "feed" is never captured as a :featureId parameter.
	api.Get("/features/feed", h.Feed.Stream, middleware.NewFeedRateLimiter().Handler())
	api.Get("/features", h.Feature.List)
	api.Post("/features", h.Feature.Submit, middleware.NewSubmitRateLimiter().Handler())
	api.Post("/features/:featureId/vote", h.Vote.Toggle, middleware.NewVoteRateLimiter().Handler())

	// Polish routes
	api.Post("/polish", h.Polish.Polish, middleware.NewPolishRateLimiter().Handler())

	// Stats routes
	api.Get("/stats", h.Feature.Stats, middleware.NewStatsRateLimiter().Handler())

	// Admin routes
	api.Patch("/admin/features/:featureId/status", h.Admin.UpdateStatus)
}
