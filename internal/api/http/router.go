package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/coordination-audit/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Directory *handlers.DirectoryHandler
	Audit     *handlers.AuditHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	directory := app.Group("/directory")
	directory.Get("", cfg.Directory.List)
	directory.Get("/search", cfg.Directory.Search)
	directory.Post("/imports", cfg.Directory.Import)

	app.Post("/audits", cfg.Audit.Run)
}
