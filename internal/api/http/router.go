package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/demand-service/internal/api/http/handlers"
	"github.com/spec-kit/demand-service/internal/auth"
	"github.com/spec-kit/demand-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Demands        *handlers.DemandsHandler
	Documents      *handlers.DocumentsHandler
	Dashboard      *handlers.DashboardHandler
	Providers      *handlers.ProvidersHandler
	Metrics        *handlers.MetricsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Prometheus())

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	protected.Post("/auth/password/change", cfg.Auth.ChangePassword)
	protected.Post("/auth/analysts", auth.RequireRole(domain.AnalystRoleAdmin), cfg.Auth.CreateAnalyst)
	protected.Get("/analysts", cfg.Auth.ListAnalysts)
	protected.Patch("/analysts/:id/active", auth.RequireRole(domain.AnalystRoleAdmin), cfg.Auth.SetActive)

	protected.Get("/demands", cfg.Demands.ListDemands)
	protected.Post("/demands", cfg.Demands.CreateDemand)
	protected.Get("/demands/:id", cfg.Demands.GetDemand)
	protected.Post("/demands/:id/finalize", cfg.Demands.FinalizeDemand)
	protected.Post("/demands/:id/reopen", cfg.Demands.ReopenDemand)
	protected.Post("/demands/:id/assign", auth.RequireRole(domain.AnalystRoleDistribuidor), cfg.Demands.AssignDemand)
	protected.Get("/demands/:id/history", cfg.Demands.DemandHistory)

	protected.Get("/demands/:id/documents", cfg.Documents.ListDocuments)
	protected.Post("/demands/:id/documents", cfg.Documents.CreateDocument)
	protected.Get("/documents/:id", cfg.Documents.GetDocument)
	protected.Get("/documents/:id/edit", cfg.Documents.EditDocument)
	protected.Patch("/documents/:id", cfg.Documents.UpdateDocument)

	protected.Get("/dashboard", cfg.Dashboard.Summary)
	protected.Get("/dashboard/incomplete", cfg.Dashboard.Incomplete)

	protected.Get("/providers", cfg.Providers.ListProviders)
	protected.Post("/providers", auth.RequireRole(domain.AnalystRoleAdmin), cfg.Providers.CreateProvider)

	protected.Get("/metrics/snapshot", auth.RequireRole(domain.AnalystRoleAdmin), cfg.Metrics.Snapshot)
}
