package http

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/docboard/internal/api/http/handlers"
	"github.com/spec-kit/docboard/internal/auth"
	"github.com/spec-kit/docboard/internal/domain"
	"github.com/spec-kit/docboard/internal/observability"
	"github.com/spec-kit/docboard/internal/ratelimit"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Documents      *handlers.DocumentsHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.AuthMiddleware
	LoginLimiter   *ratelimit.Limiter
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.LoginLimiter.Middleware("register"), cfg.AuthMiddleware.Optional, cfg.Auth.Register)
	authGroup.Post("/login", cfg.LoginLimiter.Middleware("login"), cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)

	session := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	session.Get("/me", cfg.Auth.Me)
	session.Post("/password/change", cfg.Auth.ChangePassword)

	api := app.Group("/api", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	api.Get("/documents", cfg.Documents.List)
	api.Post("/documents", cfg.Documents.Create)
	api.Get("/documents/:id", cfg.Documents.Get)
	api.Patch("/documents/:id", cfg.Documents.Update)
	api.Delete("/documents/:id", cfg.Documents.Delete)

	admin := api.Group("/users", auth.RequireRoles(domain.RoleAdmin))
	admin.Get("", cfg.Users.List)
	admin.Patch("/:id/role", cfg.Users.ChangeRole)
}
