package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/wallboard-service/internal/api/http/handlers"
	"github.com/spec-kit/wallboard-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Agents         *handlers.AgentsHandler
	Auth           *handlers.AuthHandler
	AuthMiddleware *auth.AuthMiddleware
	Sessions       *auth.SessionStore
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Auth.Logout)

	// Directory surface is admin-only.
	users := api.Group("/users", cfg.AuthMiddleware.Handle, auth.RequireAdmin(cfg.Sessions))
	users.Get("/", cfg.Users.List)
	users.Get("/:id", cfg.Users.Get)
	users.Post("/", cfg.Users.Create)
	users.Put("/:id", cfg.Users.Update)
	users.Delete("/:id", cfg.Users.Delete)

	api.Get("/teams", cfg.AuthMiddleware.Handle, auth.RequireAdmin(cfg.Sessions), cfg.Users.ListTeams)

	agents := api.Group("/agents", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	agents.Get("/summary", cfg.Agents.Summary)
	agents.Get("/", cfg.Agents.List)
	agents.Get("/:id", cfg.Agents.Get)
	agents.Post("/", cfg.Agents.Create)
	agents.Put("/:id/status", cfg.Agents.ChangeStatus)
	agents.Put("/:id", cfg.Agents.Update)
	agents.Delete("/:id", cfg.Agents.Delete)
}
