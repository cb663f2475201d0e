package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/helpdesk-hq/helpdesk-service/internal/api/http/handlers"
	"github.com/helpdesk-hq/helpdesk-service/internal/auth"
	"github.com/helpdesk-hq/helpdesk-service/internal/observability"
)

// RouteConfig bundles everything the router needs to wire the API surface.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Users   *handlers.UsersHandler
	Tickets *handlers.TicketsHandler
	Auth    *auth.AuthMiddleware
}

// RegisterRoutes wires every route of the service onto the fiber app.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Post("/password/reset/request", cfg.Users.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Users.ConfirmPasswordReset)

	authenticated := cfg.Auth.Handle

	authGroup.Post("/logout", authenticated, cfg.Users.Logout)
	authGroup.Post("/password/change", authenticated, cfg.Users.ChangePassword)

	users := api.Group("/users", authenticated)
	users.Get("/me/profile", cfg.Users.GetProfile)
	users.Patch("/me/profile", cfg.Users.UpdateProfile)
	users.Delete("/me", cfg.Users.DeleteAccount)
	users.Get("/search", auth.RequireStaff(), cfg.Users.SearchUsers)

	tickets := api.Group("/tickets", authenticated)
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Delete("/:id", cfg.Tickets.DeleteTicket)
	tickets.Patch("/:id/status", cfg.Tickets.UpdateStatus)
	tickets.Patch("/:id/priority", auth.RequireStaff(), cfg.Tickets.UpdatePriority)
	tickets.Patch("/:id/due-date", auth.RequireStaff(), cfg.Tickets.SetDueDate)
	tickets.Post("/:id/assign", auth.RequireStaff(), cfg.Tickets.AssignTicket)
	tickets.Post("/:id/comments", cfg.Tickets.AddComment)

	comments := api.Group("/comments", authenticated)
	comments.Patch("/:id", cfg.Tickets.EditComment)
}
