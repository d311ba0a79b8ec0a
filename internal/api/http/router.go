package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Categories     *handlers.CategoriesHandler
	AdminUsers     *handlers.AdminUsersHandler
	Articles       *handlers.ArticlesHandler
	Attachments    *handlers.AttachmentsHandler
	Dashboard      *handlers.DashboardHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Auth.Logout)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Post("", cfg.Tickets.Create)
	tickets.Get("", cfg.Tickets.List)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Put("/:id", cfg.Tickets.Update)
	tickets.Delete("/:id", cfg.Tickets.Delete)
	tickets.Post("/:id/assign", auth.RequireStaff(), cfg.Tickets.AssignToggle)
	tickets.Patch("/:id/status", auth.RequireStaff(), cfg.Tickets.ChangeStatus)
	tickets.Get("/:id/history", auth.RequireStaff(), cfg.Tickets.History)
	tickets.Post("/:id/comments", cfg.Tickets.AddComment)
	tickets.Get("/:id/comments", cfg.Tickets.ListComments)
	tickets.Get("/:id/attachments", cfg.Attachments.ListForTicket)

	categories := app.Group("/categories", cfg.AuthMiddleware.Handle)
	categories.Get("", cfg.Categories.List)
	categories.Get("/stats", auth.RequireStaff(), cfg.Categories.ListWithCounts)
	categories.Post("", auth.RequireAdmin(), cfg.Categories.Create)
	categories.Put("/:id", auth.RequireAdmin(), cfg.Categories.Update)
	categories.Delete("/:id", auth.RequireAdmin(), cfg.Categories.Delete)

	articles := app.Group("/articles", cfg.AuthMiddleware.Handle)
	articles.Get("", cfg.Articles.List)
	articles.Get("/:id", cfg.Articles.Get)
	articles.Post("", auth.RequireStaff(), cfg.Articles.Create)
	articles.Put("/:id", auth.RequireStaff(), cfg.Articles.Update)
	articles.Delete("/:id", auth.RequireStaff(), cfg.Articles.Delete)

	app.Post("/attachments/:type/:id", cfg.AuthMiddleware.Handle, cfg.Attachments.Upload)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	admin.Get("/users", cfg.AdminUsers.List)
	admin.Get("/users/:id", cfg.AdminUsers.Get)
	admin.Put("/users/:id", cfg.AdminUsers.Update)
	admin.Delete("/users/:id", cfg.AdminUsers.Delete)

	app.Get("/dashboard", cfg.AuthMiddleware.Handle, auth.RequireStaff(), cfg.Dashboard.Stats)
}
