package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/thuanhighclean/cleaning-service/internal/api/http/handlers"
	"github.com/thuanhighclean/cleaning-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Messages       *handlers.MessagesHandler
	Orders         *handlers.OrdersHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/admin/login", cfg.Admin.Login)
	app.Get("/", cfg.AuthMiddleware.RequireAdmin, cfg.Admin.Ping)

	api := app.Group("/api")
	api.Post("/message", cfg.Messages.Create)
	api.Get("/message", cfg.Messages.List)
	api.Delete("/message/:id", cfg.AuthMiddleware.RequireAdmin, cfg.Messages.Delete)

	api.Post("/order", cfg.AuthMiddleware.RequireAdmin, cfg.Orders.Create)
	api.Get("/order", cfg.Orders.List)
	api.Get("/order/:id", cfg.Orders.Get)
	api.Delete("/order/:id", cfg.AuthMiddleware.RequireAdmin, cfg.Orders.Delete)
}
