package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/keraza-portal/keraza-go-api/internal/config"
	"github.com/keraza-portal/keraza-go-api/internal/handler"
	"github.com/keraza-portal/keraza-go-api/internal/middleware"
	"github.com/keraza-portal/keraza-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	StudentHandler    *handler.StudentHandler
	DegreeHandler     *handler.DegreeHandler
	BulkHandler       *handler.BulkHandler
	AttendanceHandler *handler.AttendanceHandler
	ContentHandler    *handler.ContentHandler
	IDCardHandler     *handler.IDCardHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	if deps.AuthHandler != nil {
		deps.AuthHandler.Register(api.Group("/auth"))
	}

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	usersView := middleware.RequirePermission("users", "view")
	usersEdit := middleware.RequirePermission("users", "edit")
	usersDelete := middleware.RequirePermission("users", "delete")
	degreesView := middleware.RequirePermission("degrees", "view")
	degreesEdit := middleware.RequirePermission("degrees", "edit")
	contentEdit := middleware.RequirePermission("content", "edit")
	contentDelete := middleware.RequirePermission("content", "delete")

	if deps.StudentHandler != nil {
		students := api.Group("/students", jwtMiddleware, usersView)
		deps.StudentHandler.Register(students, usersEdit, usersDelete)

		pending := api.Group("/pending", jwtMiddleware, usersEdit)
		deps.StudentHandler.RegisterPending(pending)

		if deps.DegreeHandler != nil {
			deps.DegreeHandler.Register(students, degreesView, degreesEdit)
		}
		if deps.IDCardHandler != nil {
			deps.IDCardHandler.Register(students)
			cards := api.Group("/cards", jwtMiddleware, usersView)
			deps.IDCardHandler.RegisterBulk(cards)
		}
	}

	if deps.BulkHandler != nil {
		bulk := api.Group("/bulk", jwtMiddleware)
		deps.BulkHandler.Register(bulk, usersEdit, degreesEdit)
	}

	if deps.AttendanceHandler != nil {
		attendance := api.Group("/attendance", jwtMiddleware, middleware.RequirePermission("attendance", "view"))
		deps.AttendanceHandler.Register(attendance)
	}

	if deps.ContentHandler != nil {
		content := api.Group("/content", jwtMiddleware, middleware.RequirePermission("content", "view"))
		deps.ContentHandler.Register(content, contentEdit, contentDelete)
	}
}
