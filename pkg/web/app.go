package web

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

// NewApp mounts the handlers on a fiber application.
func NewApp(handlers *APIHandlers) *fiber.App {
	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("flowc API")
	})

	p := app.Group("/processes")
	p.Get("/", handlers.GetProcesses)
	p.Post("/", handlers.CreateProcess)
	p.Post("/validate", handlers.ValidateProcess)
	p.Get("/:id", handlers.GetProcess)
	p.Delete("/:id", handlers.DeleteProcess)

	app.Get("/health", handlers.HealthCheck)

	return app
}
