// Package routers assembles the Fiber application.
package routers

import (
	"errors"

	"futurebound/config"
	"futurebound/logger"
	"futurebound/middleware"
	"futurebound/routers/adminRoutes"
	"futurebound/routers/authRoutes"
	"futurebound/routers/contactRoutes"
	"futurebound/routers/courseRoutes"
	"futurebound/routers/userRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp builds the application with its middleware stack and every route.
// Request logging is skipped when quiet is set.
func NewApp(cfg *config.Config, quiet bool) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "futurebound",
		BodyLimit:    8 * 1024 * 1024,
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CorsOrigins,
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))
	if !quiet {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "ok", nil)
	})

	authRoutes.SetupAuthRoutes(app)
	userRoutes.SetupUserRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupEnrollmentRoutes(app)
	contactRoutes.SetupContactRoutes(app)
	adminRoutes.SetupAdminRoutes(app)

	app.Use(func(c *fiber.Ctx) error {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Route not found!", nil)
	})
	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error!"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}
	if code >= fiber.StatusInternalServerError {
		logger.Log.Errorw("unhandled error", "method", c.Method(), "path", c.Path(), "error", err)
	}
	return middleware.JsonResponse(c, code, false, message, nil)
}
