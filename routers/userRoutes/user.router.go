package userRoutes

import (
	courseControllers "futurebound/controllers/course"
	userControllers "futurebound/controllers/userControllers"
	"futurebound/middleware"
	userValidators "futurebound/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user", middleware.JWTMiddleware, middleware.RequireActiveUser)

	userGroup.Get("/profile", userControllers.GetProfile)
	userGroup.Put("/profile", userValidators.UpdateProfile(), userControllers.UpdateProfile)
	userGroup.Get("/dashboard", userControllers.GetDashboard)
	userGroup.Get("/certificates", userValidators.ListCertificates(), courseControllers.GetUserCertificates)
}
