package adminRoutes

import (
	adminControllers "futurebound/controllers/admin"
	"futurebound/middleware"
	"futurebound/models"
	"futurebound/routers/courseRoutes"
	adminValidators "futurebound/validators/admin"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes mounts every /admin route behind a token and an ADMIN role check.
func SetupAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin))

	courseRoutes.SetupAdminCourseRoutes(adminGroup)

	// Users
	adminGroup.Get("/users", adminValidators.ListUsers(), adminControllers.UserList)
	adminGroup.Patch("/users/:id/toggle", adminValidators.ID(), adminControllers.ToggleUserActive)
	adminGroup.Put("/users/:id/role", adminValidators.ID(), adminValidators.ChangeRole(), adminControllers.ChangeUserRole)

	// Contact messages
	adminGroup.Get("/messages", adminValidators.ListMessages(), adminControllers.MessageList)
	adminGroup.Patch("/messages/:id/read", adminValidators.ID(), adminControllers.MarkMessageRead)
}
