package adminController

import (
	"errors"
	"strings"

	"futurebound/database"
	"futurebound/logger"
	"futurebound/middleware"
	"futurebound/models"
	adminValidator "futurebound/validators/admin"
	"futurebound/validators/shared"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func UserList(c *fiber.Ctx) error {
	reqData := c.Locals("validatedUserList").(*adminValidator.UserListQuery)
	page, limit, offset := reqData.Offset(20)

	db := database.Database.Db.Model(&models.User{})
	if reqData.Search != "" {
		like := "%" + strings.ToLower(reqData.Search) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(username) LIKE ? OR LOWER(email) LIKE ?", like, like, like)
	}
	if reqData.Role != "" {
		db = db.Where("role = ?", reqData.Role)
	}
	if reqData.Active != "" {
		db = db.Where("is_active = ?", reqData.Active == "true")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		logger.Log.Errorw("count users failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}

	var users []models.User
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		logger.Log.Errorw("list users failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully!", fiber.Map{
		"users":      users,
		"pagination": middleware.PageMeta(total, page, limit),
	})
}

// findTargetUser loads the user in :id and refuses to let admins act on themselves.
func findTargetUser(c *fiber.Ctx) (*models.User, error) {
	targetID := shared.ID(c, "id")
	if self, ok := middleware.UserID(c); ok && self == targetID {
		return nil, middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You cannot change your own account here!", nil)
	}
	var user models.User
	if err := database.Database.Db.First(&user, targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
		}
		logger.Log.Errorw("load user failed", "user_id", targetID, "error", err)
		return nil, middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch user!", nil)
	}
	return &user, nil
}

// ToggleUserActive activates or deactivates the user in :id.
func ToggleUserActive(c *fiber.Ctx) error {
	user, resp := findTargetUser(c)
	if user == nil {
		return resp
	}
	user.IsActive = !user.IsActive
	if err := database.Database.Db.Model(user).Update("is_active", user.IsActive).Error; err != nil {
		logger.Log.Errorw("toggle user failed", "user_id", user.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update user!", nil)
	}

	message := "User deactivated successfully!"
	if user.IsActive {
		message = "User activated successfully!"
	}
	logger.Log.Infow("user active flag changed", "user_id", user.ID, "active", user.IsActive)
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, user)
}

// ChangeUserRole promotes or demotes the user in :id.
func ChangeUserRole(c *fiber.Ctx) error {
	user, resp := findTargetUser(c)
	if user == nil {
		return resp
	}
	reqData := c.Locals("validatedRole").(*adminValidator.RoleRequest)

	if err := database.Database.Db.Model(user).Update("role", reqData.Role).Error; err != nil {
		logger.Log.Errorw("change role failed", "user_id", user.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update user!", nil)
	}
	user.Role = reqData.Role
	logger.Log.Infow("user role changed", "user_id", user.ID, "role", user.Role)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User role updated successfully!", user)
}
