package userController

import (
	"time"

	"futurebound/database"
	"futurebound/logger"
	"futurebound/middleware"
	courseModels "futurebound/models/course"
	userValidator "futurebound/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

func GetProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully!", user)
}

func UpdateProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	reqData := c.Locals("validatedProfile").(*userValidator.UpdateProfileRequest)

	updates := map[string]interface{}{}
	if reqData.Name != nil {
		updates["name"] = *reqData.Name
	}
	if reqData.Phone != nil {
		updates["phone"] = *reqData.Phone
	}
	if reqData.College != nil {
		updates["college"] = *reqData.College
	}
	if reqData.Education != nil {
		updates["education"] = *reqData.Education
	}
	if reqData.State != nil {
		updates["state"] = *reqData.State
	}
	if reqData.DateOfBirth != nil {
		if *reqData.DateOfBirth == "" {
			updates["date_of_birth"] = nil
		} else {
			dob, err := time.Parse("2006-01-02", *reqData.DateOfBirth)
			if err != nil {
				return middleware.ValidationErrorResponse(c, map[string]string{"date_of_birth": "Date of birth must be YYYY-MM-DD!"})
			}
			if dob.After(time.Now()) {
				return middleware.ValidationErrorResponse(c, map[string]string{"date_of_birth": "Date of birth cannot be in the future!"})
			}
			updates["date_of_birth"] = dob
		}
	}
	if len(updates) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Nothing to update!", nil)
	}

	if err := database.Database.Db.Model(user).Updates(updates).Error; err != nil {
		logger.Log.Errorw("update profile failed", "user_id", user.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}
	if err := database.Database.Db.First(user, user.ID).Error; err != nil {
		logger.Log.Errorw("reload profile failed", "user_id", user.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully!", user)
}

// GetDashboard summarises the caller's learning: enrollments with their
// courses, completed courses and courses started.
func GetDashboard(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	db := database.Database.Db

	var enrollments []courseModels.Enrollment
	if err := db.Where("user_id = ? AND status <> ?", user.ID, courseModels.StatusCancelled).
		Preload("Course").
		Order("enrolled_at desc").
		Find(&enrollments).Error; err != nil {
		logger.Log.Errorw("dashboard enrollments failed", "user_id", user.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch dashboard!", nil)
	}

	completed, inProgress := 0, 0
	for _, e := range enrollments {
		switch e.Status {
		case courseModels.StatusCompleted:
			completed++
		case courseModels.StatusInProgress:
			inProgress++
		}
	}

	var certificates int64
	if err := db.Model(&courseModels.Certificate{}).
		Joins("JOIN enrollments ON enrollments.id = certificates.enrollment_id").
		Where("enrollments.user_id = ?", user.ID).
		Count(&certificates).Error; err != nil {
		logger.Log.Errorw("dashboard certificates failed", "user_id", user.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch dashboard!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard fetched successfully!", fiber.Map{
		"user":              user,
		"enrollments":       enrollments,
		"completed_count":   completed,
		"in_progress_count": inProgress,
		"total_count":       completed + inProgress,
		"certificate_count": certificates,
	})
}
