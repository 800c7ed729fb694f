package controllers

import (
	"futurebound/database"
	"futurebound/logger"
	"futurebound/middleware"
	courseModels "futurebound/models/course"
	"futurebound/services/progress"
	"futurebound/utils"
	courseValidator "futurebound/validators/course"
	"futurebound/validators/shared"

	"github.com/gofiber/fiber/v2"
)

func EnrollInCourse(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := shared.ID(c, "id")

	enrollment, err := progress.CreateEnrollment(database.Database.Db, user.ID, courseID)
	if err != nil {
		return respondError(c, err, "Failed to enroll in course!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Select("id", "title").First(&course, courseID).Error; err == nil {
		utils.SendEnrollmentEmail(user.Email, user.Name, course.Title)
		enrollment.Course = &course
	}
	logger.Log.Infow("user enrolled", "user_id", user.ID, "course_id", courseID, "enrollment_id", enrollment.ID)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrolled in course successfully!", enrollment)
}

func GetEnrollments(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	reqData := c.Locals("validatedEnrollmentList").(*courseValidator.EnrollmentListQuery)
	page, limit, offset := reqData.Offset(10)

	db := database.Database.Db.Model(&courseModels.Enrollment{}).Where("user_id = ?", userID)
	if reqData.Status != "" {
		db = db.Where("status = ?", reqData.Status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return respondError(c, err, "Failed to fetch enrollments!", nil)
	}

	var enrollments []courseModels.Enrollment
	if err := db.Preload("Course").Order("enrolled_at desc").Offset(offset).Limit(limit).Find(&enrollments).Error; err != nil {
		return respondError(c, err, "Failed to fetch enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": enrollments,
		"pagination":  middleware.PageMeta(total, page, limit),
	})
}
