package controllers

import (
	"errors"
	"fmt"
	"strings"

	"futurebound/database"
	"futurebound/logger"
	"futurebound/middleware"
	courseModels "futurebound/models/course"
	"futurebound/utils"
	courseValidator "futurebound/validators/course"
	"futurebound/validators/shared"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// uniqueSlug derives a free slug from base, suffixing -2, -3... on collision.
func uniqueSlug(db *gorm.DB, base string, excludeID uint) (string, error) {
	base = utils.Slugify(base)
	if base == "" {
		base = "course"
	}
	slug := base
	for n := 2; ; n++ {
		var count int64
		if err := db.Unscoped().Model(&courseModels.Course{}).Where("slug = ? AND id <> ?", slug, excludeID).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, n)
	}
}

func findCourse(c *fiber.Ctx) (*courseModels.Course, error) {
	var course courseModels.Course
	if err := database.Database.Db.First(&course, shared.ID(c, "id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		}
		logger.Log.Errorw("load course failed", "course_id", shared.ID(c, "id"), "error", err)
		return nil, middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
	}
	return &course, nil
}

// AdminCreateCourse creates a new course
func AdminCreateCourse(c *fiber.Ctx) error {
	reqData := c.Locals("validatedCourse").(*courseValidator.CreateCourseRequest)
	db := database.Database.Db

	slugBase := reqData.Slug
	if slugBase == "" {
		slugBase = reqData.Title
	}
	slug, err := uniqueSlug(db, slugBase, 0)
	if err != nil {
		logger.Log.Errorw("slug lookup failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	course := courseModels.Course{
		Title:              reqData.Title,
		Slug:               slug,
		Description:        reqData.Description,
		ShortDescription:   reqData.ShortDescription,
		ThumbnailURL:       reqData.ThumbnailURL,
		CoverImageURL:      reqData.CoverImageURL,
		CourseType:         courseModels.TypeFree,
		Price:              decimal.NewFromFloat(reqData.Price).Round(2),
		Category:           "knowledge",
		Level:              "beginner",
		DurationHours:      reqData.DurationHours,
		Instructor:         reqData.Instructor,
		Prerequisites:      reqData.Prerequisites,
		LearningObjectives: reqData.LearningObjectives,
		IsActive:           true,
	}
	if reqData.CourseType != "" {
		course.CourseType = reqData.CourseType
	}
	if reqData.Category != "" {
		course.Category = reqData.Category
	}
	if reqData.Level != "" {
		course.Level = reqData.Level
	}
	if reqData.IsActive != nil {
		course.IsActive = *reqData.IsActive
	}
	if course.IsFree() {
		course.Price = decimal.Zero
	}

	if err := db.Create(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "A course with this slug already exists!", nil)
		}
		logger.Log.Errorw("create course failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}
	logger.Log.Infow("course created", "course_id", course.ID, "slug", course.Slug)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// AdminUpdateCourse updates an existing course
func AdminUpdateCourse(c *fiber.Ctx) error {
	course, resp := findCourse(c)
	if course == nil {
		return resp
	}
	reqData := c.Locals("validatedCourseUpdate").(*courseValidator.UpdateCourseRequest)
	db := database.Database.Db

	updates := map[string]interface{}{}
	if reqData.Title != nil {
		updates["title"] = *reqData.Title
	}
	if reqData.Slug != nil {
		slug, err := uniqueSlug(db, *reqData.Slug, course.ID)
		if err != nil {
			logger.Log.Errorw("slug lookup failed", "error", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
		}
		updates["slug"] = slug
	}
	if reqData.Description != nil {
		updates["description"] = *reqData.Description
	}
	if reqData.ShortDescription != nil {
		updates["short_description"] = *reqData.ShortDescription
	}
	if reqData.ThumbnailURL != nil {
		updates["thumbnail_url"] = *reqData.ThumbnailURL
	}
	if reqData.CoverImageURL != nil {
		updates["cover_image_url"] = *reqData.CoverImageURL
	}
	if reqData.CourseType != nil {
		updates["course_type"] = *reqData.CourseType
		if *reqData.CourseType == courseModels.TypeFree {
			updates["price"] = decimal.Zero
		}
	}
	if reqData.Price != nil {
		if _, free := updates["price"]; !free {
			updates["price"] = decimal.NewFromFloat(*reqData.Price).Round(2)
		}
	}
	if reqData.Category != nil {
		updates["category"] = *reqData.Category
	}
	if reqData.Level != nil {
		updates["level"] = *reqData.Level
	}
	if reqData.DurationHours != nil {
		updates["duration_hours"] = *reqData.DurationHours
	}
	if reqData.Instructor != nil {
		updates["instructor"] = *reqData.Instructor
	}
	if reqData.Prerequisites != nil {
		updates["prerequisites"] = *reqData.Prerequisites
	}
	if reqData.LearningObjectives != nil {
		updates["learning_objectives"] = *reqData.LearningObjectives
	}
	if reqData.IsActive != nil {
		updates["is_active"] = *reqData.IsActive
	}
	if len(updates) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Nothing to update!", nil)
	}

	if err := db.Model(course).Updates(updates).Error; err != nil {
		logger.Log.Errorw("update course failed", "course_id", course.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}
	if err := db.First(course, course.ID).Error; err != nil {
		logger.Log.Errorw("reload course failed", "course_id", course.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// AdminDeleteCourse deletes a course with its modules, lessons, quizzes,
// enrollments and reviews.
func AdminDeleteCourse(c *fiber.Ctx) error {
	course, resp := findCourse(c)
	if course == nil {
		return resp
	}

	if err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		return deleteCourse(tx, course.ID)
	}); err != nil {
		logger.Log.Errorw("delete course failed", "course_id", course.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}
	logger.Log.Infow("course deleted", "course_id", course.ID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

// AdminGetAllCourses lists every course, active or not.
func AdminGetAllCourses(c *fiber.Ctx) error {
	reqData := c.Locals("validatedCourseList").(*courseValidator.AdminCourseListQuery)
	page, limit, offset := reqData.Offset(20)

	db := database.Database.Db.Model(&courseModels.Course{})
	if reqData.Search != "" {
		like := "%" + strings.ToLower(reqData.Search) + "%"
		db = db.Where("LOWER(title) LIKE ? OR LOWER(instructor) LIKE ?", like, like)
	}
	if reqData.Category != "" {
		db = db.Where("category = ?", reqData.Category)
	}
	if reqData.Active != "" {
		db = db.Where("is_active = ?", reqData.Active == "true")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		logger.Log.Errorw("count courses failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	type courseRow struct {
		courseModels.Course
		EnrollmentCount int64 `json:"enrollment_count"`
	}
	var courses []courseRow
	if err := db.Select("courses.*, (SELECT COUNT(*) FROM enrollments WHERE enrollments.course_id = courses.id AND enrollments.deleted_at IS NULL) AS enrollment_count").
		Order("created_at desc").
		Offset(offset).Limit(limit).
		Scan(&courses).Error; err != nil {
		logger.Log.Errorw("list courses failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses":    courses,
		"pagination": middleware.PageMeta(total, page, limit),
	})
}

// AdminGetCourseDetails returns a course with all modules and lessons,
// including inactive ones, plus lesson and enrollment counts.
func AdminGetCourseDetails(c *fiber.Ctx) error {
	db := database.Database.Db
	var course courseModels.Course
	err := db.
		Preload("Modules", func(tx *gorm.DB) *gorm.DB { return tx.Order("order_index asc") }).
		Preload("Modules.Lessons", func(tx *gorm.DB) *gorm.DB { return tx.Order("order_index asc") }).
		Preload("Modules.Tasks", func(tx *gorm.DB) *gorm.DB { return tx.Order("order_index asc") }).
		First(&course, shared.ID(c, "id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		}
		logger.Log.Errorw("course detail failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
	}

	lessonCounts := make(map[uint]int, len(course.Modules))
	for _, m := range course.Modules {
		lessonCounts[m.ID] = len(m.Lessons)
	}

	type statusCount struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	var enrollments []statusCount
	if err := db.Model(&courseModels.Enrollment{}).
		Select("status, COUNT(*) AS count").
		Where("course_id = ?", course.ID).
		Group("status").
		Scan(&enrollments).Error; err != nil {
		logger.Log.Errorw("enrollment counts failed", "course_id", course.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
	}
	var enrollmentCount int64
	for _, s := range enrollments {
		enrollmentCount += s.Count
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", fiber.Map{
		"course":                course,
		"lesson_counts":         lessonCounts,
		"enrollment_count":      enrollmentCount,
		"enrollments_by_status": enrollments,
	})
}

// AdminToggleCourse flips a course between active and inactive.
func AdminToggleCourse(c *fiber.Ctx) error {
	course, resp := findCourse(c)
	if course == nil {
		return resp
	}
	course.IsActive = !course.IsActive
	if err := database.Database.Db.Model(course).Update("is_active", course.IsActive).Error; err != nil {
		logger.Log.Errorw("toggle course failed", "course_id", course.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	message := "Course deactivated successfully!"
	if course.IsActive {
		message = "Course activated successfully!"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, course)
}
