package controllers

import (
	"errors"
	"strings"

	"futurebound/database"
	"futurebound/logger"
	"futurebound/middleware"
	courseModels "futurebound/models/course"
	courseValidator "futurebound/validators/course"
	"futurebound/validators/shared"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const catalogPageSize = 12

// GetAllCourses lists active courses with optional category, level and search filters.
func GetAllCourses(c *fiber.Ctx) error {
	reqData := c.Locals("validatedCourseList").(*courseValidator.CourseListQuery)
	page, limit, offset := reqData.Offset(catalogPageSize)

	db := database.Database.Db.Model(&courseModels.Course{}).Where("is_active = ?", true)
	if reqData.Category != "" {
		db = db.Where("category = ?", reqData.Category)
	}
	if reqData.Level != "" {
		db = db.Where("level = ?", reqData.Level)
	}
	if reqData.Search != "" {
		like := "%" + strings.ToLower(reqData.Search) + "%"
		db = db.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(instructor) LIKE ?", like, like, like)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		logger.Log.Errorw("count courses failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	var courses []courseModels.Course
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&courses).Error; err != nil {
		logger.Log.Errorw("list courses failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses":    courses,
		"pagination": middleware.PageMeta(total, page, limit),
	})
}

func GetCategories(c *fiber.Ctx) error {
	type category struct {
		Name  string `json:"name"`
		Count int64  `json:"count"`
	}
	var counts []category
	err := database.Database.Db.Model(&courseModels.Course{}).
		Select("category AS name, COUNT(*) AS count").
		Where("is_active = ?", true).
		Group("category").
		Scan(&counts).Error
	if err != nil {
		logger.Log.Errorw("count categories failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch categories!", nil)
	}

	byName := make(map[string]int64, len(counts))
	for _, row := range counts {
		byName[row.Name] = row.Count
	}
	categories := make([]category, 0, len(courseModels.Categories))
	for _, name := range courseModels.Categories {
		categories = append(categories, category{Name: name, Count: byName[name]})
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Categories fetched successfully!", categories)
}

// GetFeaturedCourses returns the six most recent active courses.
func GetFeaturedCourses(c *fiber.Ctx) error {
	var courses []courseModels.Course
	if err := database.Database.Db.Where("is_active = ?", true).Order("created_at desc").Limit(6).Find(&courses).Error; err != nil {
		logger.Log.Errorw("featured courses failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Featured courses fetched successfully!", courses)
}

// preloadActiveContent loads a course's active modules and their active lessons in order.
func preloadActiveContent(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Modules", func(tx *gorm.DB) *gorm.DB {
			return tx.Where("is_active = ?", true).Order("order_index asc")
		}).
		Preload("Modules.Lessons", func(tx *gorm.DB) *gorm.DB {
			return tx.Where("is_active = ?", true).Order("order_index asc")
		})
}

// GetCourseDetails returns an active course with its syllabus, ratings and,
// for an authenticated caller, their enrollment. Lesson content is hidden
// from callers without a live enrollment unless the lesson is a preview.
func GetCourseDetails(c *fiber.Ctx) error {
	courseID := shared.ID(c, "id")
	db := database.Database.Db

	var course courseModels.Course
	if err := preloadActiveContent(db).Where("id = ? AND is_active = ?", courseID, true).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		}
		logger.Log.Errorw("course detail failed", "course_id", courseID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
	}

	var enrollment *courseModels.Enrollment
	if userID, ok := middleware.UserID(c); ok {
		var e courseModels.Enrollment
		if err := db.Where("user_id = ? AND course_id = ?", userID, course.ID).First(&e).Error; err == nil {
			enrollment = &e
		}
	}

	unlocked := enrollment != nil && enrollment.Status != courseModels.StatusCancelled
	totalLessons := 0
	for mi := range course.Modules {
		for li := range course.Modules[mi].Lessons {
			totalLessons++
			l := &course.Modules[mi].Lessons[li]
			if !unlocked && !l.IsPreview {
				l.VideoURL = ""
				l.TextContent = ""
			}
		}
	}

	rating, err := ratingSummary(db, course.ID)
	if err != nil {
		logger.Log.Errorw("rating summary failed", "course_id", course.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
	}
	reviews, err := recentReviews(db, course.ID, 0, 5)
	if err != nil {
		logger.Log.Errorw("recent reviews failed", "course_id", course.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", fiber.Map{
		"course":        course,
		"total_lessons": totalLessons,
		"rating":        rating,
		"reviews":       reviews,
		"enrollment":    enrollment,
		"is_enrolled":   enrollment != nil,
	})
}
