package controllers

import (
	"errors"

	"futurebound/database"
	"futurebound/logger"
	"futurebound/middleware"
	courseModels "futurebound/models/course"
	"futurebound/services/progress"
	courseValidator "futurebound/validators/course"
	"futurebound/validators/shared"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// reconcileAfterContentChange refreshes in-flight enrollments of a course
// whose lesson set changed. Failures are logged; the nightly job retries.
func reconcileAfterContentChange(courseID uint) {
	drifted, err := progress.ReconcileCourse(database.Database.Db, courseID)
	if err != nil {
		logger.Log.Errorw("reconcile after content change failed", "course_id", courseID, "error", err)
		return
	}
	if drifted > 0 {
		logger.Log.Infow("enrollments refreshed after content change", "course_id", courseID, "count", drifted)
	}
}

func findModule(c *fiber.Ctx) (*courseModels.Module, error) {
	var module courseModels.Module
	if err := database.Database.Db.First(&module, shared.ID(c, "id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
		}
		logger.Log.Errorw("load module failed", "error", err)
		return nil, middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch module!", nil)
	}
	return &module, nil
}

func findLesson(c *fiber.Ctx) (*courseModels.Lesson, *courseModels.Module, error) {
	db := database.Database.Db
	var lesson courseModels.Lesson
	if err := db.First(&lesson, shared.ID(c, "id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
		}
		logger.Log.Errorw("load lesson failed", "error", err)
		return nil, nil, middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch lesson!", nil)
	}
	var module courseModels.Module
	if err := db.First(&module, lesson.ModuleID).Error; err != nil {
		logger.Log.Errorw("load lesson module failed", "lesson_id", lesson.ID, "error", err)
		return nil, nil, middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch lesson!", nil)
	}
	return &lesson, &module, nil
}

// ============ Modules ============

// AdminCreateModule adds a module to the course in :id
func AdminCreateModule(c *fiber.Ctx) error {
	course, resp := findCourse(c)
	if course == nil {
		return resp
	}
	reqData := c.Locals("validatedModule").(*courseValidator.ModuleRequest)

	module := courseModels.Module{
		CourseID:    course.ID,
		Title:       reqData.Title,
		Description: reqData.Description,
		OrderIndex:  reqData.OrderIndex,
		IsActive:    true,
	}
	if reqData.IsActive != nil {
		module.IsActive = *reqData.IsActive
	}

	if err := database.Database.Db.Create(&module).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "A module with this order already exists in the course!", nil)
		}
		logger.Log.Errorw("create module failed", "course_id", course.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create module!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module created successfully!", module)
}

func AdminUpdateModule(c *fiber.Ctx) error {
	module, resp := findModule(c)
	if module == nil {
		return resp
	}
	reqData := c.Locals("validatedModuleUpdate").(*courseValidator.UpdateModuleRequest)

	updates := map[string]interface{}{}
	if reqData.Title != nil {
		updates["title"] = *reqData.Title
	}
	if reqData.Description != nil {
		updates["description"] = *reqData.Description
	}
	if reqData.OrderIndex != nil {
		updates["order_index"] = *reqData.OrderIndex
	}
	if reqData.IsActive != nil {
		updates["is_active"] = *reqData.IsActive
	}
	if len(updates) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Nothing to update!", nil)
	}

	db := database.Database.Db
	if err := db.Model(module).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "A module with this order already exists in the course!", nil)
		}
		logger.Log.Errorw("update module failed", "module_id", module.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update module!", nil)
	}
	if err := db.First(module, module.ID).Error; err != nil {
		logger.Log.Errorw("reload module failed", "module_id", module.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update module!", nil)
	}
	if reqData.IsActive != nil {
		reconcileAfterContentChange(module.CourseID)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module updated successfully!", module)
}

func AdminDeleteModule(c *fiber.Ctx) error {
	module, resp := findModule(c)
	if module == nil {
		return resp
	}
	if err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		return deleteModules(tx, []uint{module.ID})
	}); err != nil {
		logger.Log.Errorw("delete module failed", "module_id", module.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete module!", nil)
	}
	reconcileAfterContentChange(module.CourseID)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module deleted successfully!", nil)
}

// AdminListModules lists every module of the course in :id with its lessons and tasks.
func AdminListModules(c *fiber.Ctx) error {
	var modules []courseModels.Module
	if err := database.Database.Db.Where("course_id = ?", shared.ID(c, "id")).
		Preload("Lessons", func(tx *gorm.DB) *gorm.DB { return tx.Order("order_index asc") }).
		Preload("Tasks", func(tx *gorm.DB) *gorm.DB { return tx.Order("order_index asc") }).
		Order("order_index asc").
		Find(&modules).Error; err != nil {
		logger.Log.Errorw("list modules failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch modules!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Modules fetched successfully!", modules)
}

// ============ Lessons ============

// AdminCreateLesson adds a lesson to the module in :id
func AdminCreateLesson(c *fiber.Ctx) error {
	module, resp := findModule(c)
	if module == nil {
		return resp
	}
	reqData := c.Locals("validatedLesson").(*courseValidator.LessonRequest)

	lesson := courseModels.Lesson{
		ModuleID:        module.ID,
		Title:           reqData.Title,
		Description:     reqData.Description,
		ContentType:     "video",
		VideoURL:        reqData.VideoURL,
		TextContent:     reqData.TextContent,
		DurationMinutes: reqData.DurationMinutes,
		OrderIndex:      reqData.OrderIndex,
		IsPreview:       reqData.IsPreview,
		IsActive:        true,
	}
	if reqData.ContentType != "" {
		lesson.ContentType = reqData.ContentType
	}
	if reqData.IsActive != nil {
		lesson.IsActive = *reqData.IsActive
	}

	if err := database.Database.Db.Create(&lesson).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "A lesson with this order already exists in the module!", nil)
		}
		logger.Log.Errorw("create lesson failed", "module_id", module.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create lesson!", nil)
	}
	if lesson.IsActive && module.IsActive {
		reconcileAfterContentChange(module.CourseID)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson created successfully!", lesson)
}

func AdminUpdateLesson(c *fiber.Ctx) error {
	lesson, module, resp := findLesson(c)
	if lesson == nil {
		return resp
	}
	reqData := c.Locals("validatedLessonUpdate").(*courseValidator.UpdateLessonRequest)

	updates := map[string]interface{}{}
	if reqData.Title != nil {
		updates["title"] = *reqData.Title
	}
	if reqData.Description != nil {
		updates["description"] = *reqData.Description
	}
	if reqData.ContentType != nil {
		updates["content_type"] = *reqData.ContentType
	}
	if reqData.VideoURL != nil {
		updates["video_url"] = *reqData.VideoURL
	}
	if reqData.TextContent != nil {
		updates["text_content"] = *reqData.TextContent
	}
	if reqData.DurationMinutes != nil {
		updates["duration_minutes"] = *reqData.DurationMinutes
	}
	if reqData.OrderIndex != nil {
		updates["order_index"] = *reqData.OrderIndex
	}
	if reqData.IsPreview != nil {
		updates["is_preview"] = *reqData.IsPreview
	}
	if reqData.IsActive != nil {
		updates["is_active"] = *reqData.IsActive
	}
	if len(updates) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Nothing to update!", nil)
	}

	db := database.Database.Db
	if err := db.Model(lesson).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "A lesson with this order already exists in the module!", nil)
		}
		logger.Log.Errorw("update lesson failed", "lesson_id", lesson.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update lesson!", nil)
	}
	if err := db.First(lesson, lesson.ID).Error; err != nil {
		logger.Log.Errorw("reload lesson failed", "lesson_id", lesson.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update lesson!", nil)
	}
	if reqData.IsActive != nil {
		reconcileAfterContentChange(module.CourseID)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson updated successfully!", lesson)
}

func AdminDeleteLesson(c *fiber.Ctx) error {
	lesson, module, resp := findLesson(c)
	if lesson == nil {
		return resp
	}
	if err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		return deleteLessons(tx, []uint{lesson.ID})
	}); err != nil {
		logger.Log.Errorw("delete lesson failed", "lesson_id", lesson.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete lesson!", nil)
	}
	reconcileAfterContentChange(module.CourseID)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson deleted successfully!", nil)
}
