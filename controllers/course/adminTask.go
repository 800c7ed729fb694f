package controllers

import (
	"errors"

	"futurebound/database"
	"futurebound/logger"
	"futurebound/middleware"
	courseModels "futurebound/models/course"
	courseValidator "futurebound/validators/course"
	"futurebound/validators/shared"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func findTask(c *fiber.Ctx) (*courseModels.Task, error) {
	var task courseModels.Task
	if err := database.Database.Db.First(&task, shared.ID(c, "id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Task not found!", nil)
		}
		logger.Log.Errorw("load task failed", "error", err)
		return nil, middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch task!", nil)
	}
	return &task, nil
}

// AdminCreateTask adds a task to the module in :id. Tasks do not count
// towards lesson progress.
func AdminCreateTask(c *fiber.Ctx) error {
	module, resp := findModule(c)
	if module == nil {
		return resp
	}
	reqData := c.Locals("validatedTask").(*courseValidator.TaskRequest)

	task := courseModels.Task{
		ModuleID:           module.ID,
		Title:              reqData.Title,
		Description:        reqData.Description,
		TaskType:           "reading",
		VideoURL:           reqData.VideoURL,
		TextContent:        reqData.TextContent,
		CodingInstructions: reqData.CodingInstructions,
		DurationMinutes:    reqData.DurationMinutes,
		OrderIndex:         reqData.OrderIndex,
		IsRequired:         true,
		IsActive:           true,
	}
	if reqData.TaskType != "" {
		task.TaskType = reqData.TaskType
	}
	if reqData.IsRequired != nil {
		task.IsRequired = *reqData.IsRequired
	}
	if reqData.IsActive != nil {
		task.IsActive = *reqData.IsActive
	}

	if err := database.Database.Db.Create(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "A task with this order already exists in the module!", nil)
		}
		logger.Log.Errorw("create task failed", "module_id", module.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create task!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Task created successfully!", task)
}

func AdminListTasks(c *fiber.Ctx) error {
	module, resp := findModule(c)
	if module == nil {
		return resp
	}
	var tasks []courseModels.Task
	if err := database.Database.Db.Where("module_id = ?", module.ID).Order("order_index asc").Find(&tasks).Error; err != nil {
		logger.Log.Errorw("list tasks failed", "module_id", module.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch tasks!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Tasks fetched successfully!", tasks)
}

func AdminUpdateTask(c *fiber.Ctx) error {
	task, resp := findTask(c)
	if task == nil {
		return resp
	}
	reqData := c.Locals("validatedTaskUpdate").(*courseValidator.UpdateTaskRequest)

	updates := map[string]interface{}{}
	if reqData.Title != nil {
		updates["title"] = *reqData.Title
	}
	if reqData.Description != nil {
		updates["description"] = *reqData.Description
	}
	if reqData.TaskType != nil {
		updates["task_type"] = *reqData.TaskType
	}
	if reqData.VideoURL != nil {
		updates["video_url"] = *reqData.VideoURL
	}
	if reqData.TextContent != nil {
		updates["text_content"] = *reqData.TextContent
	}
	if reqData.CodingInstructions != nil {
		updates["coding_instructions"] = *reqData.CodingInstructions
	}
	if reqData.DurationMinutes != nil {
		updates["duration_minutes"] = *reqData.DurationMinutes
	}
	if reqData.OrderIndex != nil {
		updates["order_index"] = *reqData.OrderIndex
	}
	if reqData.IsRequired != nil {
		updates["is_required"] = *reqData.IsRequired
	}
	if reqData.IsActive != nil {
		updates["is_active"] = *reqData.IsActive
	}
	if len(updates) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Nothing to update!", nil)
	}

	db := database.Database.Db
	if err := db.Model(task).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "A task with this order already exists in the module!", nil)
		}
		logger.Log.Errorw("update task failed", "task_id", task.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update task!", nil)
	}
	if err := db.First(task, task.ID).Error; err != nil {
		logger.Log.Errorw("reload task failed", "task_id", task.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update task!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Task updated successfully!", task)
}

func AdminDeleteTask(c *fiber.Ctx) error {
	task, resp := findTask(c)
	if task == nil {
		return resp
	}
	if err := database.Database.Db.Unscoped().Delete(task).Error; err != nil {
		logger.Log.Errorw("delete task failed", "task_id", task.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete task!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Task deleted successfully!", nil)
}
