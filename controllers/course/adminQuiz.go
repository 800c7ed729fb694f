package controllers

import (
	"errors"

	"futurebound/database"
	"futurebound/logger"
	"futurebound/middleware"
	courseModels "futurebound/models/course"
	"futurebound/services/quiz"
	courseValidator "futurebound/validators/course"
	"futurebound/validators/shared"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminCreateQuiz attaches the quiz to the module in :id. A module has at most one quiz.
func AdminCreateQuiz(c *fiber.Ctx) error {
	module, resp := findModule(c)
	if module == nil {
		return resp
	}
	reqData := c.Locals("validatedQuiz").(*courseValidator.QuizRequest)
	db := database.Database.Db

	var existing int64
	if err := db.Unscoped().Model(&courseModels.Quiz{}).Where("module_id = ?", module.ID).Count(&existing).Error; err != nil {
		logger.Log.Errorw("quiz lookup failed", "module_id", module.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quiz!", nil)
	}
	if existing > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "This module already has a quiz!", nil)
	}

	qz := courseModels.Quiz{
		ModuleID:         module.ID,
		Title:            reqData.Title,
		Description:      reqData.Description,
		TimeLimitMinutes: 30,
		PassingScore:     70,
		IsActive:         true,
	}
	if reqData.TimeLimitMinutes != nil {
		qz.TimeLimitMinutes = *reqData.TimeLimitMinutes
	}
	if reqData.PassingScore != nil {
		qz.PassingScore = *reqData.PassingScore
	}
	if reqData.IsActive != nil {
		qz.IsActive = *reqData.IsActive
	}

	if err := db.Create(&qz).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "This module already has a quiz!", nil)
		}
		logger.Log.Errorw("create quiz failed", "module_id", module.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quiz!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz created successfully!", qz)
}

func findQuiz(c *fiber.Ctx) (*courseModels.Quiz, error) {
	var qz courseModels.Quiz
	if err := database.Database.Db.First(&qz, shared.ID(c, "id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
		}
		logger.Log.Errorw("load quiz failed", "error", err)
		return nil, middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quiz!", nil)
	}
	return &qz, nil
}

func AdminAddQuestion(c *fiber.Ctx) error {
	qz, resp := findQuiz(c)
	if qz == nil {
		return resp
	}
	reqData := c.Locals("validatedQuestion").(*courseValidator.QuestionRequest)

	question := courseModels.QuizQuestion{
		QuizID:        qz.ID,
		QuestionText:  reqData.QuestionText,
		QuestionType:  reqData.QuestionType,
		Options:       quiz.EncodeOptions(reqData.Options),
		CorrectAnswer: reqData.CorrectAnswer,
		Explanation:   reqData.Explanation,
		Points:        1,
		OrderIndex:    reqData.OrderIndex,
	}
	if reqData.Points > 0 {
		question.Points = reqData.Points
	}

	if err := database.Database.Db.Create(&question).Error; err != nil {
		logger.Log.Errorw("create question failed", "quiz_id", qz.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add question!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Question added successfully!", question)
}

// AdminListQuestions lists a quiz's questions with their answers.
func AdminListQuestions(c *fiber.Ctx) error {
	qz, resp := findQuiz(c)
	if qz == nil {
		return resp
	}
	var questions []courseModels.QuizQuestion
	if err := database.Database.Db.Where("quiz_id = ?", qz.ID).Order("order_index asc, id asc").Find(&questions).Error; err != nil {
		logger.Log.Errorw("list questions failed", "quiz_id", qz.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch questions!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Questions fetched successfully!", fiber.Map{
		"quiz":      qz,
		"questions": questions,
	})
}
