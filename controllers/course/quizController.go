package controllers

import (
	"futurebound/database"
	"futurebound/middleware"
	"futurebound/services/quiz"
	courseValidator "futurebound/validators/course"
	"futurebound/validators/shared"

	"github.com/gofiber/fiber/v2"
)

type learnerQuestion struct {
	ID           uint     `json:"id"`
	QuestionText string   `json:"question_text"`
	QuestionType string   `json:"question_type"`
	Options      []string `json:"options"`
	Points       uint     `json:"points"`
}

// GetModuleQuiz returns a module quiz without answers.
func GetModuleQuiz(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	_, qz, err := quiz.ForEnrollment(database.Database.Db, userID, shared.ID(c, "enrollment_id"), shared.ID(c, "module_id"))
	if err != nil {
		return respondError(c, err, "Failed to fetch quiz!", nil)
	}

	questions := make([]learnerQuestion, 0, len(qz.Questions))
	for i := range qz.Questions {
		q := &qz.Questions[i]
		questions = append(questions, learnerQuestion{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			QuestionType: q.QuestionType,
			Options:      quiz.Options(q),
			Points:       q.Points,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully!", fiber.Map{
		"id":                 qz.ID,
		"module_id":          qz.ModuleID,
		"title":              qz.Title,
		"description":        qz.Description,
		"time_limit_minutes": qz.TimeLimitMinutes,
		"passing_score":      qz.PassingScore,
		"questions":          questions,
	})
}

func SubmitModuleQuiz(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	reqData := c.Locals("validatedQuizSubmission").(*courseValidator.QuizSubmission)

	attempt, result, err := quiz.Submit(database.Database.Db, userID, shared.ID(c, "enrollment_id"), shared.ID(c, "module_id"), reqData.Normalized())
	if err != nil {
		return respondError(c, err, "Failed to submit quiz!", nil)
	}

	message := "Quiz submitted. Keep practicing!"
	if result.Passed {
		message = "Quiz passed!"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, fiber.Map{
		"attempt": attempt,
		"result":  result,
	})
}
