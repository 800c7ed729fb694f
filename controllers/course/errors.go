package controllers

import (
	"errors"

	"futurebound/logger"
	"futurebound/middleware"
	"futurebound/services/certificate"
	"futurebound/services/progress"
	"futurebound/services/quiz"

	"github.com/gofiber/fiber/v2"
)

// respondError maps service errors onto the JSON envelope. Unknown errors
// are logged and reported as 500 with the given fallback message.
func respondError(c *fiber.Ctx, err error, fallback string, data interface{}) error {
	switch {
	case errors.Is(err, progress.ErrNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment or lesson not found!", nil)
	case errors.Is(err, progress.ErrCourseNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not active!", nil)
	case errors.Is(err, progress.ErrAlreadyEnrolled):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already enrolled in this course!", nil)
	case errors.Is(err, progress.ErrPrerequisiteIncomplete):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Complete the previous lessons of this module first!", data)
	case errors.Is(err, progress.ErrEnrollmentCancelled):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "This enrollment has been cancelled!", data)
	case errors.Is(err, quiz.ErrQuizNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found for this module!", nil)
	case errors.Is(err, quiz.ErrNoQuestions):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "This quiz has no questions yet!", nil)
	case errors.Is(err, certificate.ErrNotCompleted):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Complete the course to receive a certificate!", nil)
	}
	logger.Log.Errorw(fallback, "path", c.Path(), "error", err)
	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, fallback, nil)
}
