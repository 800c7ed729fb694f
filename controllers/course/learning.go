package controllers

import (
	"errors"

	"futurebound/database"
	"futurebound/middleware"
	courseModels "futurebound/models/course"
	"futurebound/services/progress"
	"futurebound/validators/shared"

	"github.com/gofiber/fiber/v2"
)

type moduleProgress struct {
	ModuleID    uint `json:"module_id"`
	Completed   int  `json:"completed"`
	Total       int  `json:"total"`
	IsCompleted bool `json:"is_completed"`
	HasQuiz     bool `json:"has_quiz"`
	QuizPassed  bool `json:"quiz_passed"`
}

// GetEnrollmentProgress reconciles the enrollment and returns the syllabus
// with the caller's ledger rows and per-module completion.
func GetEnrollmentProgress(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	enrollmentID := shared.ID(c, "enrollment_id")
	db := database.Database.Db

	enrollment, err := progress.Refresh(db, userID, enrollmentID)
	if err != nil {
		return respondError(c, err, "Failed to fetch progress!", nil)
	}

	var course courseModels.Course
	if err := preloadActiveContent(db).First(&course, enrollment.CourseID).Error; err != nil {
		return respondError(c, err, "Failed to fetch progress!", nil)
	}
	enrollment.Course = &course

	var rows []courseModels.Progress
	if err := db.Where("enrollment_id = ?", enrollment.ID).Find(&rows).Error; err != nil {
		return respondError(c, err, "Failed to fetch progress!", nil)
	}
	done := make(map[uint]bool, len(rows))
	for _, p := range rows {
		if p.IsCompleted {
			done[p.LessonID] = true
		}
	}

	moduleIDs := make([]uint, 0, len(course.Modules))
	for _, m := range course.Modules {
		moduleIDs = append(moduleIDs, m.ID)
	}
	var quizzes []courseModels.Quiz
	if err := db.Where("module_id IN ? AND is_active = ?", moduleIDs, true).Find(&quizzes).Error; err != nil {
		return respondError(c, err, "Failed to fetch progress!", nil)
	}
	quizByModule := make(map[uint]uint, len(quizzes))
	quizIDs := make([]uint, 0, len(quizzes))
	for _, q := range quizzes {
		quizByModule[q.ModuleID] = q.ID
		quizIDs = append(quizIDs, q.ID)
	}
	var passedQuizIDs []uint
	if len(quizIDs) > 0 {
		if err := db.Model(&courseModels.QuizAttempt{}).
			Where("enrollment_id = ? AND quiz_id IN ? AND passed = ?", enrollment.ID, quizIDs, true).
			Distinct().Pluck("quiz_id", &passedQuizIDs).Error; err != nil {
			return respondError(c, err, "Failed to fetch progress!", nil)
		}
	}
	passed := make(map[uint]bool, len(passedQuizIDs))
	for _, id := range passedQuizIDs {
		passed[id] = true
	}

	modules := make([]moduleProgress, 0, len(course.Modules))
	for _, m := range course.Modules {
		mp := moduleProgress{ModuleID: m.ID, Total: len(m.Lessons)}
		for _, l := range m.Lessons {
			if done[l.ID] {
				mp.Completed++
			}
		}
		mp.IsCompleted = mp.Completed == mp.Total
		if quizID, ok := quizByModule[m.ID]; ok {
			mp.HasQuiz = true
			mp.QuizPassed = passed[quizID]
		}
		modules = append(modules, mp)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"enrollment": enrollment,
		"progress":   rows,
		"modules":    modules,
	})
}

// GetLesson opens a lesson for the caller's enrollment and records the access.
func GetLesson(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	enrollmentID := shared.ID(c, "enrollment_id")
	lessonID := shared.ID(c, "lesson_id")
	db := database.Database.Db

	enrollment, lesson, row, err := progress.OpenLesson(db, userID, enrollmentID, lessonID)
	if err != nil {
		return respondError(c, err, "Failed to open lesson!", nil)
	}
	nav, err := progress.Navigate(db, enrollment.CourseID, lesson)
	if err != nil {
		return respondError(c, err, "Failed to open lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson fetched successfully!", fiber.Map{
		"enrollment": enrollment,
		"lesson":     lesson,
		"progress":   row,
		"navigation": nav,
	})
}

// MarkLessonComplete records completion of a lesson for the caller's enrollment.
func MarkLessonComplete(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	enrollmentID := shared.ID(c, "enrollment_id")
	lessonID := shared.ID(c, "lesson_id")

	out, err := progress.MarkLessonComplete(database.Database.Db, userID, enrollmentID, lessonID)
	if err != nil {
		var data interface{}
		if errors.Is(err, progress.ErrPrerequisiteIncomplete) && out != nil {
			data = fiber.Map{
				"progress_percentage": out.Enrollment.ProgressPercentage,
				"status":              out.Enrollment.Status,
			}
		}
		return respondError(c, err, "Failed to mark lesson complete!", data)
	}

	message := "Lesson marked as completed!"
	if !out.Changed {
		message = "Lesson already completed!"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, out)
}
