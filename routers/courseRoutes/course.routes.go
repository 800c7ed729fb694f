package courseRoutes

import (
	controllers "futurebound/controllers/course"
	"futurebound/middleware"
	validators "futurebound/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up the public catalogue and the learner routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Catalogue (static paths before /:id)
	courseGroup.Get("/list", validators.ListCourses(), controllers.GetAllCourses)
	courseGroup.Get("/categories", controllers.GetCategories)
	courseGroup.Get("/featured", controllers.GetFeaturedCourses)
	courseGroup.Get("/:id", middleware.OptionalJWT, validators.CourseID(), controllers.GetCourseDetails)
	courseGroup.Get("/:id/reviews", validators.CourseID(), validators.ListReviews(), controllers.GetCourseReviews)

	// Enrollment and reviews
	courseGroup.Post("/:id/enroll", middleware.JWTMiddleware, middleware.RequireActiveUser, validators.EnrollCourse(), controllers.EnrollInCourse)
	courseGroup.Post("/:id/review", middleware.JWTMiddleware, middleware.RequireActiveUser, validators.CourseID(), validators.UpsertReview(), controllers.UpsertReview)
}

// SetupEnrollmentRoutes sets up progress tracking for the caller's enrollments
func SetupEnrollmentRoutes(app *fiber.App) {
	enrollmentGroup := app.Group("/enrollment", middleware.JWTMiddleware, middleware.RequireActiveUser)

	enrollmentGroup.Get("/list", validators.GetUserEnrollments(), controllers.GetEnrollments)
	enrollmentGroup.Get("/:enrollment_id/progress", validators.EnrollmentID(), controllers.GetEnrollmentProgress)

	// Lessons
	enrollmentGroup.Get("/:enrollment_id/lesson/:lesson_id", validators.EnrollmentLesson(), controllers.GetLesson)
	enrollmentGroup.Post("/:enrollment_id/lesson/:lesson_id/complete", validators.EnrollmentLesson(), controllers.MarkLessonComplete)

	// Quizzes
	enrollmentGroup.Get("/:enrollment_id/module/:module_id/quiz", validators.EnrollmentModule(), controllers.GetModuleQuiz)
	enrollmentGroup.Post("/:enrollment_id/module/:module_id/quiz/submit", validators.EnrollmentModule(), validators.SubmitQuiz(), controllers.SubmitModuleQuiz)

	// Certificate
	enrollmentGroup.Post("/:enrollment_id/certificate", validators.EnrollmentID(), controllers.IssueCertificate)
}
