package courseRoutes

import (
	controllers "futurebound/controllers/course"
	validators "futurebound/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes registers course management on an admin-only router
func SetupAdminCourseRoutes(admin fiber.Router) {
	// Course CRUD
	admin.Post("/course/create", validators.CreateCourseAdmin(), controllers.AdminCreateCourse)
	admin.Get("/course/list", validators.ListCoursesAdmin(), controllers.AdminGetAllCourses)
	admin.Get("/course/:id", validators.CourseID(), controllers.AdminGetCourseDetails)
	admin.Put("/course/:id", validators.CourseID(), validators.UpdateCourseAdmin(), controllers.AdminUpdateCourse)
	admin.Delete("/course/:id", validators.CourseID(), controllers.AdminDeleteCourse)
	admin.Patch("/course/:id/toggle", validators.CourseID(), controllers.AdminToggleCourse)

	// Module Management
	admin.Post("/course/:id/module", validators.CourseID(), validators.CreateModule(), controllers.AdminCreateModule)
	admin.Get("/course/:id/modules", validators.CourseID(), controllers.AdminListModules)
	admin.Put("/module/:id", validators.ID(), validators.UpdateModule(), controllers.AdminUpdateModule)
	admin.Delete("/module/:id", validators.ID(), controllers.AdminDeleteModule)

	// Lesson Management
	admin.Post("/module/:id/lesson", validators.ID(), validators.CreateLesson(), controllers.AdminCreateLesson)
	admin.Put("/lesson/:id", validators.ID(), validators.UpdateLesson(), controllers.AdminUpdateLesson)
	admin.Delete("/lesson/:id", validators.ID(), controllers.AdminDeleteLesson)

	// Task Management
	admin.Post("/module/:id/task", validators.ID(), validators.CreateTask(), controllers.AdminCreateTask)
	admin.Get("/module/:id/tasks", validators.ID(), controllers.AdminListTasks)
	admin.Put("/task/:id", validators.ID(), validators.UpdateTask(), controllers.AdminUpdateTask)
	admin.Delete("/task/:id", validators.ID(), controllers.AdminDeleteTask)

	// Quiz Management
	admin.Post("/module/:id/quiz", validators.ID(), validators.CreateQuiz(), controllers.AdminCreateQuiz)
	admin.Post("/quiz/:id/question", validators.ID(), validators.CreateQuestion(), controllers.AdminAddQuestion)
	admin.Get("/quiz/:id/questions", validators.ID(), controllers.AdminListQuestions)

	// Enrollments
	admin.Get("/course/:id/enrollments", validators.CourseID(), validators.ListCourseEnrollments(), controllers.AdminGetCourseEnrollments)
	admin.Post("/enrollment/:id/cancel", validators.ID(), controllers.AdminCancelEnrollment)
	admin.Post("/enrollments/reconcile", controllers.AdminReconcileEnrollments)
	admin.Post("/otp/purge", controllers.AdminPurgeOTPs)

	// Dashboard
	admin.Get("/dashboard", controllers.AdminDashboardStats)
}
