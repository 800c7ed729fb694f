package courseValidator

import (
	"strconv"
	"strings"

	"futurebound/middleware"
	"futurebound/validators/shared"

	"github.com/gofiber/fiber/v2"
)

// ============ Course Validators ============

type CreateCourseRequest struct {
	Title              string  `json:"title" validate:"required,min=3,max=200"`
	Slug               string  `json:"slug" validate:"omitempty,max=220"`
	Description        string  `json:"description" validate:"required,min=5"`
	ShortDescription   string  `json:"short_description" validate:"omitempty,max=300"`
	ThumbnailURL       string  `json:"thumbnail_url" validate:"omitempty,url"`
	CoverImageURL      string  `json:"cover_image_url" validate:"omitempty,url"`
	CourseType         string  `json:"course_type" validate:"omitempty,oneof=free premium"`
	Price              float64 `json:"price" validate:"gte=0"`
	Category           string  `json:"category" validate:"omitempty,oneof=knowledge internship project specialization"`
	Level              string  `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	DurationHours      uint    `json:"duration_hours"`
	Instructor         string  `json:"instructor" validate:"required,max=100"`
	Prerequisites      string  `json:"prerequisites"`
	LearningObjectives string  `json:"learning_objectives"`
	IsActive           *bool   `json:"is_active"`
}

type UpdateCourseRequest struct {
	Title              *string  `json:"title" validate:"omitempty,min=3,max=200"`
	Slug               *string  `json:"slug" validate:"omitempty,min=1,max=220"`
	Description        *string  `json:"description" validate:"omitempty,min=5"`
	ShortDescription   *string  `json:"short_description" validate:"omitempty,max=300"`
	ThumbnailURL       *string  `json:"thumbnail_url" validate:"omitempty,url"`
	CoverImageURL      *string  `json:"cover_image_url" validate:"omitempty,url"`
	CourseType         *string  `json:"course_type" validate:"omitempty,oneof=free premium"`
	Price              *float64 `json:"price" validate:"omitempty,gte=0"`
	Category           *string  `json:"category" validate:"omitempty,oneof=knowledge internship project specialization"`
	Level              *string  `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	DurationHours      *uint    `json:"duration_hours"`
	Instructor         *string  `json:"instructor" validate:"omitempty,max=100"`
	Prerequisites      *string  `json:"prerequisites"`
	LearningObjectives *string  `json:"learning_objectives"`
	IsActive           *bool    `json:"is_active"`
}

type AdminCourseListQuery struct {
	middleware.Pagination
	Search   string `query:"search" validate:"omitempty,max=100"`
	Category string `query:"category" validate:"omitempty,oneof=knowledge internship project specialization"`
	Active   string `query:"active" validate:"omitempty,oneof=true false"`
}

func CreateCourseAdmin() fiber.Handler {
	return shared.Body[CreateCourseRequest]("validatedCourse")
}

func UpdateCourseAdmin() fiber.Handler {
	return shared.Body[UpdateCourseRequest]("validatedCourseUpdate")
}

func ListCoursesAdmin() fiber.Handler {
	return shared.Query[AdminCourseListQuery]("validatedCourseList")
}

// ============ Module Validators ============

type ModuleRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	OrderIndex  int    `json:"order_index" validate:"required,min=1"`
	IsActive    *bool  `json:"is_active"`
}

type UpdateModuleRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
	OrderIndex  *int    `json:"order_index" validate:"omitempty,min=1"`
	IsActive    *bool   `json:"is_active"`
}

func CreateModule() fiber.Handler {
	return shared.Body[ModuleRequest]("validatedModule")
}

func UpdateModule() fiber.Handler {
	return shared.Body[UpdateModuleRequest]("validatedModuleUpdate")
}

// ============ Lesson Validators ============

type LessonRequest struct {
	Title           string `json:"title" validate:"required,max=200"`
	Description     string `json:"description"`
	ContentType     string `json:"content_type" validate:"omitempty,oneof=video text quiz assignment"`
	VideoURL        string `json:"video_url" validate:"omitempty,url"`
	TextContent     string `json:"text_content"`
	DurationMinutes uint   `json:"duration_minutes"`
	OrderIndex      int    `json:"order_index" validate:"required,min=1"`
	IsPreview       bool   `json:"is_preview"`
	IsActive        *bool  `json:"is_active"`
}

type UpdateLessonRequest struct {
	Title           *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description     *string `json:"description"`
	ContentType     *string `json:"content_type" validate:"omitempty,oneof=video text quiz assignment"`
	VideoURL        *string `json:"video_url" validate:"omitempty,url"`
	TextContent     *string `json:"text_content"`
	DurationMinutes *uint   `json:"duration_minutes"`
	OrderIndex      *int    `json:"order_index" validate:"omitempty,min=1"`
	IsPreview       *bool   `json:"is_preview"`
	IsActive        *bool   `json:"is_active"`
}

func CreateLesson() fiber.Handler {
	return shared.Body[LessonRequest]("validatedLesson")
}

func UpdateLesson() fiber.Handler {
	return shared.Body[UpdateLessonRequest]("validatedLessonUpdate")
}

// ============ Task Validators ============

type TaskRequest struct {
	Title              string `json:"title" validate:"required,max=200"`
	Description        string `json:"description"`
	TaskType           string `json:"task_type" validate:"omitempty,oneof=reading video coding quiz"`
	VideoURL           string `json:"video_url" validate:"omitempty,url"`
	TextContent        string `json:"text_content"`
	CodingInstructions string `json:"coding_instructions"`
	DurationMinutes    uint   `json:"duration_minutes"`
	OrderIndex         int    `json:"order_index" validate:"required,min=1"`
	IsRequired         *bool  `json:"is_required"`
	IsActive           *bool  `json:"is_active"`
}

type UpdateTaskRequest struct {
	Title              *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description        *string `json:"description"`
	TaskType           *string `json:"task_type" validate:"omitempty,oneof=reading video coding quiz"`
	VideoURL           *string `json:"video_url" validate:"omitempty,url"`
	TextContent        *string `json:"text_content"`
	CodingInstructions *string `json:"coding_instructions"`
	DurationMinutes    *uint   `json:"duration_minutes"`
	OrderIndex         *int    `json:"order_index" validate:"omitempty,min=1"`
	IsRequired         *bool   `json:"is_required"`
	IsActive           *bool   `json:"is_active"`
}

func CreateTask() fiber.Handler {
	return shared.Body[TaskRequest]("validatedTask")
}

func UpdateTask() fiber.Handler {
	return shared.Body[UpdateTaskRequest]("validatedTaskUpdate")
}

// ============ Quiz Validators ============

type QuizRequest struct {
	Title            string `json:"title" validate:"required,max=200"`
	Description      string `json:"description"`
	TimeLimitMinutes *uint  `json:"time_limit_minutes" validate:"omitempty,min=1,max=600"`
	PassingScore     *uint  `json:"passing_score" validate:"omitempty,max=100"`
	IsActive         *bool  `json:"is_active"`
}

type QuestionRequest struct {
	QuestionText  string   `json:"question_text" validate:"required"`
	QuestionType  string   `json:"question_type" validate:"omitempty,oneof=multiple_choice true_false short_answer"`
	Options       []string `json:"options" validate:"omitempty,max=10,dive,required,max=500"`
	CorrectAnswer string   `json:"correct_answer" validate:"required,max=500"`
	Explanation   string   `json:"explanation"`
	Points        uint     `json:"points" validate:"omitempty,min=1,max=100"`
	OrderIndex    int      `json:"order_index" validate:"omitempty,min=0"`
}

func CreateQuiz() fiber.Handler {
	return shared.Body[QuizRequest]("validatedQuiz")
}

func CreateQuestion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(QuestionRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if errs := shared.Validate(reqData); errs != nil {
			return middleware.ValidationErrorResponse(c, errs)
		}

		if reqData.QuestionType == "" {
			reqData.QuestionType = "multiple_choice"
		}

		errors := make(map[string]string)
		switch reqData.QuestionType {
		case "multiple_choice":
			if len(reqData.Options) < 2 {
				errors["options"] = "Multiple choice questions need at least 2 options!"
			} else if !matchesOption(reqData.Options, reqData.CorrectAnswer) {
				errors["correct_answer"] = "Correct answer must be an option index or one of the options!"
			}
		case "true_false":
			reqData.CorrectAnswer = strings.ToLower(strings.TrimSpace(reqData.CorrectAnswer))
			if a := reqData.CorrectAnswer; a != "true" && a != "false" {
				errors["correct_answer"] = "Correct answer must be true or false!"
			}
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuestion", reqData)
		return c.Next()
	}
}

func matchesOption(options []string, answer string) bool {
	if i, err := strconv.Atoi(answer); err == nil {
		return i >= 0 && i < len(options)
	}
	for _, o := range options {
		if strings.EqualFold(strings.TrimSpace(o), strings.TrimSpace(answer)) {
			return true
		}
	}
	return false
}

// ============ Enrollment Validators ============

func ListCourseEnrollments() fiber.Handler {
	return shared.Query[EnrollmentListQuery]("validatedEnrollmentList")
}
