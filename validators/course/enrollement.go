package courseValidator

import (
	"fmt"
	"strings"

	"futurebound/middleware"
	"futurebound/validators/shared"

	"github.com/gofiber/fiber/v2"
)

type EnrollmentListQuery struct {
	middleware.Pagination
	Status string `query:"status" validate:"omitempty,oneof=enrolled in_progress completed cancelled"`
}

// QuizSubmission maps question ids to the submitted answer. Multiple choice
// answers may be the option index or the option text.
type QuizSubmission struct {
	Answers map[string]interface{} `json:"answers" validate:"required"`
}

// Normalized returns the answers as trimmed strings keyed by question id.
func (s *QuizSubmission) Normalized() map[string]string {
	out := make(map[string]string, len(s.Answers))
	for k, v := range s.Answers {
		if v == nil {
			out[strings.TrimSpace(k)] = ""
			continue
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func EnrollCourse() fiber.Handler {
	return shared.IDParams("id")
}

func GetUserEnrollments() fiber.Handler {
	return shared.Query[EnrollmentListQuery]("validatedEnrollmentList")
}

// EnrollmentID validates :enrollment_id.
func EnrollmentID() fiber.Handler {
	return shared.IDParams("enrollment_id")
}

// EnrollmentLesson validates :enrollment_id and :lesson_id.
func EnrollmentLesson() fiber.Handler {
	return shared.IDParams("enrollment_id", "lesson_id")
}

// EnrollmentModule validates :enrollment_id and :module_id.
func EnrollmentModule() fiber.Handler {
	return shared.IDParams("enrollment_id", "module_id")
}

func SubmitQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(QuizSubmission)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if errs := shared.Validate(reqData); errs != nil {
			return middleware.ValidationErrorResponse(c, errs)
		}
		if len(reqData.Answers) == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{"answers": "At least one answer is required!"})
		}
		c.Locals("validatedQuizSubmission", reqData)
		return c.Next()
	}
}
