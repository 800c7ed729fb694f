package courseValidator

import (
	"futurebound/middleware"
	"futurebound/validators/shared"

	"github.com/gofiber/fiber/v2"
)

type CourseListQuery struct {
	middleware.Pagination
	Category string `query:"category" validate:"omitempty,oneof=knowledge internship project specialization"`
	Level    string `query:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Search   string `query:"search" validate:"omitempty,max=100"`
}

type ReviewListQuery struct {
	middleware.Pagination
}

type ReviewRequest struct {
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	ReviewText string `json:"review_text" validate:"omitempty,max=2000"`
}

func ListCourses() fiber.Handler {
	return shared.Query[CourseListQuery]("validatedCourseList")
}

// CourseID validates the :id route parameter.
func CourseID() fiber.Handler {
	return shared.IDParams("id")
}

func ListReviews() fiber.Handler {
	return shared.Query[ReviewListQuery]("validatedQuery")
}

func UpsertReview() fiber.Handler {
	return shared.Body[ReviewRequest]("validatedReview")
}

// ID validates a generic :id route parameter.
func ID() fiber.Handler {
	return shared.IDParams("id")
}
