package userValidator

import (
	"futurebound/middleware"
	"futurebound/validators/shared"

	"github.com/gofiber/fiber/v2"
)

// UpdateProfileRequest carries the editable profile fields. Nil fields are left unchanged.
type UpdateProfileRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=150"`
	Phone       *string `json:"phone" validate:"omitempty,numeric,min=10,max=15"`
	College     *string `json:"college" validate:"omitempty,max=200"`
	Education   *string `json:"education" validate:"omitempty,oneof=undergraduate graduate postgraduate others"`
	State       *string `json:"state" validate:"omitempty,max=20"`
	DateOfBirth *string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
}

type CertificateListQuery struct {
	middleware.Pagination
}

func UpdateProfile() fiber.Handler {
	return shared.Body[UpdateProfileRequest]("validatedProfile")
}

func ListCertificates() fiber.Handler {
	return shared.Query[CertificateListQuery]("validatedQuery")
}
