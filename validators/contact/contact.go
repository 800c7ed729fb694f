package contactValidator

import (
	"futurebound/validators/shared"

	"github.com/gofiber/fiber/v2"
)

type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Subject string `json:"subject" validate:"omitempty,max=200"`
	Message string `json:"message" validate:"required,min=10,max=5000"`
}

func CreateMessage() fiber.Handler {
	return shared.Body[ContactRequest]("validatedContact")
}
