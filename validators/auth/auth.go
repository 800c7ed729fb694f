package authValidator

import (
	"futurebound/middleware"
	"futurebound/validators/shared"

	"github.com/gofiber/fiber/v2"
)

type RegisterRequest struct {
	Name      string `json:"name" validate:"required,max=150"`
	Username  string `json:"username" validate:"required,min=3,max=150,alphanum"`
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	Phone     string `json:"phone" validate:"omitempty,numeric,min=10,max=15"`
	College   string `json:"college" validate:"omitempty,max=200"`
	Education string `json:"education" validate:"omitempty,oneof=undergraduate graduate postgraduate others"`
	State     string `json:"state" validate:"omitempty,max=20"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required_without=Username,omitempty,email"`
	Username string `json:"username" validate:"omitempty,max=150"`
	Password string `json:"password" validate:"required"`
}

type SendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	OTP         string `json:"otp" validate:"required,len=6,numeric"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

func Register() fiber.Handler {
	return shared.Body[RegisterRequest]("validatedRegister")
}

func Login() fiber.Handler {
	return shared.Body[LoginRequest]("validatedLogin")
}

// SendOTP also serves the forgot-password request, which carries the same body.
func SendOTP() fiber.Handler {
	return shared.Body[SendOTPRequest]("validatedEmail")
}

func VerifyOTP() fiber.Handler {
	return shared.Body[VerifyOTPRequest]("validatedOTP")
}

func ResetPassword() fiber.Handler {
	return shared.Body[ResetPasswordRequest]("validatedReset")
}

type LoginHistoryQuery struct {
	middleware.Pagination
}

func LoginHistory() fiber.Handler {
	return shared.Query[LoginHistoryQuery]("validatedLoginHistory")
}
