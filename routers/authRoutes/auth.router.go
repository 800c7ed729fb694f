package authRoutes

import (
	authControllers "futurebound/controllers/auth"
	"futurebound/middleware"
	authValidators "futurebound/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/register", authValidators.Register(), authControllers.Register)
	authGroup.Post("/login", authValidators.Login(), authControllers.Login)
	authGroup.Get("/login-history", middleware.JWTMiddleware, authValidators.LoginHistory(), authControllers.LoginHistoryList)
	authGroup.Post("/otp/send", authValidators.SendOTP(), authControllers.SendOTP)
	authGroup.Post("/otp/verify", authValidators.VerifyOTP(), authControllers.VerifyOTP)
	authGroup.Post("/password/forgot", authValidators.SendOTP(), authControllers.ForgotPassword)
	authGroup.Post("/password/reset", authValidators.ResetPassword(), authControllers.ResetPassword)
}
