package contactController

import (
	"futurebound/config"
	"futurebound/database"
	"futurebound/logger"
	"futurebound/middleware"
	"futurebound/models"
	"futurebound/utils"
	contactValidator "futurebound/validators/contact"

	"github.com/gofiber/fiber/v2"
)

// CreateContactMessage stores a public contact form submission and notifies the admin inbox.
func CreateContactMessage(c *fiber.Ctx) error {
	reqData := c.Locals("validatedContact").(*contactValidator.ContactRequest)

	message := models.ContactMessage{
		Name:    reqData.Name,
		Email:   reqData.Email,
		Subject: reqData.Subject,
		Message: reqData.Message,
	}
	if message.Subject == "" {
		message.Subject = "General enquiry"
	}

	if err := database.Database.Db.Create(&message).Error; err != nil {
		logger.Log.Errorw("save contact message failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to send message!", nil)
	}

	utils.SendContactNotification(config.AppConfig.AdminEmail, message.Name, message.Email, message.Subject, message.Message)
	logger.Log.Infow("contact message received", "message_id", message.ID, "email", utils.MaskEmail(message.Email))

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Thank you for your message. We will get back to you soon!", message)
}
