package contactRoutes

import (
	contactControllers "futurebound/controllers/contact"
	contactValidators "futurebound/validators/contact"

	"github.com/gofiber/fiber/v2"
)

func SetupContactRoutes(app *fiber.App) {
	app.Post("/contact", contactValidators.CreateMessage(), contactControllers.CreateContactMessage)
}
