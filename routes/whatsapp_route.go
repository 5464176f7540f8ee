package routes

import (
	"github.com/gofiber/fiber/v2"

	whatsappController "github.com/ajith2401/delivery-app-fresh/controllers/whatsapp"
)

func WhatsAppRoutes(app *fiber.App, h *whatsappController.Controller) {
	app.Get("/webhook/whatsapp", h.Verify)
	app.Post("/webhook/whatsapp", h.Receive)
}
