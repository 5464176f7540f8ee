package routes

import (
	"github.com/gofiber/fiber/v2"

	vendorController "github.com/ajith2401/delivery-app-fresh/controllers/vendors"
)

func VendorRoutes(app *fiber.App, h *vendorController.Controller, auth fiber.Handler) {
	app.Get("/api/vendors/nearby", h.Nearby)
	app.Get("/api/vendors/:vendorId", h.Details)
	app.Post("/api/vendors", auth, h.Register)
	app.Put("/api/vendors/:vendorId/menu", auth, h.ReplaceMenu)
}
