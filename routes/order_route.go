package routes

import (
	"github.com/gofiber/fiber/v2"

	orderController "github.com/ajith2401/delivery-app-fresh/controllers/orders"
	paymentController "github.com/ajith2401/delivery-app-fresh/controllers/payments"
)

func OrderRoutes(app *fiber.App, h *orderController.Controller, auth fiber.Handler) {
	app.Post("/api/orders", auth, h.Create)
	app.Get("/api/orders/:orderId", auth, h.Details)
	app.Patch("/api/orders/:orderId/status", auth, h.AdvanceStatus)
	app.Get("/api/users/:userId/orders", auth, h.UserOrders)
	app.Post("/api/verify-payment", auth, h.VerifyPayment)
}

func PaymentRoutes(app *fiber.App, h *paymentController.Controller, auth fiber.Handler) {
	app.Post("/api/payments/link", auth, h.CreateLink)
	app.Post("/webhook/razorpay", h.Webhook)
}
