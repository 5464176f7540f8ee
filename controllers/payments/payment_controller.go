// Package payments receives Razorpay's server-to-server webhook. The
// signature is checked over the raw body before any parsing; an invalid
// signature is rejected outright.
package payments

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ajith2401/delivery-app-fresh/checkout"
	"github.com/ajith2401/delivery-app-fresh/gateways"
	"github.com/ajith2401/delivery-app-fresh/responses"
)

const webhookTimeout = 10 * time.Second

type Controller struct {
	checkout *checkout.Service
	payments gateways.PaymentGateway
	logger   *zap.Logger
}

func NewController(svc *checkout.Service, payments gateways.PaymentGateway, logger *zap.Logger) *Controller {
	return &Controller{checkout: svc, payments: payments, logger: logger}
}

// webhookEvent mirrors the Razorpay webhook envelope down to the payment
// entity's gateway order reference, which is what orders are keyed by.
type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
				Status  string `json:"status"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// CreateLinkRequest asks the gateway for a hosted payment link outside the
// chat checkout, for ops re-sends when a customer loses the original.
type CreateLinkRequest struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Phone       string  `json:"phone"`
	ReferenceID string  `json:"referenceId"`
}

func (h *Controller) CreateLink(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), webhookTimeout)
	defer cancel()

	var req CreateLinkRequest
	if err := c.BodyParser(&req); err != nil || req.Amount <= 0 || req.Phone == "" {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "amount and phone are required",
		})
	}

	link, err := h.payments.CreatePaymentLink(ctx, req.Amount, req.Description, req.Phone, req.ReferenceID)
	if err != nil {
		h.logger.Error("payment link creation failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(responses.UserResponse{
			Status:  fiber.StatusBadGateway,
			Message: "Payment gateway error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "success",
		Result:  &fiber.Map{"paymentLink": link},
	})
}

func (h *Controller) Webhook(c *fiber.Ctx) error {
	body := c.Body()
	signature := c.Get("X-Razorpay-Signature")

	if !h.payments.VerifyWebhookSignature(body, signature) {
		h.logger.Warn("webhook signature rejected")
		return c.SendStatus(fiber.StatusBadRequest)
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		h.logger.Warn("unparseable webhook body", zap.Error(err))
		return c.SendStatus(fiber.StatusBadRequest)
	}

	switch event.Event {
	case "payment.authorized", "payment.captured":
		ctx, cancel := context.WithTimeout(c.Context(), webhookTimeout)
		defer cancel()

		order, err := h.checkout.MarkPaid(ctx, event.Payload.Payment.Entity.OrderID)
		if err != nil {
			// 200 regardless: Razorpay retries on failure codes, and a
			// payment for an unknown order cannot be repaired by retrying.
			h.logger.Error("webhook payment could not be applied",
				zap.String("event", event.Event),
				zap.String("gatewayOrderId", event.Payload.Payment.Entity.OrderID),
				zap.Error(err))
		} else {
			h.logger.Info("order marked paid via webhook",
				zap.String("orderId", order.ID.Hex()),
				zap.String("paymentId", event.Payload.Payment.Entity.ID))
		}
	}

	return c.SendStatus(fiber.StatusOK)
}
