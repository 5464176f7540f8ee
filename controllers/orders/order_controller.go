package orders

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/ajith2401/delivery-app-fresh/checkout"
	"github.com/ajith2401/delivery-app-fresh/gateways"
	"github.com/ajith2401/delivery-app-fresh/models"
	"github.com/ajith2401/delivery-app-fresh/responses"
	"github.com/ajith2401/delivery-app-fresh/stores"
)

const queryTimeout = 10 * time.Second

type Controller struct {
	users    stores.UserStore
	orders   stores.OrderStore
	checkout *checkout.Service
	payments gateways.PaymentGateway
	logger   *zap.Logger
}

func NewController(users stores.UserStore, orders stores.OrderStore, svc *checkout.Service, payments gateways.PaymentGateway, logger *zap.Logger) *Controller {
	return &Controller{users: users, orders: orders, checkout: svc, payments: payments, logger: logger}
}

// CreateOrderRequest places an order from a user's current cart outside the
// chat flow, for ops tooling and testing.
type CreateOrderRequest struct {
	UserID              string               `json:"userId"`
	PaymentMethod       models.PaymentMethod `json:"paymentMethod"`
	SpecialInstructions string               `json:"specialInstructions"`
}

func (h *Controller) Create(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), queryTimeout)
	defer cancel()

	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid user ID format",
		})
	}
	if !req.PaymentMethod.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "A valid paymentMethod is required",
		})
	}

	user, err := h.users.FindByID(ctx, userID)
	if errors.Is(err, stores.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(responses.UserResponse{
			Status:  fiber.StatusNotFound,
			Message: "User not found",
		})
	}
	if err != nil {
		h.logger.Error("user lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "error",
		})
	}

	placed, err := h.checkout.PlaceOrder(ctx, user, req.PaymentMethod, req.SpecialInstructions)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(responses.UserResponse{
			Status:  fiber.StatusUnprocessableEntity,
			Message: err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(responses.UserResponse{
		Status:  fiber.StatusCreated,
		Message: "success",
		Result:  &fiber.Map{"order": placed.Order, "paymentLink": placed.PaymentLink},
	})
}

func (h *Controller) Details(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), queryTimeout)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Params("orderId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid order ID format",
		})
	}

	order, err := h.orders.FindByID(ctx, id)
	if errors.Is(err, stores.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(responses.UserResponse{
			Status:  fiber.StatusNotFound,
			Message: "Order not found",
		})
	}
	if err != nil {
		h.logger.Error("order lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "success",
		Result:  &fiber.Map{"order": order},
	})
}

// UserOrders lists a user's orders newest first, optionally filtered with
// ?status= and capped with ?limit= (default 20).
func (h *Controller) UserOrders(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), queryTimeout)
	defer cancel()

	userID, err := primitive.ObjectIDFromHex(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid user ID format",
		})
	}

	status := models.OrderStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid order status filter",
		})
	}
	limit := int64(c.QueryInt("limit", 20))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	list, err := h.orders.FindByUser(ctx, userID, status, limit)
	if err != nil {
		h.logger.Error("order history query failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "success",
		Result:  &fiber.Map{"orders": list},
	})
}

// AdvanceStatus moves an order through its lifecycle on behalf of vendor
// tooling. The checkout service owns the transition rules and the customer
// notifications.
func (h *Controller) AdvanceStatus(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), queryTimeout)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Params("orderId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid order ID format",
		})
	}

	var body struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil || !body.Status.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "A valid status is required",
		})
	}

	order, err := h.checkout.AdvanceStatus(ctx, id, body.Status)
	switch {
	case errors.Is(err, stores.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(responses.UserResponse{
			Status:  fiber.StatusNotFound,
			Message: "Order not found",
		})
	case errors.Is(err, checkout.ErrTerminalStatus):
		return c.Status(fiber.StatusConflict).JSON(responses.UserResponse{
			Status:  fiber.StatusConflict,
			Message: "Order is already in a terminal state",
		})
	case err != nil:
		h.logger.Error("status transition failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "success",
		Result:  &fiber.Map{"order": order},
	})
}

// VerifyPaymentRequest carries the client-side payment callback fields.
type VerifyPaymentRequest struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature"`
}

// VerifyPayment checks a client-reported payment signature and marks the
// matching order paid. The webhook path does the same server-to-server; this
// endpoint covers clients that confirm in-app.
func (h *Controller) VerifyPayment(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), queryTimeout)
	defer cancel()

	var req VerifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "orderId, paymentId and signature are required",
		})
	}

	if !h.payments.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Payment signature verification failed",
		})
	}

	order, err := h.checkout.MarkPaid(ctx, req.OrderID)
	if errors.Is(err, stores.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(responses.UserResponse{
			Status:  fiber.StatusNotFound,
			Message: "No order found for this payment",
		})
	}
	if err != nil {
		h.logger.Error("marking order paid failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "success",
		Result:  &fiber.Map{"order": order},
	})
}
