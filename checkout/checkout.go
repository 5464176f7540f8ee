package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/ajith2401/delivery-app-fresh/gateways"
	"github.com/ajith2401/delivery-app-fresh/models"
	"github.com/ajith2401/delivery-app-fresh/stores"
)

const DefaultDeliveryWindow = 45 * time.Minute

// Service is the one place a mutable cart becomes an immutable order. All
// cart validations are re-checked here at commit time because vendor data
// may have changed since the items were added.
type Service struct {
	users    stores.UserStore
	vendors  stores.VendorStore
	orders   stores.OrderStore
	payments gateways.PaymentGateway
	messages gateways.MessageGateway
	logger   *zap.Logger

	deliveryWindow time.Duration
	now            func() time.Time
}

func NewService(
	users stores.UserStore,
	vendors stores.VendorStore,
	orders stores.OrderStore,
	payments gateways.PaymentGateway,
	messages gateways.MessageGateway,
	deliveryWindow time.Duration,
	logger *zap.Logger,
) *Service {
	if deliveryWindow <= 0 {
		deliveryWindow = DefaultDeliveryWindow
	}
	return &Service{
		users:          users,
		vendors:        vendors,
		orders:         orders,
		payments:       payments,
		messages:       messages,
		logger:         logger,
		deliveryWindow: deliveryWindow,
		now:            time.Now,
	}
}

// PlacedOrder is the checkout result. PaymentLink is empty for COD and when
// link creation failed (the order stands either way).
type PlacedOrder struct {
	Order       *models.Order
	PaymentLink string
}

// PlaceOrder validates the user's cart against live vendor data, persists the
// order snapshot and clears the cart. The order write happens first; clearing
// an already-empty cart on a retry is a no-op, so a crash between the two
// writes cannot double-charge.
func (s *Service) PlaceOrder(ctx context.Context, user *models.User, method models.PaymentMethod, instructions string) (*PlacedOrder, error) {
	if user.Cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	address, ok := user.DefaultAddress()
	if !ok {
		return nil, ErrNoAddress
	}
	if !method.Valid() {
		return nil, fmt.Errorf("unknown payment method %q", method)
	}

	vendor, err := s.vendors.FindByID(ctx, user.Cart.VendorID)
	if errors.Is(err, stores.ErrNotFound) {
		return nil, ErrVendorUnavailable
	}
	if err != nil {
		return nil, fmt.Errorf("load vendor: %w", err)
	}
	if !vendor.IsActive {
		return nil, ErrVendorUnavailable
	}

	var stale []string
	for _, line := range user.Cart.Items {
		item, ok := vendor.MenuItemByID(line.ItemID)
		if !ok || !item.IsAvailable {
			stale = append(stale, line.Name)
		}
	}
	if len(stale) > 0 {
		return nil, &UnavailableItemsError{Items: stale}
	}

	var total float64
	for _, line := range user.Cart.Items {
		total += line.UnitPrice * float64(line.Quantity)
	}
	if total < vendor.MinOrderAmount {
		return nil, &BelowMinOrderError{Min: vendor.MinOrderAmount, Total: total}
	}

	now := s.now()
	items := make([]models.OrderItem, 0, len(user.Cart.Items))
	for _, line := range user.Cart.Items {
		items = append(items, models.OrderItem{
			ItemID:   line.ItemID,
			Name:     line.Name,
			Quantity: line.Quantity,
			Price:    line.UnitPrice,
		})
	}

	order := &models.Order{
		UserID:      user.ID,
		VendorID:    vendor.ID,
		VendorName:  vendor.BusinessName,
		Items:       items,
		TotalAmount: total,
		DeliveryFee: vendor.DeliveryFee,
		GrandTotal:  total + vendor.DeliveryFee,
		DeliveryAddress: models.DeliveryAddress{
			FullAddress: address.FullAddress,
			Location:    address.Location,
		},
		PaymentMethod:       method,
		PaymentStatus:       models.PaymentPending,
		OrderStatus:         models.OrderPlaced,
		StatusHistory:       []models.StatusEntry{{Status: models.OrderPlaced, Timestamp: now}},
		SpecialInstructions: instructions,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	user.Cart.Clear()
	if err := s.users.Save(ctx, user); err != nil {
		// The order exists; the empty-cart write is retried on the next
		// message, so this is logged rather than surfaced.
		s.logger.Error("cart clear after order creation failed",
			zap.String("orderId", order.ID.Hex()),
			zap.Error(err))
	}

	placed := &PlacedOrder{Order: order}
	if method != models.PaymentCOD {
		placed.PaymentLink = s.collectOnline(ctx, user, order)
	}

	s.notifyConfirmation(ctx, user, order, placed.PaymentLink)
	return placed, nil
}

// collectOnline registers the order with the payment gateway and fetches a
// payment link. Gateway failure leaves the order PLACED/PENDING; the user is
// told to retry payment later.
func (s *Service) collectOnline(ctx context.Context, user *models.User, order *models.Order) string {
	receipt := "rcpt_" + uuid.NewString()
	gatewayOrder, err := s.payments.CreateOrder(ctx, order.GrandTotal, receipt)
	if err != nil {
		s.logger.Error("payment gateway order creation failed",
			zap.String("orderId", order.ID.Hex()),
			zap.Error(err))
		return ""
	}

	order.PaymentID = gatewayOrder.ID
	if err := s.orders.Update(ctx, order); err != nil {
		s.logger.Error("persisting gateway payment reference failed",
			zap.String("orderId", order.ID.Hex()),
			zap.Error(err))
	}

	description := "Food order from " + order.VendorName
	link, err := s.payments.CreatePaymentLink(ctx, order.GrandTotal, description, user.PhoneNumber, order.ID.Hex())
	if err != nil {
		s.logger.Error("payment link creation failed",
			zap.String("orderId", order.ID.Hex()),
			zap.Error(err))
		return ""
	}
	return link
}

// AdvanceStatus appends the transition to the history and fires the status
// notification. Transitioning to CONFIRMED fixes the delivery estimate and,
// for COD, marks the cash as collected.
func (s *Service) AdvanceStatus(ctx context.Context, orderID primitive.ObjectID, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("unknown order status %q", status)
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.OrderStatus.Terminal() {
		return nil, ErrTerminalStatus
	}

	now := s.now()
	order.ApplyStatus(status, now)

	if status == models.OrderConfirmed {
		order.EstimatedDeliveryTime = now.Add(s.deliveryWindow)
		if order.PaymentMethod == models.PaymentCOD && order.PaymentStatus == models.PaymentPending {
			order.PaymentStatus = models.PaymentPaid
		}
	}

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}

	s.notifyStatus(ctx, order)
	return order, nil
}

// MarkPaid records a captured payment looked up by the gateway reference.
func (s *Service) MarkPaid(ctx context.Context, paymentID string) (*models.Order, error) {
	order, err := s.orders.FindByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus == models.PaymentPaid {
		return order, nil
	}

	order.PaymentStatus = models.PaymentPaid
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}

	s.notifyPaymentReceived(ctx, order)
	return order, nil
}

// RecordFeedback stores a 1-5 score against an order.
func (s *Service) RecordFeedback(ctx context.Context, orderID primitive.ObjectID, score int) error {
	if score < 1 || score > 5 {
		return fmt.Errorf("feedback score %d out of range", score)
	}
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	order.Feedback = &models.Feedback{Score: score, Timestamp: s.now()}
	return s.orders.Update(ctx, order)
}
