package checkout

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ajith2401/delivery-app-fresh/models"
)

// Notification sends are best-effort: the gateway retries transient failures
// itself, anything else is logged and the checkout result stands.
func (s *Service) deliver(ctx context.Context, to string, msg models.Message) {
	if err := s.messages.Send(ctx, to, msg); err != nil {
		s.logger.Error("order notification failed",
			zap.String("to", to),
			zap.Error(err))
	}
}

func (s *Service) notifyConfirmation(ctx context.Context, user *models.User, order *models.Order, paymentLink string) {
	var b strings.Builder
	fmt.Fprintf(&b, "🛒 *Order Confirmed!*\nOrder ID: %s\n\n*Items:*\n", order.ID.Hex())
	for _, item := range order.Items {
		fmt.Fprintf(&b, "• %dx %s - ₹%.0f\n", item.Quantity, item.Name, item.Price*float64(item.Quantity))
	}
	fmt.Fprintf(&b, "\nSubtotal: ₹%.0f", order.TotalAmount)
	fmt.Fprintf(&b, "\nDelivery Fee: ₹%.0f", order.DeliveryFee)
	fmt.Fprintf(&b, "\n*Total: ₹%.0f*", order.GrandTotal)
	fmt.Fprintf(&b, "\n\nPayment Method: %s", order.PaymentMethod)
	fmt.Fprintf(&b, "\nDelivery Address: %s", order.DeliveryAddress.FullAddress)
	if order.PaymentMethod == models.PaymentCOD {
		b.WriteString("\n\nPlease keep cash ready for delivery.")
	} else if order.PaymentStatus == models.PaymentPending {
		b.WriteString("\n\nPlease complete your payment to confirm this order.")
	}

	s.deliver(ctx, user.PhoneNumber, models.TextMessage(b.String()))

	if paymentLink != "" {
		text := fmt.Sprintf(
			"💳 *Complete Your Payment*\nPlease use the link below to pay ₹%.0f for your order #%s:\n\n%s\n\nYour order will be processed once payment is complete.",
			order.GrandTotal, order.ID.Hex(), paymentLink)
		s.deliver(ctx, user.PhoneNumber, models.Message{
			Type:       models.MessageText,
			Body:       text,
			PreviewURL: true,
		})
	} else if order.PaymentMethod != models.PaymentCOD {
		s.deliver(ctx, user.PhoneNumber, models.TextMessage(
			"We couldn't generate your payment link right now. Your order is placed; please try paying again in a few minutes."))
	}
}

func (s *Service) notifyStatus(ctx context.Context, order *models.Order) {
	user, err := s.users.FindByID(ctx, order.UserID)
	if err != nil {
		s.logger.Error("status notification skipped, user lookup failed",
			zap.String("orderId", order.ID.Hex()),
			zap.Error(err))
		return
	}

	id := order.ID.Hex()
	var text string
	switch order.OrderStatus {
	case models.OrderConfirmed:
		text = fmt.Sprintf("🍽️ *Order Confirmed!*\nYour order #%s has been confirmed by the restaurant. They'll start preparing your food soon!", id)
	case models.OrderPreparing:
		text = fmt.Sprintf("👨‍🍳 *Food Preparation Started*\nThe chef has started preparing your order #%s. It won't be long!", id)
	case models.OrderOutForDelivery:
		eta := "30 minutes"
		if !order.EstimatedDeliveryTime.IsZero() {
			eta = order.EstimatedDeliveryTime.Format("15:04")
		}
		text = fmt.Sprintf("🛵 *Out for Delivery*\nYour order #%s is on its way! Should reach you around %s.", id, eta)
	case models.OrderDelivered:
		text = fmt.Sprintf("✅ *Order Delivered*\nYour order #%s has been delivered. Enjoy your meal!", id)
	case models.OrderCancelled:
		text = fmt.Sprintf("❌ *Order Cancelled*\nYour order #%s has been cancelled. If you didn't request this cancellation, please contact our support.", id)
	default:
		text = fmt.Sprintf("📝 *Order Update*\nYour order #%s status: %s", id, order.OrderStatus)
	}

	s.deliver(ctx, user.PhoneNumber, models.TextMessage(text))

	if order.OrderStatus == models.OrderDelivered {
		s.deliver(ctx, user.PhoneNumber, models.ButtonsMessage(
			fmt.Sprintf("How was your experience with your order from %s? Your feedback helps us improve!", order.VendorName),
			models.Button{ID: "feedback_5", Title: "⭐⭐⭐⭐⭐"},
			models.Button{ID: "feedback_4", Title: "⭐⭐⭐⭐"},
			models.Button{ID: "feedback_3", Title: "⭐⭐⭐"},
		))
	}
}

func (s *Service) notifyPaymentReceived(ctx context.Context, order *models.Order) {
	user, err := s.users.FindByID(ctx, order.UserID)
	if err != nil {
		s.logger.Error("payment notification skipped, user lookup failed",
			zap.String("orderId", order.ID.Hex()),
			zap.Error(err))
		return
	}

	text := fmt.Sprintf("✅ *Payment Successful*\nWe've received your payment of ₹%.0f for order #%s. Your food will be prepared soon!",
		order.GrandTotal, order.ID.Hex())
	s.deliver(ctx, user.PhoneNumber, models.TextMessage(text))
}
