package gateways

import (
	"context"

	"github.com/ajith2401/delivery-app-fresh/models"
)

// MessageGateway delivers one outbound message to a user on the chat channel.
type MessageGateway interface {
	Send(ctx context.Context, to string, msg models.Message) error
}

// PaymentOrder is the gateway-side order a payment gets collected against.
type PaymentOrder struct {
	ID     string
	Amount int64 // paise
}

// PaymentGateway abstracts the payment provider used for online collection.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amountRupees float64, receipt string) (*PaymentOrder, error)
	CreatePaymentLink(ctx context.Context, amountRupees float64, description, phone, referenceID string) (string, error)
	VerifySignature(orderID, paymentID, signature string) bool
	VerifyWebhookSignature(body []byte, signature string) bool
}
