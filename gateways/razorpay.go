package gateways

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
	"go.uber.org/zap"
)

type RazorpayGateway struct {
	client        *razorpay.Client
	keySecret     string
	webhookSecret string
	logger        *zap.Logger
}

func NewRazorpayGateway(keyID, keySecret, webhookSecret string, logger *zap.Logger) *RazorpayGateway {
	return &RazorpayGateway{
		client:        razorpay.NewClient(keyID, keySecret),
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

// CreateOrder registers an order with Razorpay. Amounts are converted to
// paise, the smallest currency unit Razorpay accepts.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, amountRupees float64, receipt string) (*PaymentOrder, error) {
	amount := int64(amountRupees * 100)
	data := map[string]interface{}{
		"amount":   amount,
		"currency": "INR",
		"receipt":  receipt,
	}

	order, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay order create: %w", err)
	}

	id, ok := order["id"].(string)
	if !ok {
		return nil, fmt.Errorf("razorpay order create: missing id in response")
	}
	g.logger.Info("razorpay order created",
		zap.String("razorpayOrderId", id),
		zap.Int64("amountPaise", amount))
	return &PaymentOrder{ID: id, Amount: amount}, nil
}

// CreatePaymentLink issues a short payment link the user can open in chat.
func (g *RazorpayGateway) CreatePaymentLink(ctx context.Context, amountRupees float64, description, phone, referenceID string) (string, error) {
	data := map[string]interface{}{
		"amount":       int64(amountRupees * 100),
		"currency":     "INR",
		"description":  description,
		"reference_id": referenceID,
		"customer": map[string]interface{}{
			"contact": phone,
		},
		"notify": map[string]interface{}{
			"sms": false,
		},
	}

	link, err := g.client.PaymentLink.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf("razorpay payment link create: %w", err)
	}

	shortURL, ok := link["short_url"].(string)
	if !ok {
		return "", fmt.Errorf("razorpay payment link create: missing short_url in response")
	}
	return shortURL, nil
}

// VerifySignature checks the checkout callback signature: HMAC-SHA256 of
// "<orderId>|<paymentId>" keyed with the API secret.
func (g *RazorpayGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return verifyHMAC([]byte(orderID+"|"+paymentID), signature, g.keySecret)
}

// VerifyWebhookSignature checks the X-Razorpay-Signature header against the
// raw request body using the webhook secret.
func (g *RazorpayGateway) VerifyWebhookSignature(body []byte, signature string) bool {
	return verifyHMAC(body, signature, g.webhookSecret)
}

func verifyHMAC(payload []byte, signature, secret string) bool {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(payload)
	expected := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
