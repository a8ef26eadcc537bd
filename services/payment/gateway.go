package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// Order is the gateway order the frontend opens checkout against.
type Order struct {
	ID       string
	Amount   int64 // paise
	Currency string
}

// Payment is the gateway's view of a captured payment, re-fetched during
// verification so the caller-supplied status is never trusted.
type Payment struct {
	ID     string
	Status string
	Amount int64 // paise
}

// Gateway abstracts the payment provider for order creation and payment
// verification.
type Gateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]interface{}) (*Order, error)
	FetchPayment(ctx context.Context, paymentID string) (*Payment, error)
	VerifySignature(orderID, paymentID, signature string) bool
	VerifyWebhookSignature(body []byte, signature string) bool
	KeyID() string
}

// RazorpayGateway implements Gateway over the Razorpay SDK.
type RazorpayGateway struct {
	client        *razorpay.Client
	keyID         string
	keySecret     string
	webhookSecret string
}

func NewRazorpayGateway(keyID, keySecret, webhookSecret string) *RazorpayGateway {
	return &RazorpayGateway{
		client:        razorpay.NewClient(keyID, keySecret),
		keyID:         keyID,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
	}
}

func (g *RazorpayGateway) KeyID() string { return g.keyID }

func (g *RazorpayGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]interface{}) (*Order, error) {
	data := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
		"notes":    notes,
	}

	resp, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment order: %w", err)
	}

	id, _ := resp["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("gateway returned order without id")
	}
	return &Order{
		ID:       id,
		Amount:   toInt64(resp["amount"]),
		Currency: stringOr(resp["currency"], currency),
	}, nil
}

func (g *RazorpayGateway) FetchPayment(ctx context.Context, paymentID string) (*Payment, error) {
	resp, err := g.client.Payment.Fetch(paymentID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment details: %w", err)
	}

	status, _ := resp["status"].(string)
	return &Payment{
		ID:     paymentID,
		Status: status,
		Amount: toInt64(resp["amount"]),
	}, nil
}

// VerifySignature checks the checkout callback signature: HMAC-SHA256 over
// "orderId|paymentId" with the key secret.
func (g *RazorpayGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return checkHMAC([]byte(orderID+"|"+paymentID), g.keySecret, signature)
}

// VerifyWebhookSignature checks the webhook signature: HMAC-SHA256 over the
// raw request body with the webhook secret.
func (g *RazorpayGateway) VerifyWebhookSignature(body []byte, signature string) bool {
	if g.webhookSecret == "" {
		return false
	}
	return checkHMAC(body, g.webhookSecret, signature)
}

func checkHMAC(payload []byte, secret, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func toInt64(v interface{}) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	case json.Number:
		i, _ := n.Int64()
		return i
	default:
		return 0
	}
}

func stringOr(v interface{}, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}
