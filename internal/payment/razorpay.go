package payment

import (
	"context"
	"errors"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"
)

// Gateway wraps the Razorpay SDK: payment-order creation for the checkout
// widget and callback signature verification.
type Gateway struct {
	client *razorpay.Client
	keyID  string
	secret string
}

func NewGateway(keyID, keySecret string) *Gateway {
	return &Gateway{
		client: razorpay.NewClient(keyID, keySecret),
		keyID:  keyID,
		secret: keySecret,
	}
}

// KeyID is the publishable key the checkout widget is opened with.
func (g *Gateway) KeyID() string {
	return g.keyID
}

func (g *Gateway) Configured() bool {
	return g.keyID != "" && g.secret != ""
}

// CreateOrder registers a payment order with the gateway. Amount is in
// minor currency units (paise).
func (g *Gateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	body, err := g.client.Order.Create(map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}, nil)
	if err != nil {
		return "", fmt.Errorf("razorpay order create: %w", err)
	}

	id, ok := body["id"].(string)
	if !ok || id == "" {
		return "", errors.New("razorpay response missing order id")
	}
	return id, nil
}

// VerifySignature checks the checkout callback signature against the key
// secret. A payment id is only trusted when this passes (or when the
// storefront runs without signatures, which confirm-order tolerates for the
// widget's handler-only flow).
func (g *Gateway) VerifySignature(orderID, paymentID, signature string) bool {
	params := map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}
	return utils.VerifyPaymentSignature(params, signature, g.secret)
}
