package payment

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cresenventures/storefront/internal/checkout"
	"github.com/cresenventures/storefront/internal/domain/cart"
	"github.com/cresenventures/storefront/internal/domain/order"
	"github.com/cresenventures/storefront/internal/mail"
	"github.com/cresenventures/storefront/internal/util"
)

// OrderStore is the slice of the order repository the payment flow needs.
type OrderStore interface {
	LatestAttempted(ctx context.Context, email string) (order.Order, error)
	SetRazorpayOrderID(ctx context.Context, email, razorpayOrderID string) error
	// Confirm is idempotent per (email, paymentID): re-confirming an order
	// already paid with the same payment id succeeds without a transition.
	Confirm(ctx context.Context, email, paymentID string) error
}

// CartStore clears the remote cart mirror after a paid checkout.
type CartStore interface {
	Save(ctx context.Context, email string, items cart.Cart) error
}

type Dependencies struct {
	Gateway  *Gateway
	Orders   OrderStore
	Carts    CartStore
	Sessions *checkout.Manager
	Mailer   mail.Mailer
	Log      *zap.Logger
}

type Handler struct {
	deps Dependencies
}

func NewHandler(d Dependencies) *Handler {
	return &Handler{deps: d}
}

// GetKey hands the publishable key to the summary page.
func (h *Handler) GetKey(c *gin.Context) {
	if !h.deps.Gateway.Configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "payment gateway not configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "key": h.deps.Gateway.KeyID()})
}

type createOrderReq struct {
	// Amount in paise, as the widget expects.
	Amount   int64  `json:"amount" binding:"required"`
	Currency string `json:"currency" binding:"required"`
	Email    string `json:"email"`
}

// CreateRazorpayOrder requests a payment-order handle from the gateway and,
// when the shopper is known, pins it to their attempted order so the
// success callback can be matched later.
func (h *Handler) CreateRazorpayOrder(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request"})
		return
	}
	if !h.deps.Gateway.Configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "payment gateway not configured"})
		return
	}

	receipt, err := util.RandomToken(8)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to create receipt"})
		return
	}

	id, err := h.deps.Gateway.CreateOrder(c.Request.Context(), req.Amount, req.Currency, "rcpt_"+receipt)
	if err != nil {
		h.deps.Log.Error("razorpay order create failed", zap.Int64("amount", req.Amount), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "failed to create payment order"})
		return
	}

	if email := strings.TrimSpace(strings.ToLower(req.Email)); email != "" {
		if err := h.deps.Orders.SetRazorpayOrderID(c.Request.Context(), email, id); err != nil {
			h.deps.Log.Warn("could not pin gateway order to attempted order",
				zap.String("email", email), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"order": gin.H{
			"id":       id,
			"amount":   req.Amount,
			"currency": req.Currency,
		},
	})
}

type confirmOrderReq struct {
	Email     string `json:"email" binding:"required,email"`
	PaymentID string `json:"paymentId" binding:"required"`
	// Optional checkout callback extras; when present the signature is
	// verified before the payment id is trusted.
	RazorpayOrderID string `json:"razorpayOrderId"`
	Signature       string `json:"razorpaySignature"`
}

// ConfirmOrder is the terminal payment callback: it moves the checkout
// machine Payment -> Confirmed, which requires the backend confirmation to
// succeed first. On success the remote cart is cleared and a confirmation
// email goes out best effort.
func (h *Handler) ConfirmOrder(c *gin.Context) {
	var req confirmOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request"})
		return
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))
	ctx := c.Request.Context()

	attempted, attErr := h.deps.Orders.LatestAttempted(ctx, email)

	m := h.deps.Sessions.Session(email)
	switch m.Step() {
	case checkout.StepConfirmed:
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "order already confirmed"})
		return
	case checkout.StepPayment:
		// callback arriving for the live session
	case checkout.StepSummary:
		if err := m.BeginPayment(); err != nil {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "checkout not ready for payment"})
			return
		}
	case checkout.StepCart:
		// session was lost (restart) or already ended by a finished
		// checkout; rebuild it from the persisted attempted order
		if attErr != nil {
			// no attempted order left: a replayed callback for an order
			// already paid with this payment id lands here, and the
			// idempotent confirm recognizes it
			if err := h.deps.Orders.Confirm(ctx, email, req.PaymentID); err == nil {
				c.JSON(http.StatusOK, gin.H{"success": true, "message": "order already confirmed"})
				return
			}
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "no attempted order found"})
			return
		}
		if err := m.Resume(attempted); err != nil {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "checkout not ready for payment"})
			return
		}
	default:
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "checkout not ready for payment"})
		return
	}

	if req.Signature != "" {
		rzpOrderID := req.RazorpayOrderID
		if rzpOrderID == "" && attErr == nil {
			rzpOrderID = attempted.RazorpayOrderID
		}
		if !h.deps.Gateway.VerifySignature(rzpOrderID, req.PaymentID, req.Signature) {
			_ = m.FailPayment()
			h.deps.Log.Warn("payment signature verification failed",
				zap.String("email", email), zap.String("payment_id", req.PaymentID))
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "payment verification failed"})
			return
		}
	}

	if err := m.ConfirmPayment(ctx, req.PaymentID); err != nil {
		h.deps.Log.Error("order confirmation failed", zap.String("email", email), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to confirm order"})
		return
	}
	h.deps.Sessions.End(email)

	// the paid order replaces the cart; failures here are mirror-sync only
	if err := h.deps.Carts.Save(ctx, email, cart.Cart{}); err != nil {
		h.deps.Log.Warn("could not clear remote cart after payment", zap.String("email", email), zap.Error(err))
	}

	if attErr == nil {
		confirmed := attempted
		confirmed.PaymentID = req.PaymentID
		if err := mail.SendOrderConfirmed(h.deps.Mailer, confirmed); err != nil {
			h.deps.Log.Warn("confirmation email failed", zap.String("email", email), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
