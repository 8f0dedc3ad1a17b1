package orders

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/cresenventures/storefront/internal/auth"
	"github.com/cresenventures/storefront/internal/checkout"
	"github.com/cresenventures/storefront/internal/domain/cart"
	"github.com/cresenventures/storefront/internal/domain/order"
	"github.com/cresenventures/storefront/internal/mail"
	"github.com/cresenventures/storefront/internal/shipping"
)

type Dependencies struct {
	Repo     *Repo
	Users    *auth.UserRepo
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

type saveAttemptedReq struct {
	Name            string                `json:"name"`
	Email           string                `json:"email" binding:"required,email"`
	Phone           string                `json:"phone"`
	Items           cart.Cart             `json:"items" binding:"required"`
	ShippingAddress order.ShippingDetails `json:"shippingAddress"`
	// Fee sent by the client is advisory only; the calculator is re-run
	// server side and its result is what gets persisted.
	ShippingFee float64 `json:"shippingFee"`
}

// SaveAttemptedOrder drives the checkout machine through the shipping step:
// cart guard, optional auth skip, address validation, fee calculation and
// attempted-order persistence. The response carries the authoritative fee
// and order id for the summary page.
func (h *Handler) SaveAttemptedOrder(c *gin.Context) {
	var req saveAttemptedReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request"})
		return
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))

	u, err := h.deps.Users.ByEmail(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "sign in before checkout"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to resolve user"})
		return
	}

	m := h.deps.Sessions.Session(email)
	if err := m.Begin(req.Items, &u); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "cart is empty"})
		return
	}

	if shipping.HasUnknownCategory(req.Items) {
		h.deps.Log.Warn("cart line without a shipping rate category ships free",
			zap.String("email", email))
	}

	if err := m.SubmitShipping(c.Request.Context(), req.ShippingAddress); err != nil {
		switch {
		case errors.Is(err, order.ErrMissingField),
			errors.Is(err, order.ErrInvalidPhone),
			errors.Is(err, order.ErrInvalidPincode):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		default:
			h.deps.Log.Error("attempted order persistence failed", zap.String("email", email), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to save order"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"orderId":     m.OrderID(),
		"shippingFee": m.Fee(),
	})
}

func (h *Handler) GetLatestAttemptedOrder(c *gin.Context) {
	email := strings.TrimSpace(strings.ToLower(c.Query("email")))
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "email is required"})
		return
	}

	o, err := h.deps.Repo.LatestAttempted(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "no attempted order found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to load order"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": o})
}

// GetOrders is the customer order history: paid orders, newest first.
func (h *Handler) GetOrders(c *gin.Context) {
	email := strings.TrimSpace(strings.ToLower(c.Query("email")))
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "email is required"})
		return
	}

	list, err := h.deps.Repo.ListByEmail(c.Request.Context(), email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to load orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": list})
}

// AdminListOrders serves one console tab: attempted, new or dispatched.
func (h *Handler) AdminListOrders(c *gin.Context) {
	status, err := order.ParseStatus(c.Query("tab"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "unknown tab"})
		return
	}

	list, err := h.deps.Repo.ListByStatus(c.Request.Context(), status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to load orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": list})
}

type updateShippingReq struct {
	OrderID      int64  `json:"orderId" binding:"required"`
	ShippingCode string `json:"shippingCode"`
}

// AdminUpdateShipping attaches (or corrects) a shipping code. The response
// carries the re-fetched order so the console can render authoritative
// state instead of mutating locally.
func (h *Handler) AdminUpdateShipping(c *gin.Context) {
	var req updateShippingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request"})
		return
	}

	code := strings.TrimSpace(req.ShippingCode)
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "shipping code is required"})
		return
	}

	wasDispatched := false
	if prev, err := h.deps.Repo.ByID(c.Request.Context(), req.OrderID); err == nil {
		wasDispatched = prev.Status == order.StatusDispatched
	}

	o, err := h.deps.Repo.UpdateShippingCode(c.Request.Context(), req.OrderID, code)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "order not found"})
		case errors.Is(err, ErrNotDispatchable):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "order is not paid yet"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to update order"})
		}
		return
	}

	// notify the customer on first dispatch only, not on code corrections
	if !wasDispatched {
		if err := mail.SendOrderDispatched(h.deps.Mailer, o); err != nil {
			h.deps.Log.Warn("dispatch email failed", zap.Int64("order_id", o.ID), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "order": o})
}
