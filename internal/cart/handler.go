package cart

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cresenventures/storefront/internal/domain/cart"
)

type Handler struct {
	repo *Repo
	log  *zap.Logger
}

func NewHandler(repo *Repo, log *zap.Logger) *Handler {
	return &Handler{repo: repo, log: log}
}

type getCartReq struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *Handler) GetCart(c *gin.Context) {
	var req getCartReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request"})
		return
	}

	items, err := h.repo.Get(c.Request.Context(), normalizeEmail(req.Email))
	if err != nil {
		h.log.Warn("cart fetch failed", zap.String("email", req.Email), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to load cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "cart": items})
}

type saveCartReq struct {
	Email string    `json:"email" binding:"required,email"`
	Cart  cart.Cart `json:"cart"`
}

// SaveCart overwrites the remote mirror of the shopper's cart. The client
// fires this on every mutation; an empty cart is a valid snapshot (clear).
func (h *Handler) SaveCart(c *gin.Context) {
	var req saveCartReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request"})
		return
	}

	email := normalizeEmail(req.Email)
	items := req.Cart.Normalize()

	if err := h.repo.Save(c.Request.Context(), email, items); err != nil {
		// the client treats the sync as fire-and-forget, so this log line is
		// the only trace of a failed mirror
		h.log.Warn("cart sync failed", zap.String("email", email), zap.Int("items", len(items)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to save cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
