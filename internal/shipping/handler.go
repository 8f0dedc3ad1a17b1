package shipping

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cresenventures/storefront/internal/domain/order"
)

type Handler struct {
	repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{repo: repo}
}

type saveShippingReq struct {
	Email    string                `json:"email" binding:"required,email"`
	Shipping order.ShippingDetails `json:"shipping" binding:"required"`
}

func (h *Handler) SaveShipping(c *gin.Context) {
	var req saveShippingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request"})
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if err := req.Shipping.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if err := h.repo.Save(c.Request.Context(), req.Email, req.Shipping); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to save shipping address"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
