package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListProducts serves the storefront catalog.
func ListProducts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "products": List()})
}
