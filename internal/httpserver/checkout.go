package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-sync/internal/checkout"
)

type checkoutRequest struct {
	Currency string `json:"currency"`
}

func checkoutHandler(svc *checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		order, err := svc.Checkout(c.Request.Context(), currentSession(c).Cart, req.Currency)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
