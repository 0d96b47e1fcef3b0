package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront-sync/internal/domain"
	"storefront-sync/internal/syncstore"
)

type addItemRequest struct {
	ProductID     string           `json:"productId" binding:"required"`
	Variant       string           `json:"variant"`
	ProductType   string           `json:"productType" binding:"required"`
	Name          string           `json:"name" binding:"required"`
	Image         string           `json:"image"`
	Material      string           `json:"material"`
	Stone         string           `json:"stone"`
	Price         decimal.Decimal  `json:"price" binding:"required"`
	OriginalPrice *decimal.Decimal `json:"originalPrice"`
	Currency      string           `json:"currency" binding:"required"`
}

func (r addItemRequest) toNewItem() syncstore.NewItem {
	return syncstore.NewItem{
		ProductID:     r.ProductID,
		Variant:       r.Variant,
		ProductType:   domain.ProductType(r.ProductType),
		Name:          r.Name,
		Image:         r.Image,
		Material:      r.Material,
		Stone:         r.Stone,
		Price:         r.Price,
		OriginalPrice: r.OriginalPrice,
		Currency:      r.Currency,
	}
}

type cartResponse struct {
	Items     []domain.Item `json:"items"`
	ItemCount int           `json:"itemCount"`
	Open      bool          `json:"open"`
	Loading   bool          `json:"loading"`
}

func cartState(cart *syncstore.Cart) cartResponse {
	items := cart.Items()
	if items == nil {
		items = []domain.Item{}
	}
	return cartResponse{
		Items:     items,
		ItemCount: cart.ItemCount(),
		Open:      cart.IsOpen(),
		Loading:   cart.Loading(),
	}
}

func getCartHandler(c *gin.Context) {
	c.JSON(http.StatusOK, cartState(currentSession(c).Cart))
}

func addCartItemHandler(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cart := currentSession(c).Cart
	cart.AddItem(req.toNewItem())
	c.JSON(http.StatusOK, cartState(cart))
}

type updateQuantityRequest struct {
	// Pointer so a missing field is rejected rather than read as an
	// explicit zero, which would delete the line.
	Quantity *int `json:"quantity" binding:"required"`
}

func updateCartItemHandler(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity required"})
		return
	}
	cart := currentSession(c).Cart
	cart.UpdateQuantity(c.Param("itemId"), *req.Quantity)
	c.JSON(http.StatusOK, cartState(cart))
}

func removeCartItemHandler(c *gin.Context) {
	cart := currentSession(c).Cart
	cart.RemoveItem(c.Param("itemId"))
	c.JSON(http.StatusOK, cartState(cart))
}

func clearCartHandler(c *gin.Context) {
	cart := currentSession(c).Cart
	cart.Clear()
	c.JSON(http.StatusOK, cartState(cart))
}

func cartSummaryHandler(c *gin.Context) {
	c.JSON(http.StatusOK, currentSession(c).Cart.Summary())
}

func openCartHandler(c *gin.Context) {
	cart := currentSession(c).Cart
	cart.Open()
	c.JSON(http.StatusOK, cartState(cart))
}

func closeCartHandler(c *gin.Context) {
	cart := currentSession(c).Cart
	cart.Close()
	c.JSON(http.StatusOK, cartState(cart))
}
