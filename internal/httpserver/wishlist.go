package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-sync/internal/domain"
	"storefront-sync/internal/syncstore"
)

type wishlistResponse struct {
	Items     []domain.Item `json:"items"`
	ItemCount int           `json:"itemCount"`
	Loading   bool          `json:"loading"`
}

func wishlistState(wl *syncstore.Wishlist) wishlistResponse {
	items := wl.Items()
	if items == nil {
		items = []domain.Item{}
	}
	return wishlistResponse{
		Items:     items,
		ItemCount: wl.ItemCount(),
		Loading:   wl.Loading(),
	}
}

func getWishlistHandler(c *gin.Context) {
	c.JSON(http.StatusOK, wishlistState(currentSession(c).Wishlist))
}

func addWishlistItemHandler(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	wl := currentSession(c).Wishlist
	wl.AddItem(req.toNewItem())
	c.JSON(http.StatusOK, wishlistState(wl))
}

func removeWishlistItemHandler(c *gin.Context) {
	wl := currentSession(c).Wishlist
	wl.RemoveItem(c.Param("productId"), c.Query("variant"))
	c.JSON(http.StatusOK, wishlistState(wl))
}

func wishlistContainsHandler(c *gin.Context) {
	productID := c.Query("productId")
	if productID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId required"})
		return
	}
	wl := currentSession(c).Wishlist
	c.JSON(http.StatusOK, gin.H{"contains": wl.Contains(productID, c.Query("variant"))})
}
