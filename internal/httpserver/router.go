package httpserver

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// buildRouter wires the operation surface the presentation layer calls.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, allowedOrigins []string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "X-Session-Token"},
		MaxAge:       12 * time.Hour,
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.POST("/sessions", createSessionHandler(deps.Sessions))

	authed := router.Group("", sessionMiddleware(deps.Sessions))
	authed.POST("/sessions/sign-in", signInHandler(deps.Sessions))
	authed.POST("/sessions/sign-out", signOutHandler(deps.Sessions))

	authed.GET("/cart", getCartHandler)
	authed.POST("/cart/items", addCartItemHandler)
	authed.PATCH("/cart/items/:itemId", updateCartItemHandler)
	authed.DELETE("/cart/items/:itemId", removeCartItemHandler)
	authed.DELETE("/cart", clearCartHandler)
	authed.GET("/cart/summary", cartSummaryHandler)
	authed.POST("/cart/open", openCartHandler)
	authed.POST("/cart/close", closeCartHandler)

	authed.GET("/wishlist", getWishlistHandler)
	authed.POST("/wishlist/items", addWishlistItemHandler)
	authed.DELETE("/wishlist/items/:productId", removeWishlistItemHandler)
	authed.GET("/wishlist/contains", wishlistContainsHandler)

	authed.POST("/checkout", checkoutHandler(deps.Checkout))

	return router
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func readyHandler(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "db not configured"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "db not reachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
