package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront-sync/internal/session"
)

const sessionHeader = "X-Session-Token"

const sessionCtxKey = "storefront-session"

// sessionMiddleware resolves the session token and aborts unauthenticated
// requests. Handlers behind it read the session via currentSession.
func sessionMiddleware(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.GetHeader(sessionHeader))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing session token"})
			return
		}
		sess, ok := sessions.Get(token)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown or expired session"})
			return
		}
		c.Set(sessionCtxKey, sess)
		c.Next()
	}
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionCtxKey).(*session.Session)
}

func createSessionHandler(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := sessions.Create(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create session"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"token": sess.Token})
	}
}

type signInRequest struct {
	UserID string `json:"userId" binding:"required"`
}

func signInHandler(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signInRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userId required"})
			return
		}
		sess := currentSession(c)
		if err := sessions.SignIn(c.Request.Context(), sess.Token, req.UserID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "sign-in failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"identity": sess.Identity().String()})
	}
}

func signOutHandler(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := currentSession(c)
		if err := sessions.SignOut(c.Request.Context(), sess.Token); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "sign-out failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"identity": sess.Identity().String()})
	}
}
