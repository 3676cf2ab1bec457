package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	// headerUserID carries the authenticated subject, injected by the
	// upstream identity proxy. The service never validates credentials
	// itself.
	headerUserID = "X-User-ID"
	// headerCartSession identifies the buyer's cart session. The client
	// issues and keeps this id; the server only keys storage by it.
	headerCartSession = "X-Cart-Session"
	// headerAdminToken authenticates administrative callers.
	headerAdminToken = "X-Admin-Token"

	ctxUserID      = "userID"
	ctxCartSession = "cartSession"
)

// RequireSession ensures a cart session header is present.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := c.GetHeader(headerCartSession)
		if session == "" {
			abortError(c, http.StatusBadRequest, "missing cart session header")
			return
		}
		c.Set(ctxCartSession, session)
		c.Next()
	}
}

// RequireUser ensures an authenticated subject header is present.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(headerUserID)
		if userID == "" {
			abortError(c, http.StatusUnauthorized, "unauthorized")
			return
		}
		c.Set(ctxUserID, userID)
		c.Next()
	}
}

// AdminAuth checks the shared admin token in constant time.
func AdminAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader(headerAdminToken)
		if token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			abortError(c, http.StatusUnauthorized, "unauthorized")
			return
		}
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString(ctxCartSession)
}

func userID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}
