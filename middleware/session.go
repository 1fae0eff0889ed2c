package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

const SessionContextKey = "sessionID"

// SessionMiddleware reads the anonymous storefront session ID. Carts and
// checkouts are keyed on it, so every cart/checkout route requires it.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("X-Session-ID")

		// Fallback to the session cookie set by the storefront.
		if sessionID == "" {
			if v, err := c.Cookie("session_id"); err == nil && v != "" {
				sessionID = v
			}
		}

		if sessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing session ID"})
			c.Abort()
			return
		}

		c.Set(SessionContextKey, sessionID)
		c.Next()
	}
}

// GetSessionID extracts the session ID from the Gin context.
func GetSessionID(c *gin.Context) (string, error) {
	if val, ok := c.Get(SessionContextKey); ok {
		if id, ok := val.(string); ok && id != "" {
			return id, nil
		}
	}
	return "", errors.New("session ID not found in context")
}
