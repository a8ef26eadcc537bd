package middleware

import (
	"crypto/subtle"
	"net/http"

	"theeyouspace/config"

	"github.com/gin-gonic/gin"
)

// RequireAPIKey guards the export and slot-admin endpoints with the
// pre-shared key. The check runs before any business logic.
func RequireAPIKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		expected := config.AppConfig.ExportAPIKey
		if expected == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Admin API key not configured"})
			return
		}

		presented := c.GetHeader("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(presented), []byte(expected)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing API key"})
			return
		}
		c.Next()
	}
}
