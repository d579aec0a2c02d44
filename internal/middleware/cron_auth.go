package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CronAuthMiddleware creates a Gin middleware that validates the
// Authorization bearer token of scheduler trigger requests against the
// configured shared secret.
func CronAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable,
				gin.H{"error": gin.H{"code": "CRON_NOT_CONFIGURED", "message": "Scheduler trigger endpoint is not configured"}})
			return
		}
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"error": gin.H{"code": "INVALID_CRON_SECRET", "message": "Invalid or missing cron secret"}})
			return
		}
		c.Next()
	}
}
