package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alkmanistik/alkify-music-api/internal/logger"
)

// AdminMiddleware rejects requests whose authenticated account does
// not carry the admin role. Must run after JWTMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "Authentication required",
			})
			c.Abort()
			return
		}
		if !user.IsAdmin() {
			logger.Warn(logger.EventAccessDenied, "Admin access denied", logger.Fields(
				"user_id", user.ID,
				"path", c.FullPath(),
			))
			c.JSON(http.StatusForbidden, gin.H{
				"status":  "error",
				"message": "Admin access required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
