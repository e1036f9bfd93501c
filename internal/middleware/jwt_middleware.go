package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/alkmanistik/alkify-music-api/internal/config"
	"github.com/alkmanistik/alkify-music-api/internal/logger"
	"github.com/alkmanistik/alkify-music-api/internal/models"
	"github.com/alkmanistik/alkify-music-api/internal/repository"
)

const currentUserKey = "currentUser"

// JWTMiddleware authenticates the request via a Bearer token, loads
// the account it names and stores it in the gin context.
func JWTMiddleware(users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "Authorization header required",
			})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "Invalid authorization format",
			})
			c.Abort()
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			if config.GlobalConfig.JWTSecret == "" {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return []byte(config.GlobalConfig.JWTSecret), nil
		})

		if err != nil {
			var message string
			switch {
			case errors.Is(err, jwt.ErrTokenExpired):
				message = "Token has expired"
			case errors.Is(err, jwt.ErrTokenNotValidYet):
				message = "Token not valid yet"
			case errors.Is(err, jwt.ErrTokenSignatureInvalid):
				message = "Invalid token signature"
			case errors.Is(err, jwt.ErrTokenMalformed):
				message = "Token is malformed"
			default:
				message = "Token validation failed"
			}
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": message,
			})
			c.Abort()
			return
		}

		if !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "Invalid token",
			})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "Invalid token claims",
			})
			c.Abort()
			return
		}
		userIDFloat, ok := claims["user_id"].(float64)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "Invalid token claims: user_id not found",
			})
			c.Abort()
			return
		}
		userID := uint(userIDFloat)

		user, err := users.FindByID(userID)
		if err != nil {
			logger.Warn(logger.EventAuth, "Token for unknown user", logger.Fields("user_id", userID))
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "Account no longer exists",
			})
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated account set by JWTMiddleware.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}
