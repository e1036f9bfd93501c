package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/alkmanistik/alkify-music-api/internal/config"
	"github.com/alkmanistik/alkify-music-api/internal/dto"
	"github.com/alkmanistik/alkify-music-api/internal/logger"
	"github.com/alkmanistik/alkify-music-api/internal/services"
)

type AuthHandler struct {
	users  *services.UserService
	config *config.Config
}

func NewAuthHandler(users *services.UserService) *AuthHandler {
	return &AuthHandler{
		users:  users,
		config: config.GlobalConfig,
	}
}

// SignUp registers an account and returns a token for it.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req dto.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	user, err := h.users.CreateUser(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.generateJWT(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, dto.TokenResponse{Token: token})
}

// SignIn exchanges valid credentials for a token.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req dto.AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	user, err := h.users.VerifyCredentials(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Invalid credentials",
		})
		return
	}

	token, err := h.generateJWT(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	logger.Info(logger.EventAuth, "User signed in", logger.Fields("user_id", user.ID))

	respondData(c, http.StatusOK, dto.TokenResponse{Token: token})
}

func (h *AuthHandler) generateJWT(userID uint) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(h.config.JWTTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}
