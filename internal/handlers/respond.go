package handlers

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/alkmanistik/alkify-music-api/internal/apperrors"
	"github.com/alkmanistik/alkify-music-api/internal/logger"
	"github.com/alkmanistik/alkify-music-api/internal/middleware"
	"github.com/alkmanistik/alkify-music-api/internal/models"
)

func respondError(c *gin.Context, err error) {
	switch {
	case apperrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": err.Error(),
		})
	case apperrors.IsForbidden(err):
		c.JSON(http.StatusForbidden, gin.H{
			"status":  "error",
			"message": err.Error(),
		})
	case apperrors.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{
			"status":  "error",
			"message": err.Error(),
		})
	default:
		logger.Error(logger.EventGeneral, "Unhandled error", logger.Fields(
			"path", c.FullPath(),
			"error", err.Error(),
		))
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Internal server error",
		})
	}
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"status":  "error",
		"message": message,
	})
}

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"status": "success",
		"data":   data,
	})
}

// requireUser fetches the account set by the JWT middleware, writing
// a 401 when it is missing.
func requireUser(c *gin.Context) (*models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "User not authenticated",
		})
		return nil, false
	}
	return user, true
}

func paramUint(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		respondBadRequest(c, "Invalid "+name)
		return 0, false
	}
	return uint(value), true
}

// bindMultipartRequest reads a JSON payload from the "request" form
// field of a multipart request, falling back to the body for plain
// JSON requests. The named file field is optional either way.
func bindMultipartRequest(c *gin.Context, out any, fileField string) (*multipart.FileHeader, bool) {
	if form, err := c.MultipartForm(); err == nil {
		values := form.Value["request"]
		if len(values) > 0 {
			if err := json.Unmarshal([]byte(values[0]), out); err != nil {
				respondBadRequest(c, "Invalid request payload")
				return nil, false
			}
		}
		var file *multipart.FileHeader
		if files := form.File[fileField]; len(files) > 0 {
			file = files[0]
		}
		return file, true
	}

	if err := c.ShouldBindJSON(out); err != nil {
		respondBadRequest(c, "Invalid request body")
		return nil, false
	}
	return nil, true
}
