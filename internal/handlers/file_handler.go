package handlers

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alkmanistik/alkify-music-api/internal/storage"
)

type FileHandler struct {
	files *storage.Store
}

func NewFileHandler(files *storage.Store) *FileHandler {
	return &FileHandler{files: files}
}

func contentTypeFor(name, fallback string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".ogg":
		return "audio/ogg"
	case ".flac":
		return "audio/flac"
	default:
		return fallback
	}
}

func (h *FileHandler) serve(c *gin.Context, dir, fallbackType string) {
	name := c.Param("name")
	reader, err := h.files.Open(dir, name)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"message": "File not found",
			})
			return
		}
		respondError(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Type", contentTypeFor(name, fallbackType))
	c.Status(http.StatusOK)
	io.Copy(c.Writer, reader)
}

func (h *FileHandler) GetImage(c *gin.Context) {
	h.serve(c, h.files.ImagesDir, "application/octet-stream")
}

func (h *FileHandler) GetAudio(c *gin.Context) {
	h.serve(c, h.files.AudiosDir, "application/octet-stream")
}

func (h *FileHandler) remove(c *gin.Context, dir string) {
	if err := h.files.Delete(dir, c.Param("name")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteImage removes a stored image. Admin only. Deleting a name
// that no longer exists still succeeds.
func (h *FileHandler) DeleteImage(c *gin.Context) {
	h.remove(c, h.files.ImagesDir)
}

func (h *FileHandler) DeleteAudio(c *gin.Context) {
	h.remove(c, h.files.AudiosDir)
}

func (h *FileHandler) upload(c *gin.Context, dir string) {
	file, err := c.FormFile("file")
	if err != nil {
		respondBadRequest(c, "File is required")
		return
	}
	name, err := h.files.Save(dir, file)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, gin.H{"name": name})
}

// UploadImage stores an image outside any entity. Admin only.
func (h *FileHandler) UploadImage(c *gin.Context) {
	h.upload(c, h.files.ImagesDir)
}

func (h *FileHandler) UploadAudio(c *gin.Context) {
	h.upload(c, h.files.AudiosDir)
}
