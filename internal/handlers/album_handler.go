package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alkmanistik/alkify-music-api/internal/dto"
	"github.com/alkmanistik/alkify-music-api/internal/services"
)

type AlbumHandler struct {
	albums *services.AlbumService
}

func NewAlbumHandler(albums *services.AlbumService) *AlbumHandler {
	return &AlbumHandler{albums: albums}
}

func (h *AlbumHandler) GetAll(c *gin.Context) {
	albums, err := h.albums.GetAllAlbums()
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, albums)
}

func (h *AlbumHandler) GetByID(c *gin.Context) {
	id, ok := paramUint(c, "albumId")
	if !ok {
		return
	}
	album, err := h.albums.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, album)
}

func (h *AlbumHandler) GetByArtist(c *gin.Context) {
	artistID, ok := paramUint(c, "artistId")
	if !ok {
		return
	}
	albums, err := h.albums.GetAlbumsByArtistID(artistID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, albums)
}

func (h *AlbumHandler) Search(c *gin.Context) {
	albums, err := h.albums.SearchAlbums(c.Query("title"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, albums)
}

// Create adds an album to the artist. Accepts multipart with a JSON
// "request" field and an optional "image" file.
func (h *AlbumHandler) Create(c *gin.Context) {
	caller, ok := requireUser(c)
	if !ok {
		return
	}
	artistID, ok := paramUint(c, "artistId")
	if !ok {
		return
	}

	var req dto.AlbumRequest
	image, ok := bindMultipartRequest(c, &req, "image")
	if !ok {
		return
	}

	album, err := h.albums.CreateAlbum(artistID, caller, &req, image)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, album)
}

func (h *AlbumHandler) Update(c *gin.Context) {
	caller, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramUint(c, "albumId")
	if !ok {
		return
	}

	var req dto.AlbumRequest
	image, ok := bindMultipartRequest(c, &req, "image")
	if !ok {
		return
	}

	album, err := h.albums.UpdateAlbum(id, caller, &req, image)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, album)
}

func (h *AlbumHandler) Delete(c *gin.Context) {
	caller, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramUint(c, "albumId")
	if !ok {
		return
	}
	if err := h.albums.DeleteAlbum(id, caller); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AlbumHandler) AddArtist(c *gin.Context) {
	caller, ok := requireUser(c)
	if !ok {
		return
	}
	albumID, ok := paramUint(c, "albumId")
	if !ok {
		return
	}
	artistID, ok := paramUint(c, "artistId")
	if !ok {
		return
	}

	album, err := h.albums.AddArtistToAlbum(caller, albumID, artistID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, album)
}

func (h *AlbumHandler) RemoveArtist(c *gin.Context) {
	caller, ok := requireUser(c)
	if !ok {
		return
	}
	albumID, ok := paramUint(c, "albumId")
	if !ok {
		return
	}
	artistID, ok := paramUint(c, "artistId")
	if !ok {
		return
	}

	if err := h.albums.RemoveArtistFromAlbum(caller, albumID, artistID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
