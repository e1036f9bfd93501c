package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alkmanistik/alkify-music-api/internal/dto"
	"github.com/alkmanistik/alkify-music-api/internal/services"
)

type ArtistHandler struct {
	artists *services.ArtistService
}

func NewArtistHandler(artists *services.ArtistService) *ArtistHandler {
	return &ArtistHandler{artists: artists}
}

func (h *ArtistHandler) GetAll(c *gin.Context) {
	artists, err := h.artists.GetAllArtists()
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, artists)
}

func (h *ArtistHandler) GetByID(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	artist, err := h.artists.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, artist)
}

func (h *ArtistHandler) GetByUser(c *gin.Context) {
	userID, ok := paramUint(c, "userId")
	if !ok {
		return
	}
	artists, err := h.artists.GetUserArtists(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, artists)
}

func (h *ArtistHandler) Search(c *gin.Context) {
	artists, err := h.artists.SearchArtists(c.Query("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, artists)
}

// Create registers an artist managed by the caller. Accepts multipart
// with a JSON "request" field and an optional "image" file.
func (h *ArtistHandler) Create(c *gin.Context) {
	caller, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.ArtistRequest
	image, ok := bindMultipartRequest(c, &req, "image")
	if !ok {
		return
	}

	artist, err := h.artists.CreateArtist(caller, &req, image)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, artist)
}

func (h *ArtistHandler) Update(c *gin.Context) {
	caller, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}

	var req dto.ArtistRequest
	image, ok := bindMultipartRequest(c, &req, "image")
	if !ok {
		return
	}

	artist, err := h.artists.UpdateArtist(id, caller, &req, image)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, artist)
}

func (h *ArtistHandler) Delete(c *gin.Context) {
	caller, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	if err := h.artists.DeleteArtist(id, caller); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ArtistHandler) Subscribe(c *gin.Context) {
	caller, ok := requireUser(c)
	if !ok {
		return
	}
	artistID, ok := paramUint(c, "artistId")
	if !ok {
		return
	}
	if err := h.artists.Subscribe(artistID, caller); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ArtistHandler) Unsubscribe(c *gin.Context) {
	caller, ok := requireUser(c)
	if !ok {
		return
	}
	artistID, ok := paramUint(c, "artistId")
	if !ok {
		return
	}
	if err := h.artists.Unsubscribe(artistID, caller); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ArtistHandler) CheckSubscription(c *gin.Context) {
	caller, ok := requireUser(c)
	if !ok {
		return
	}
	artistID, ok := paramUint(c, "artistId")
	if !ok {
		return
	}
	subscribed, err := h.artists.IsUserSubscribed(artistID, caller.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, subscribed)
}

func (h *ArtistHandler) GetSubscribers(c *gin.Context) {
	artistID, ok := paramUint(c, "artistId")
	if !ok {
		return
	}
	subscribers, err := h.artists.GetArtistSubscribers(artistID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, subscribers)
}

func (h *ArtistHandler) GetSubscriberCount(c *gin.Context) {
	artistID, ok := paramUint(c, "artistId")
	if !ok {
		return
	}
	count, err := h.artists.GetSubscriberCount(artistID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, count)
}

func (h *ArtistHandler) GetSubscriptions(c *gin.Context) {
	caller, ok := requireUser(c)
	if !ok {
		return
	}
	artists, err := h.artists.GetUserSubscriptions(caller)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, artists)
}
