package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alkmanistik/alkify-music-api/internal/dto"
	"github.com/alkmanistik/alkify-music-api/internal/services"
)

type TrackHandler struct {
	tracks *services.TrackService
}

func NewTrackHandler(tracks *services.TrackService) *TrackHandler {
	return &TrackHandler{tracks: tracks}
}

func (h *TrackHandler) GetAll(c *gin.Context) {
	tracks, err := h.tracks.GetAllTracks()
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, tracks)
}

func (h *TrackHandler) GetByID(c *gin.Context) {
	id, ok := paramUint(c, "trackId")
	if !ok {
		return
	}
	track, err := h.tracks.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, track)
}

func (h *TrackHandler) GetByAlbum(c *gin.Context) {
	albumID, ok := paramUint(c, "albumId")
	if !ok {
		return
	}
	tracks, err := h.tracks.GetTracksByAlbumID(albumID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, tracks)
}

func (h *TrackHandler) Search(c *gin.Context) {
	tracks, err := h.tracks.SearchTracks(c.Query("title"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, tracks)
}

// Create adds a track to the album. Accepts multipart with a JSON
// "request" field and an optional "audio" file.
func (h *TrackHandler) Create(c *gin.Context) {
	caller, ok := requireUser(c)
	if !ok {
		return
	}
	albumID, ok := paramUint(c, "albumId")
	if !ok {
		return
	}

	var req dto.TrackRequest
	audio, ok := bindMultipartRequest(c, &req, "audio")
	if !ok {
		return
	}

	track, err := h.tracks.CreateTrack(albumID, caller, &req, audio)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, track)
}

func (h *TrackHandler) Update(c *gin.Context) {
	caller, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramUint(c, "trackId")
	if !ok {
		return
	}

	var req dto.TrackRequest
	audio, ok := bindMultipartRequest(c, &req, "audio")
	if !ok {
		return
	}

	track, err := h.tracks.UpdateTrack(id, caller, &req, audio)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, track)
}

func (h *TrackHandler) Delete(c *gin.Context) {
	caller, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramUint(c, "trackId")
	if !ok {
		return
	}
	if err := h.tracks.DeleteTrack(id, caller); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TrackHandler) AddArtist(c *gin.Context) {
	caller, ok := requireUser(c)
	if !ok {
		return
	}
	trackID, ok := paramUint(c, "trackId")
	if !ok {
		return
	}
	artistID, ok := paramUint(c, "artistId")
	if !ok {
		return
	}

	track, err := h.tracks.AddArtistToTrack(caller, trackID, artistID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, track)
}

func (h *TrackHandler) RemoveArtist(c *gin.Context) {
	caller, ok := requireUser(c)
	if !ok {
		return
	}
	trackID, ok := paramUint(c, "trackId")
	if !ok {
		return
	}
	artistID, ok := paramUint(c, "artistId")
	if !ok {
		return
	}

	if err := h.tracks.RemoveArtistFromTrack(caller, trackID, artistID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TrackHandler) Like(c *gin.Context) {
	caller, ok := requireUser(c)
	if !ok {
		return
	}
	trackID, ok := paramUint(c, "trackId")
	if !ok {
		return
	}
	if err := h.tracks.LikeTrack(trackID, caller); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TrackHandler) Unlike(c *gin.Context) {
	caller, ok := requireUser(c)
	if !ok {
		return
	}
	trackID, ok := paramUint(c, "trackId")
	if !ok {
		return
	}
	if err := h.tracks.UnlikeTrack(trackID, caller); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TrackHandler) CheckLike(c *gin.Context) {
	caller, ok := requireUser(c)
	if !ok {
		return
	}
	trackID, ok := paramUint(c, "trackId")
	if !ok {
		return
	}
	liked, err := h.tracks.IsTrackLikedByUser(trackID, caller.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, liked)
}

func (h *TrackHandler) GetLiked(c *gin.Context) {
	caller, ok := requireUser(c)
	if !ok {
		return
	}
	tracks, err := h.tracks.GetLikedTracks(caller)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, tracks)
}
