package services

import (
	"github.com/alkmanistik/alkify-music-api/internal/apperrors"
	"github.com/alkmanistik/alkify-music-api/internal/models"
)

// checkArtistOwnership gates every mutating operation on an artist and
// its content: the caller must be the artist's managing user or an
// admin. Pure function of (caller, owner).
func checkArtistOwnership(artist *models.Artist, caller *models.User) error {
	if artist.UserID != caller.ID && !caller.IsAdmin() {
		return apperrors.Forbidden("no permission to modify artist %d", artist.ID)
	}
	return nil
}
