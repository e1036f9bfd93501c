package services

import (
	"fmt"
	"mime/multipart"

	"github.com/alkmanistik/alkify-music-api/internal/apperrors"
	"github.com/alkmanistik/alkify-music-api/internal/cache"
	"github.com/alkmanistik/alkify-music-api/internal/dto"
	"github.com/alkmanistik/alkify-music-api/internal/logger"
	"github.com/alkmanistik/alkify-music-api/internal/models"
	"github.com/alkmanistik/alkify-music-api/internal/repository"
	"github.com/alkmanistik/alkify-music-api/internal/storage"
)

type TrackService struct {
	tracks  repository.TrackRepository
	albums  repository.AlbumRepository
	artists repository.ArtistRepository
	files   *storage.Store
	cache   *cache.Store
}

func NewTrackService(
	tracks repository.TrackRepository,
	albums repository.AlbumRepository,
	artists repository.ArtistRepository,
	files *storage.Store,
	cacheStore *cache.Store,
) *TrackService {
	return &TrackService{
		tracks:  tracks,
		albums:  albums,
		artists: artists,
		files:   files,
		cache:   cacheStore,
	}
}

// trackEvictions is the eviction set for a track mutation whose caller
// is known. A track mutation can change the track count and like count
// shown in its album's, artists' and owner's cached representations,
// so those regions go stale together with the track's own regions.
func trackEvictions(trackID, albumID uint, owner *models.User) []cache.Eviction {
	return []cache.Eviction{
		cache.All(cache.RegionTracksAll),
		cache.Key(cache.RegionTrackByID, cache.IDKey(trackID)),
		cache.Key(cache.RegionTracksByAlbum, cache.IDKey(albumID)),
		cache.All(cache.RegionTracksSearch),
		cache.All(cache.RegionTracksLiked),
		cache.All(cache.RegionAlbumsAll),
		cache.All(cache.RegionAlbumsByArtist),
		cache.Key(cache.RegionAlbumByID, cache.IDKey(albumID)),
		cache.All(cache.RegionAlbumsSearch),
		cache.All(cache.RegionArtistsAll),
		cache.All(cache.RegionArtistByID),
		cache.Key(cache.RegionArtistsByUser, cache.IDKey(owner.ID)),
		cache.All(cache.RegionArtistsSearch),
		cache.All(cache.RegionUsersAll),
		cache.Key(cache.RegionUserByID, cache.IDKey(owner.ID)),
		cache.Key(cache.RegionUserByEmail, owner.Email),
	}
}

// trackEvictionsAll is the wider set used on cascade deletes, where no
// caller identity scopes the keys.
func trackEvictionsAll(trackID, albumID uint) []cache.Eviction {
	return []cache.Eviction{
		cache.All(cache.RegionTracksAll),
		cache.Key(cache.RegionTrackByID, cache.IDKey(trackID)),
		cache.Key(cache.RegionTracksByAlbum, cache.IDKey(albumID)),
		cache.All(cache.RegionTracksSearch),
		cache.All(cache.RegionTracksLiked),
		cache.All(cache.RegionAlbumsAll),
		cache.All(cache.RegionAlbumsByArtist),
		cache.Key(cache.RegionAlbumByID, cache.IDKey(albumID)),
		cache.All(cache.RegionAlbumsSearch),
		cache.All(cache.RegionArtistsAll),
		cache.All(cache.RegionArtistByID),
		cache.All(cache.RegionArtistsByUser),
		cache.All(cache.RegionArtistsSearch),
		cache.All(cache.RegionUsersAll),
		cache.All(cache.RegionUserByID),
		cache.All(cache.RegionUserByEmail),
	}
}

func (s *TrackService) GetAllTracks() ([]*dto.TrackDTO, error) {
	return cache.Through(s.cache, cache.RegionTracksAll, cache.SingleKey, func() ([]*dto.TrackDTO, error) {
		tracks, err := s.tracks.FindAll()
		if err != nil {
			return nil, err
		}
		return dto.ToTrackDTOs(tracks), nil
	})
}

func (s *TrackService) GetByID(id uint) (*dto.TrackDTO, error) {
	return cache.Through(s.cache, cache.RegionTrackByID, cache.IDKey(id), func() (*dto.TrackDTO, error) {
		track, err := s.tracks.FindByID(id)
		if err != nil {
			return nil, err
		}
		return dto.ToTrackDTO(track), nil
	})
}

func (s *TrackService) GetTracksByAlbumID(albumID uint) ([]*dto.TrackDTO, error) {
	return cache.Through(s.cache, cache.RegionTracksByAlbum, cache.IDKey(albumID), func() ([]*dto.TrackDTO, error) {
		tracks, err := s.tracks.FindByAlbumID(albumID)
		if err != nil {
			return nil, err
		}
		return dto.ToTrackDTOs(tracks), nil
	})
}

// SearchTracks returns tracks whose title contains the query,
// case-insensitively. A blank query matches nothing.
func (s *TrackService) SearchTracks(title string) ([]*dto.TrackDTO, error) {
	if title == "" {
		return []*dto.TrackDTO{}, nil
	}
	return cache.Through(s.cache, cache.RegionTracksSearch, title, func() ([]*dto.TrackDTO, error) {
		tracks, err := s.tracks.SearchByTitle(title)
		if err != nil {
			return nil, err
		}
		return dto.ToTrackDTOs(tracks), nil
	})
}

// CreateTrack creates a track on the album, owned by the album's
// creator artist. The caller must own that artist.
func (s *TrackService) CreateTrack(albumID uint, caller *models.User, req *dto.TrackRequest, audio *multipart.FileHeader) (*dto.TrackDTO, error) {
	if req.Title == "" {
		return nil, apperrors.Conflict("track title is required")
	}

	album, err := s.albums.FindByID(albumID)
	if err != nil {
		return nil, err
	}
	creator, err := s.artists.FindByID(album.CreatorArtistID)
	if err != nil {
		return nil, err
	}
	if err := checkArtistOwnership(creator, caller); err != nil {
		return nil, err
	}

	track := &models.Track{
		Title:           req.Title,
		Genre:           req.Genre,
		DurationSeconds: req.DurationSeconds,
		Explicit:        req.Explicit,
		AlbumID:         album.ID,
		CreatorArtistID: creator.ID,
		Artists:         []*models.Artist{creator},
	}
	if audio != nil && audio.Size > 0 {
		name, err := s.files.Save(s.files.AudiosDir, audio)
		if err != nil {
			return nil, err
		}
		track.AudioFile = name
	}

	if err := s.tracks.Create(track); err != nil {
		return nil, err
	}
	logger.Info(logger.EventGeneral, "Track created", logger.Fields(
		"track_id", track.ID,
		"album_id", album.ID,
	))

	s.cache.Invalidate(trackEvictions(track.ID, album.ID, &creator.User)...)

	saved, err := s.tracks.FindByID(track.ID)
	if err != nil {
		return nil, err
	}
	return dto.ToTrackDTO(saved), nil
}

// UpdateTrack partially applies the request: empty fields are left
// unchanged, the explicit flag is always applied. A new audio file
// replaces the reference without deleting the old blob.
func (s *TrackService) UpdateTrack(trackID uint, caller *models.User, req *dto.TrackRequest, audio *multipart.FileHeader) (*dto.TrackDTO, error) {
	track, err := s.tracks.FindByID(trackID)
	if err != nil {
		return nil, err
	}
	if err := s.checkTrackOwnership(track, caller); err != nil {
		return nil, err
	}

	if req.Title != "" {
		track.Title = req.Title
	}
	if req.Genre != "" {
		track.Genre = req.Genre
	}
	if req.DurationSeconds > 0 {
		track.DurationSeconds = req.DurationSeconds
	}
	track.Explicit = req.Explicit
	if audio != nil && audio.Size > 0 {
		name, err := s.files.Save(s.files.AudiosDir, audio)
		if err != nil {
			return nil, err
		}
		track.AudioFile = name
	}

	if err := s.tracks.Save(track); err != nil {
		return nil, err
	}

	owner, err := s.trackOwner(track)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(trackEvictions(track.ID, track.AlbumID, owner)...)

	return dto.ToTrackDTO(track), nil
}

// DeleteTrack removes the track, its audio file and every cache entry
// that could mention it.
func (s *TrackService) DeleteTrack(trackID uint, caller *models.User) error {
	track, err := s.tracks.FindByID(trackID)
	if err != nil {
		return err
	}
	if err := s.checkTrackOwnership(track, caller); err != nil {
		return err
	}
	return s.delete(track)
}

func (s *TrackService) delete(track *models.Track) error {
	if track.AudioFile != "" {
		if err := s.files.Delete(s.files.AudiosDir, track.AudioFile); err != nil {
			return err
		}
	}
	if err := s.tracks.Delete(track); err != nil {
		return err
	}
	logger.Info(logger.EventGeneral, "Track deleted", logger.Fields("track_id", track.ID))

	s.cache.Invalidate(trackEvictionsAll(track.ID, track.AlbumID)...)
	return nil
}

// DeleteTracksByAlbum is the cascade entry point used by album
// deletion. No ownership check: the caller was authorized at the album
// level.
func (s *TrackService) DeleteTracksByAlbum(albumID uint) error {
	tracks, err := s.tracks.FindByAlbumID(albumID)
	if err != nil {
		return err
	}
	for i := range tracks {
		if err := s.delete(&tracks[i]); err != nil {
			return err
		}
	}
	return nil
}

// DetachArtist removes a departing artist from every track it
// co-authors but did not create. Used by artist deletion.
func (s *TrackService) DetachArtist(artist *models.Artist) error {
	tracks, err := s.tracks.FindByArtistID(artist.ID)
	if err != nil {
		return err
	}
	for i := range tracks {
		if tracks[i].CreatorArtistID == artist.ID {
			continue
		}
		if err := s.tracks.RemoveArtist(&tracks[i], artist); err != nil {
			return err
		}
		s.cache.Invalidate(trackEvictionsAll(tracks[i].ID, tracks[i].AlbumID)...)
	}
	return nil
}

func (s *TrackService) AddArtistToTrack(caller *models.User, trackID, artistID uint) (*dto.TrackDTO, error) {
	track, err := s.tracks.FindByID(trackID)
	if err != nil {
		return nil, err
	}
	if err := s.checkTrackOwnership(track, caller); err != nil {
		return nil, err
	}

	artist, err := s.artists.FindByID(artistID)
	if err != nil {
		return nil, err
	}
	if containsArtist(track.Artists, artistID) {
		return nil, apperrors.Conflict("artist %d already on track %d", artistID, trackID)
	}

	if err := s.tracks.AddArtist(track, artist); err != nil {
		return nil, err
	}

	owner, err := s.trackOwner(track)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(trackEvictions(track.ID, track.AlbumID, owner)...)

	updated, err := s.tracks.FindByID(trackID)
	if err != nil {
		return nil, err
	}
	return dto.ToTrackDTO(updated), nil
}

func (s *TrackService) RemoveArtistFromTrack(caller *models.User, trackID, artistID uint) error {
	track, err := s.tracks.FindByID(trackID)
	if err != nil {
		return err
	}
	if err := s.checkTrackOwnership(track, caller); err != nil {
		return err
	}

	artist, err := s.artists.FindByID(artistID)
	if err != nil {
		return err
	}
	if !containsArtist(track.Artists, artistID) {
		return apperrors.Conflict("artist %d is not on track %d", artistID, trackID)
	}
	if track.CreatorArtistID == artistID {
		return apperrors.Conflict("creator artist can't be removed from track %d", trackID)
	}

	if err := s.tracks.RemoveArtist(track, artist); err != nil {
		return err
	}

	owner, err := s.trackOwner(track)
	if err != nil {
		return err
	}
	s.cache.Invalidate(trackEvictions(track.ID, track.AlbumID, owner)...)
	return nil
}

// LikeTrack adds the caller to the track's liked set. Liking an already
// liked track has no effect.
func (s *TrackService) LikeTrack(trackID uint, caller *models.User) error {
	track, err := s.tracks.FindByID(trackID)
	if err != nil {
		return err
	}

	liked, err := s.tracks.IsLikedBy(trackID, caller.ID)
	if err != nil {
		return err
	}
	if liked {
		return nil
	}

	if err := s.tracks.AddLike(track, caller); err != nil {
		return err
	}
	logger.Info(logger.EventGeneral, "Track liked", logger.Fields(
		"track_id", trackID,
		"user_id", caller.ID,
	))

	s.cache.Invalidate(likeEvictions(trackID, caller)...)
	return nil
}

// UnlikeTrack removes the caller from the track's liked set. Unliking
// a track that was never liked is a no-op.
func (s *TrackService) UnlikeTrack(trackID uint, caller *models.User) error {
	track, err := s.tracks.FindByID(trackID)
	if err != nil {
		return err
	}

	liked, err := s.tracks.IsLikedBy(trackID, caller.ID)
	if err != nil {
		return err
	}
	if !liked {
		return nil
	}

	if err := s.tracks.RemoveLike(track, caller); err != nil {
		return err
	}
	logger.Info(logger.EventGeneral, "Track unliked", logger.Fields(
		"track_id", trackID,
		"user_id", caller.ID,
	))

	s.cache.Invalidate(likeEvictions(trackID, caller)...)
	return nil
}

func likeEvictions(trackID uint, caller *models.User) []cache.Eviction {
	return []cache.Eviction{
		cache.Key(cache.RegionTrackByID, cache.IDKey(trackID)),
		cache.Key(cache.RegionTracksLiked, cache.IDKey(caller.ID)),
		cache.Key(cache.RegionTrackLikedStatus, cache.PairKey(trackID, caller.ID)),
		cache.All(cache.RegionUsersAll),
		cache.Key(cache.RegionUserByID, cache.IDKey(caller.ID)),
		cache.Key(cache.RegionUserByEmail, caller.Email),
	}
}

func (s *TrackService) IsTrackLikedByUser(trackID, userID uint) (bool, error) {
	return cache.Through(s.cache, cache.RegionTrackLikedStatus, cache.PairKey(trackID, userID), func() (bool, error) {
		return s.tracks.IsLikedBy(trackID, userID)
	})
}

func (s *TrackService) GetLikedTracks(caller *models.User) ([]*dto.TrackDTO, error) {
	return cache.Through(s.cache, cache.RegionTracksLiked, cache.IDKey(caller.ID), func() ([]*dto.TrackDTO, error) {
		tracks, err := s.tracks.FindLikedByUser(caller.ID)
		if err != nil {
			return nil, err
		}
		return dto.ToTrackDTOs(tracks), nil
	})
}

// trackOwner resolves the managing user of the track's creator artist,
// whose cached entries a track mutation can stale.
func (s *TrackService) trackOwner(track *models.Track) (*models.User, error) {
	creator, err := s.artists.FindByID(track.CreatorArtistID)
	if err != nil {
		return nil, fmt.Errorf("creator of track %d: %w", track.ID, err)
	}
	return &creator.User, nil
}

func (s *TrackService) checkTrackOwnership(track *models.Track, caller *models.User) error {
	creator, err := s.artists.FindByID(track.CreatorArtistID)
	if err != nil {
		return fmt.Errorf("creator of track %d: %w", track.ID, err)
	}
	return checkArtistOwnership(creator, caller)
}

func containsArtist(artists []*models.Artist, id uint) bool {
	for _, a := range artists {
		if a.ID == id {
			return true
		}
	}
	return false
}
