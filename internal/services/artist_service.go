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

type ArtistService struct {
	artists      repository.ArtistRepository
	users        repository.UserRepository
	albumService *AlbumService
	trackService *TrackService
	files        *storage.Store
	cache        *cache.Store
}

func NewArtistService(
	artists repository.ArtistRepository,
	users repository.UserRepository,
	albumService *AlbumService,
	trackService *TrackService,
	files *storage.Store,
	cacheStore *cache.Store,
) *ArtistService {
	return &ArtistService{
		artists:      artists,
		users:        users,
		albumService: albumService,
		trackService: trackService,
		files:        files,
		cache:        cacheStore,
	}
}

func artistEvictions(artistID, userID uint) []cache.Eviction {
	return []cache.Eviction{
		cache.All(cache.RegionArtistsAll),
		cache.Key(cache.RegionArtistByID, cache.IDKey(artistID)),
		cache.Key(cache.RegionArtistsByUser, cache.IDKey(userID)),
		cache.All(cache.RegionArtistsSearch),
	}
}

// artistEvictionsAll is used when an artist-visible change has no
// single owning user in scope, such as album co-author changes.
func artistEvictionsAll() []cache.Eviction {
	return []cache.Eviction{
		cache.All(cache.RegionArtistsAll),
		cache.All(cache.RegionArtistByID),
		cache.All(cache.RegionArtistsByUser),
		cache.All(cache.RegionArtistsSearch),
	}
}

func (s *ArtistService) GetAllArtists() ([]*dto.ArtistDTO, error) {
	return cache.Through(s.cache, cache.RegionArtistsAll, cache.SingleKey, func() ([]*dto.ArtistDTO, error) {
		artists, err := s.artists.FindAll()
		if err != nil {
			return nil, err
		}
		return dto.ToArtistDTOs(artists), nil
	})
}

func (s *ArtistService) GetByID(id uint) (*dto.ArtistDTO, error) {
	return cache.Through(s.cache, cache.RegionArtistByID, cache.IDKey(id), func() (*dto.ArtistDTO, error) {
		artist, err := s.artists.FindByID(id)
		if err != nil {
			return nil, err
		}
		return dto.ToArtistDTO(artist), nil
	})
}

// GetUserArtists lists the artists managed by the user.
func (s *ArtistService) GetUserArtists(userID uint) ([]*dto.ArtistDTO, error) {
	if _, err := s.users.FindByID(userID); err != nil {
		return nil, err
	}
	return cache.Through(s.cache, cache.RegionArtistsByUser, cache.IDKey(userID), func() ([]*dto.ArtistDTO, error) {
		artists, err := s.artists.FindByUserID(userID)
		if err != nil {
			return nil, err
		}
		return dto.ToArtistDTOs(artists), nil
	})
}

// SearchArtists returns artists whose name contains the query,
// case-insensitively. A blank query lists everything.
func (s *ArtistService) SearchArtists(name string) ([]*dto.ArtistDTO, error) {
	return cache.Through(s.cache, cache.RegionArtistsSearch, name, func() ([]*dto.ArtistDTO, error) {
		artists, err := s.artists.SearchByName(name)
		if err != nil {
			return nil, err
		}
		return dto.ToArtistDTOs(artists), nil
	})
}

// CreateArtist creates an artist managed by the caller, along with any
// nested albums from the request.
func (s *ArtistService) CreateArtist(caller *models.User, req *dto.ArtistRequest, image *multipart.FileHeader) (*dto.ArtistDTO, error) {
	if req.Name == "" {
		return nil, apperrors.Conflict("artist name is required")
	}

	artist := &models.Artist{
		Name:        req.Name,
		Description: req.Description,
		UserID:      caller.ID,
	}
	if image != nil && image.Size > 0 {
		name, err := s.files.Save(s.files.ImagesDir, image)
		if err != nil {
			return nil, err
		}
		artist.ImageFile = name
	}

	if err := s.artists.Create(artist); err != nil {
		return nil, err
	}
	logger.Info(logger.EventGeneral, "Artist created", logger.Fields(
		"artist_id", artist.ID,
		"user_id", caller.ID,
	))

	for _, albumReq := range req.Albums {
		if _, err := s.albumService.CreateAlbum(artist.ID, caller, albumReq, nil); err != nil {
			return nil, fmt.Errorf("failed to create album %q: %w", albumReq.Title, err)
		}
	}

	evictions := append(artistEvictions(artist.ID, caller.ID),
		cache.Key(cache.RegionSubscriptions, cache.IDKey(caller.ID)))
	s.cache.Invalidate(evictions...)

	saved, err := s.artists.FindByID(artist.ID)
	if err != nil {
		return nil, err
	}
	return dto.ToArtistDTO(saved), nil
}

// UpdateArtist partially applies the request. An empty name is left
// unchanged; the description is always applied, so it can be cleared.
func (s *ArtistService) UpdateArtist(artistID uint, caller *models.User, req *dto.ArtistRequest, image *multipart.FileHeader) (*dto.ArtistDTO, error) {
	artist, err := s.artists.FindByID(artistID)
	if err != nil {
		return nil, err
	}
	if err := checkArtistOwnership(artist, caller); err != nil {
		return nil, err
	}

	if req.Name != "" {
		artist.Name = req.Name
	}
	artist.Description = req.Description
	if image != nil && image.Size > 0 {
		name, err := s.files.Save(s.files.ImagesDir, image)
		if err != nil {
			return nil, err
		}
		artist.ImageFile = name
	}

	if err := s.artists.Save(artist); err != nil {
		return nil, err
	}

	s.cache.Invalidate(artistEvictions(artist.ID, artist.UserID)...)
	return dto.ToArtistDTO(artist), nil
}

// DeleteArtist removes the artist together with the albums and tracks
// it created. Content it merely co-authored only loses the artist.
func (s *ArtistService) DeleteArtist(artistID uint, caller *models.User) error {
	artist, err := s.artists.FindByID(artistID)
	if err != nil {
		return err
	}
	if err := checkArtistOwnership(artist, caller); err != nil {
		return err
	}
	return s.delete(artist)
}

func (s *ArtistService) delete(artist *models.Artist) error {
	if err := s.albumService.DeleteAlbumsByArtist(artist); err != nil {
		return fmt.Errorf("failed to delete albums of artist %d: %w", artist.ID, err)
	}
	if err := s.trackService.DetachArtist(artist); err != nil {
		return fmt.Errorf("failed to detach artist %d from tracks: %w", artist.ID, err)
	}
	if artist.ImageFile != "" {
		if err := s.files.Delete(s.files.ImagesDir, artist.ImageFile); err != nil {
			return err
		}
	}
	if err := s.artists.Delete(artist); err != nil {
		return err
	}
	logger.Info(logger.EventGeneral, "Artist deleted", logger.Fields("artist_id", artist.ID))

	evictions := append(artistEvictions(artist.ID, artist.UserID),
		cache.All(cache.RegionSubscriptions),
		cache.Key(cache.RegionSubscribers, cache.IDKey(artist.ID)),
		cache.Key(cache.RegionSubscriberCount, cache.IDKey(artist.ID)),
	)
	s.cache.Invalidate(evictions...)
	return nil
}

// DeleteAllArtistsByUser is the cascade entry point used by user
// deletion.
func (s *ArtistService) DeleteAllArtistsByUser(userID uint) error {
	artists, err := s.artists.FindByUserID(userID)
	if err != nil {
		return err
	}
	for i := range artists {
		if err := s.delete(&artists[i]); err != nil {
			return fmt.Errorf("failed to delete artist %d: %w", artists[i].ID, err)
		}
	}
	return nil
}

// Subscribe adds the caller to the artist's subscribers. Subscribing
// twice has no effect.
func (s *ArtistService) Subscribe(artistID uint, caller *models.User) error {
	artist, err := s.artists.FindByID(artistID)
	if err != nil {
		return err
	}

	subscribed, err := s.artists.IsSubscribed(artistID, caller.ID)
	if err != nil {
		return err
	}
	if subscribed {
		return nil
	}

	if err := s.artists.AddSubscriber(artist, caller); err != nil {
		return err
	}
	logger.Info(logger.EventGeneral, "Subscribed to artist", logger.Fields(
		"artist_id", artistID,
		"user_id", caller.ID,
	))

	s.cache.Invalidate(subscriptionEvictions(artistID, caller.ID)...)
	return nil
}

// Unsubscribe removes the caller from the artist's subscribers.
// Unsubscribing without a subscription is a no-op.
func (s *ArtistService) Unsubscribe(artistID uint, caller *models.User) error {
	artist, err := s.artists.FindByID(artistID)
	if err != nil {
		return err
	}

	subscribed, err := s.artists.IsSubscribed(artistID, caller.ID)
	if err != nil {
		return err
	}
	if !subscribed {
		return nil
	}

	if err := s.artists.RemoveSubscriber(artist, caller); err != nil {
		return err
	}
	logger.Info(logger.EventGeneral, "Unsubscribed from artist", logger.Fields(
		"artist_id", artistID,
		"user_id", caller.ID,
	))

	s.cache.Invalidate(subscriptionEvictions(artistID, caller.ID)...)
	return nil
}

func subscriptionEvictions(artistID, userID uint) []cache.Eviction {
	return []cache.Eviction{
		cache.Key(cache.RegionArtistByID, cache.IDKey(artistID)),
		cache.Key(cache.RegionSubscribers, cache.IDKey(artistID)),
		cache.Key(cache.RegionSubscriberCount, cache.IDKey(artistID)),
		cache.Key(cache.RegionSubscriptions, cache.IDKey(userID)),
		cache.Key(cache.RegionSubscribed, cache.PairKey(artistID, userID)),
	}
}

func (s *ArtistService) IsUserSubscribed(artistID, userID uint) (bool, error) {
	return cache.Through(s.cache, cache.RegionSubscribed, cache.PairKey(artistID, userID), func() (bool, error) {
		return s.artists.IsSubscribed(artistID, userID)
	})
}

func (s *ArtistService) GetSubscriberCount(artistID uint) (int64, error) {
	exists, err := s.artists.ExistsByID(artistID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, apperrors.NotFound("artist %d not found", artistID)
	}
	return cache.Through(s.cache, cache.RegionSubscriberCount, cache.IDKey(artistID), func() (int64, error) {
		return s.artists.CountSubscribers(artistID)
	})
}

func (s *ArtistService) GetArtistSubscribers(artistID uint) ([]*dto.UserDTO, error) {
	return cache.Through(s.cache, cache.RegionSubscribers, cache.IDKey(artistID), func() ([]*dto.UserDTO, error) {
		artist, err := s.artists.FindByID(artistID)
		if err != nil {
			return nil, err
		}
		users := make([]*dto.UserDTO, 0, len(artist.Subscribers))
		for _, u := range artist.Subscribers {
			users = append(users, dto.ToUserDTO(u))
		}
		return users, nil
	})
}

func (s *ArtistService) GetUserSubscriptions(caller *models.User) ([]*dto.ArtistDTO, error) {
	return cache.Through(s.cache, cache.RegionSubscriptions, cache.IDKey(caller.ID), func() ([]*dto.ArtistDTO, error) {
		artists, err := s.artists.FindSubscriptions(caller.ID)
		if err != nil {
			return nil, err
		}
		return dto.ToArtistDTOs(artists), nil
	})
}
