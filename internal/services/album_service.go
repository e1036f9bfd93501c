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

type AlbumService struct {
	albums       repository.AlbumRepository
	artists      repository.ArtistRepository
	trackService *TrackService
	files        *storage.Store
	cache        *cache.Store
}

func NewAlbumService(
	albums repository.AlbumRepository,
	artists repository.ArtistRepository,
	trackService *TrackService,
	files *storage.Store,
	cacheStore *cache.Store,
) *AlbumService {
	return &AlbumService{
		albums:       albums,
		artists:      artists,
		trackService: trackService,
		files:        files,
		cache:        cacheStore,
	}
}

func albumEvictions(albumID uint) []cache.Eviction {
	return []cache.Eviction{
		cache.All(cache.RegionAlbumsAll),
		cache.All(cache.RegionAlbumsByArtist),
		cache.Key(cache.RegionAlbumByID, cache.IDKey(albumID)),
		cache.All(cache.RegionAlbumsSearch),
	}
}

func (s *AlbumService) GetAllAlbums() ([]*dto.AlbumDTO, error) {
	return cache.Through(s.cache, cache.RegionAlbumsAll, cache.SingleKey, func() ([]*dto.AlbumDTO, error) {
		albums, err := s.albums.FindAll()
		if err != nil {
			return nil, err
		}
		return dto.ToAlbumDTOs(albums), nil
	})
}

func (s *AlbumService) GetByID(id uint) (*dto.AlbumDTO, error) {
	return cache.Through(s.cache, cache.RegionAlbumByID, cache.IDKey(id), func() (*dto.AlbumDTO, error) {
		album, err := s.albums.FindByID(id)
		if err != nil {
			return nil, err
		}
		return dto.ToAlbumDTO(album), nil
	})
}

func (s *AlbumService) GetAlbumsByArtistID(artistID uint) ([]*dto.AlbumDTO, error) {
	exists, err := s.artists.ExistsByID(artistID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NotFound("artist %d not found", artistID)
	}
	return cache.Through(s.cache, cache.RegionAlbumsByArtist, cache.IDKey(artistID), func() ([]*dto.AlbumDTO, error) {
		albums, err := s.albums.FindByArtistID(artistID)
		if err != nil {
			return nil, err
		}
		return dto.ToAlbumDTOs(albums), nil
	})
}

// SearchAlbums returns albums whose title contains the query,
// case-insensitively. A blank query lists everything.
func (s *AlbumService) SearchAlbums(title string) ([]*dto.AlbumDTO, error) {
	if title == "" {
		return s.GetAllAlbums()
	}
	return cache.Through(s.cache, cache.RegionAlbumsSearch, title, func() ([]*dto.AlbumDTO, error) {
		albums, err := s.albums.SearchByTitle(title)
		if err != nil {
			return nil, err
		}
		return dto.ToAlbumDTOs(albums), nil
	})
}

// CreateAlbum creates an album owned by the artist, along with any
// nested tracks from the request. The caller must own the artist.
func (s *AlbumService) CreateAlbum(artistID uint, caller *models.User, req *dto.AlbumRequest, image *multipart.FileHeader) (*dto.AlbumDTO, error) {
	if req.Title == "" {
		return nil, apperrors.Conflict("album title is required")
	}

	artist, err := s.artists.FindByID(artistID)
	if err != nil {
		return nil, err
	}
	if err := checkArtistOwnership(artist, caller); err != nil {
		return nil, err
	}

	album := &models.Album{
		Title:           req.Title,
		Description:     req.Description,
		CreatorArtistID: artist.ID,
		Artists:         []*models.Artist{artist},
	}
	if image != nil && image.Size > 0 {
		name, err := s.files.Save(s.files.ImagesDir, image)
		if err != nil {
			return nil, err
		}
		album.ImageFile = name
	}

	if err := s.albums.Create(album); err != nil {
		return nil, err
	}
	logger.Info(logger.EventGeneral, "Album created", logger.Fields(
		"album_id", album.ID,
		"artist_id", artist.ID,
	))

	for _, trackReq := range req.Tracks {
		if _, err := s.trackService.CreateTrack(album.ID, caller, trackReq, nil); err != nil {
			return nil, fmt.Errorf("failed to create track %q: %w", trackReq.Title, err)
		}
	}

	s.cache.Invalidate(albumEvictions(album.ID)...)
	s.cache.Invalidate(artistEvictionsAll()...)

	saved, err := s.albums.FindByID(album.ID)
	if err != nil {
		return nil, err
	}
	return dto.ToAlbumDTO(saved), nil
}

// UpdateAlbum partially applies the request: empty fields are left
// unchanged. A new image replaces the reference without deleting the
// old blob.
func (s *AlbumService) UpdateAlbum(albumID uint, caller *models.User, req *dto.AlbumRequest, image *multipart.FileHeader) (*dto.AlbumDTO, error) {
	album, err := s.albums.FindByID(albumID)
	if err != nil {
		return nil, err
	}
	if err := s.checkAlbumOwnership(album, caller); err != nil {
		return nil, err
	}

	if req.Title != "" {
		album.Title = req.Title
	}
	if req.Description != "" {
		album.Description = req.Description
	}
	if image != nil && image.Size > 0 {
		name, err := s.files.Save(s.files.ImagesDir, image)
		if err != nil {
			return nil, err
		}
		album.ImageFile = name
	}

	if err := s.albums.Save(album); err != nil {
		return nil, err
	}

	s.cache.Invalidate(albumEvictions(album.ID)...)
	return dto.ToAlbumDTO(album), nil
}

// DeleteAlbum removes the album, its tracks, its cover image and every
// cache entry that could mention them.
func (s *AlbumService) DeleteAlbum(albumID uint, caller *models.User) error {
	album, err := s.albums.FindByID(albumID)
	if err != nil {
		return err
	}
	if err := s.checkAlbumOwnership(album, caller); err != nil {
		return err
	}
	return s.delete(album)
}

func (s *AlbumService) delete(album *models.Album) error {
	if err := s.trackService.DeleteTracksByAlbum(album.ID); err != nil {
		return fmt.Errorf("failed to delete tracks of album %d: %w", album.ID, err)
	}
	if album.ImageFile != "" {
		if err := s.files.Delete(s.files.ImagesDir, album.ImageFile); err != nil {
			return err
		}
	}
	if err := s.albums.Delete(album); err != nil {
		return err
	}
	logger.Info(logger.EventGeneral, "Album deleted", logger.Fields("album_id", album.ID))

	s.cache.Invalidate(albumEvictions(album.ID)...)
	s.cache.Invalidate(artistEvictionsAll()...)
	return nil
}

// DeleteAlbumsByArtist is the cascade entry point used by artist
// deletion. Albums the artist created are deleted outright; albums it
// merely co-authored only lose the artist.
func (s *AlbumService) DeleteAlbumsByArtist(artist *models.Artist) error {
	albums, err := s.albums.FindByArtistID(artist.ID)
	if err != nil {
		return err
	}
	for i := range albums {
		if albums[i].CreatorArtistID == artist.ID {
			if err := s.delete(&albums[i]); err != nil {
				return fmt.Errorf("failed to delete album %d: %w", albums[i].ID, err)
			}
			continue
		}
		if err := s.albums.RemoveArtist(&albums[i], artist); err != nil {
			return err
		}
		s.cache.Invalidate(albumEvictions(albums[i].ID)...)
	}
	return nil
}

func (s *AlbumService) AddArtistToAlbum(caller *models.User, albumID, artistID uint) (*dto.AlbumDTO, error) {
	album, err := s.albums.FindByID(albumID)
	if err != nil {
		return nil, err
	}
	if err := s.checkAlbumOwnership(album, caller); err != nil {
		return nil, err
	}

	artist, err := s.artists.FindByID(artistID)
	if err != nil {
		return nil, err
	}
	if containsArtist(album.Artists, artistID) {
		return nil, apperrors.Conflict("artist %d already on album %d", artistID, albumID)
	}

	if err := s.albums.AddArtist(album, artist); err != nil {
		return nil, err
	}

	s.cache.Invalidate(albumEvictions(album.ID)...)
	s.cache.Invalidate(artistEvictionsAll()...)

	updated, err := s.albums.FindByID(albumID)
	if err != nil {
		return nil, err
	}
	return dto.ToAlbumDTO(updated), nil
}

func (s *AlbumService) RemoveArtistFromAlbum(caller *models.User, albumID, artistID uint) error {
	album, err := s.albums.FindByID(albumID)
	if err != nil {
		return err
	}
	if err := s.checkAlbumOwnership(album, caller); err != nil {
		return err
	}

	artist, err := s.artists.FindByID(artistID)
	if err != nil {
		return err
	}
	if !containsArtist(album.Artists, artistID) {
		return apperrors.Conflict("artist %d is not on album %d", artistID, albumID)
	}
	if album.CreatorArtistID == artistID {
		return apperrors.Conflict("creator artist can't be removed from album %d", albumID)
	}

	if err := s.albums.RemoveArtist(album, artist); err != nil {
		return err
	}

	s.cache.Invalidate(albumEvictions(album.ID)...)
	s.cache.Invalidate(artistEvictionsAll()...)
	return nil
}

func (s *AlbumService) checkAlbumOwnership(album *models.Album, caller *models.User) error {
	creator, err := s.artists.FindByID(album.CreatorArtistID)
	if err != nil {
		return fmt.Errorf("creator of album %d: %w", album.ID, err)
	}
	return checkArtistOwnership(creator, caller)
}
