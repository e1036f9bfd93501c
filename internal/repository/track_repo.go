package repository

import (
	"errors"
	"strings"

	"github.com/alkmanistik/alkify-music-api/internal/apperrors"
	"github.com/alkmanistik/alkify-music-api/internal/models"

	"gorm.io/gorm"
)

type TrackRepository interface {
	Create(track *models.Track) error
	FindByID(id uint) (*models.Track, error)
	FindByAlbumID(albumID uint) ([]models.Track, error)
	FindByArtistID(artistID uint) ([]models.Track, error)
	FindAll() ([]models.Track, error)
	SearchByTitle(title string) ([]models.Track, error)
	Save(track *models.Track) error
	Delete(track *models.Track) error

	AddArtist(track *models.Track, artist *models.Artist) error
	RemoveArtist(track *models.Track, artist *models.Artist) error

	AddLike(track *models.Track, user *models.User) error
	RemoveLike(track *models.Track, user *models.User) error
	IsLikedBy(trackID, userID uint) (bool, error)
	FindLikedByUser(userID uint) ([]models.Track, error)
}

type trackRepo struct {
	db *gorm.DB
}

func NewTrackRepository(db *gorm.DB) TrackRepository {
	return &trackRepo{db: db}
}

func (r *trackRepo) Create(track *models.Track) error {
	return r.db.Create(track).Error
}

func (r *trackRepo) FindByID(id uint) (*models.Track, error) {
	var track models.Track
	err := r.db.
		Preload("Album").
		Preload("Artists.User").
		Preload("LikedUsers").
		First(&track, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("track %d", id)
		}
		return nil, err
	}
	return &track, nil
}

func (r *trackRepo) FindByAlbumID(albumID uint) ([]models.Track, error) {
	var tracks []models.Track
	err := r.db.
		Preload("Album").
		Preload("Artists").
		Preload("LikedUsers").
		Where("album_id = ?", albumID).
		Order("id").
		Find(&tracks).Error
	if tracks == nil {
		tracks = []models.Track{}
	}
	return tracks, err
}

func (r *trackRepo) FindAll() ([]models.Track, error) {
	var tracks []models.Track
	err := r.db.
		Preload("Album").
		Preload("Artists").
		Preload("LikedUsers").
		Order("id").
		Find(&tracks).Error
	if tracks == nil {
		tracks = []models.Track{}
	}
	return tracks, err
}

func (r *trackRepo) SearchByTitle(title string) ([]models.Track, error) {
	var tracks []models.Track
	err := r.db.
		Preload("Album").
		Preload("Artists").
		Preload("LikedUsers").
		Where("LOWER(title) LIKE ?", "%"+strings.ToLower(title)+"%").
		Order("id").
		Find(&tracks).Error
	if tracks == nil {
		tracks = []models.Track{}
	}
	return tracks, err
}

func (r *trackRepo) Save(track *models.Track) error {
	return r.db.Save(track).Error
}

func (r *trackRepo) Delete(track *models.Track) error {
	if err := r.db.Model(track).Association("Artists").Clear(); err != nil {
		return err
	}
	if err := r.db.Model(track).Association("LikedUsers").Clear(); err != nil {
		return err
	}
	return r.db.Delete(track).Error
}

func (r *trackRepo) AddArtist(track *models.Track, artist *models.Artist) error {
	return r.db.Model(track).Association("Artists").Append(artist)
}

func (r *trackRepo) RemoveArtist(track *models.Track, artist *models.Artist) error {
	return r.db.Model(track).Association("Artists").Delete(artist)
}

func (r *trackRepo) AddLike(track *models.Track, user *models.User) error {
	return r.db.Model(track).Association("LikedUsers").Append(user)
}

func (r *trackRepo) RemoveLike(track *models.Track, user *models.User) error {
	return r.db.Model(track).Association("LikedUsers").Delete(user)
}

func (r *trackRepo) IsLikedBy(trackID, userID uint) (bool, error) {
	var count int64
	err := r.db.Table("track_likes").
		Where("track_id = ? AND user_id = ?", trackID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *trackRepo) FindByArtistID(artistID uint) ([]models.Track, error) {
	var tracks []models.Track
	err := r.db.
		Preload("Album").
		Preload("Artists").
		Preload("LikedUsers").
		Joins("JOIN track_artists ON track_artists.track_id = tracks.id").
		Where("track_artists.artist_id = ?", artistID).
		Order("tracks.id").
		Find(&tracks).Error
	if tracks == nil {
		tracks = []models.Track{}
	}
	return tracks, err
}

func (r *trackRepo) FindLikedByUser(userID uint) ([]models.Track, error) {
	var tracks []models.Track
	err := r.db.
		Preload("Album").
		Preload("Artists").
		Preload("LikedUsers").
		Joins("JOIN track_likes ON track_likes.track_id = tracks.id").
		Where("track_likes.user_id = ?", userID).
		Order("tracks.id").
		Find(&tracks).Error
	if tracks == nil {
		tracks = []models.Track{}
	}
	return tracks, err
}
