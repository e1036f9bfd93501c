package repository

import (
	"errors"
	"strings"

	"github.com/alkmanistik/alkify-music-api/internal/apperrors"
	"github.com/alkmanistik/alkify-music-api/internal/models"

	"gorm.io/gorm"
)

type ArtistRepository interface {
	Create(artist *models.Artist) error
	FindByID(id uint) (*models.Artist, error)
	FindByUserID(userID uint) ([]models.Artist, error)
	FindAll() ([]models.Artist, error)
	SearchByName(name string) ([]models.Artist, error)
	ExistsByID(id uint) (bool, error)
	Save(artist *models.Artist) error
	Delete(artist *models.Artist) error

	// Subscription membership. Add and remove go through the same
	// association, so both directions of the relation stay in step.
	AddSubscriber(artist *models.Artist, user *models.User) error
	RemoveSubscriber(artist *models.Artist, user *models.User) error
	IsSubscribed(artistID, userID uint) (bool, error)
	CountSubscribers(artistID uint) (int64, error)
	FindSubscriptions(userID uint) ([]models.Artist, error)
}

type artistRepo struct {
	db *gorm.DB
}

func NewArtistRepository(db *gorm.DB) ArtistRepository {
	return &artistRepo{db: db}
}

func (r *artistRepo) Create(artist *models.Artist) error {
	return r.db.Create(artist).Error
}

func (r *artistRepo) FindByID(id uint) (*models.Artist, error) {
	var artist models.Artist
	err := r.db.
		Preload("User").
		Preload("Subscribers").
		Preload("Albums.Tracks").
		Preload("Tracks").
		First(&artist, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("artist %d", id)
		}
		return nil, err
	}
	return &artist, nil
}

func (r *artistRepo) FindByUserID(userID uint) ([]models.Artist, error) {
	var artists []models.Artist
	err := r.db.
		Preload("Subscribers").
		Preload("Albums.Tracks").
		Preload("Tracks").
		Where("user_id = ?", userID).
		Order("id").
		Find(&artists).Error
	if artists == nil {
		artists = []models.Artist{}
	}
	return artists, err
}

func (r *artistRepo) FindAll() ([]models.Artist, error) {
	var artists []models.Artist
	err := r.db.
		Preload("Subscribers").
		Preload("Albums.Tracks").
		Preload("Tracks").
		Order("id").
		Find(&artists).Error
	if artists == nil {
		artists = []models.Artist{}
	}
	return artists, err
}

func (r *artistRepo) SearchByName(name string) ([]models.Artist, error) {
	var artists []models.Artist
	err := r.db.
		Preload("Subscribers").
		Preload("Albums.Tracks").
		Preload("Tracks").
		Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%").
		Order("id").
		Find(&artists).Error
	if artists == nil {
		artists = []models.Artist{}
	}
	return artists, err
}

func (r *artistRepo) ExistsByID(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Artist{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *artistRepo) Save(artist *models.Artist) error {
	return r.db.Save(artist).Error
}

func (r *artistRepo) Delete(artist *models.Artist) error {
	if err := r.db.Model(artist).Association("Subscribers").Clear(); err != nil {
		return err
	}
	if err := r.db.Model(artist).Association("Albums").Clear(); err != nil {
		return err
	}
	if err := r.db.Model(artist).Association("Tracks").Clear(); err != nil {
		return err
	}
	return r.db.Delete(artist).Error
}

func (r *artistRepo) AddSubscriber(artist *models.Artist, user *models.User) error {
	return r.db.Model(artist).Association("Subscribers").Append(user)
}

func (r *artistRepo) RemoveSubscriber(artist *models.Artist, user *models.User) error {
	return r.db.Model(artist).Association("Subscribers").Delete(user)
}

func (r *artistRepo) IsSubscribed(artistID, userID uint) (bool, error) {
	var count int64
	err := r.db.Table("artist_subscriptions").
		Where("artist_id = ? AND user_id = ?", artistID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *artistRepo) CountSubscribers(artistID uint) (int64, error) {
	var count int64
	err := r.db.Table("artist_subscriptions").
		Where("artist_id = ?", artistID).
		Count(&count).Error
	return count, err
}

func (r *artistRepo) FindSubscriptions(userID uint) ([]models.Artist, error) {
	var artists []models.Artist
	err := r.db.
		Preload("Subscribers").
		Joins("JOIN artist_subscriptions ON artist_subscriptions.artist_id = artists.id").
		Where("artist_subscriptions.user_id = ?", userID).
		Order("artists.id").
		Find(&artists).Error
	if artists == nil {
		artists = []models.Artist{}
	}
	return artists, err
}
