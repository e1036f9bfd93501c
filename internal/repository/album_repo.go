package repository

import (
	"errors"
	"strings"

	"github.com/alkmanistik/alkify-music-api/internal/apperrors"
	"github.com/alkmanistik/alkify-music-api/internal/models"

	"gorm.io/gorm"
)

type AlbumRepository interface {
	Create(album *models.Album) error
	FindByID(id uint) (*models.Album, error)
	FindByArtistID(artistID uint) ([]models.Album, error)
	FindAll() ([]models.Album, error)
	SearchByTitle(title string) ([]models.Album, error)
	Save(album *models.Album) error
	Delete(album *models.Album) error

	AddArtist(album *models.Album, artist *models.Artist) error
	RemoveArtist(album *models.Album, artist *models.Artist) error
}

type albumRepo struct {
	db *gorm.DB
}

func NewAlbumRepository(db *gorm.DB) AlbumRepository {
	return &albumRepo{db: db}
}

func (r *albumRepo) Create(album *models.Album) error {
	return r.db.Create(album).Error
}

func (r *albumRepo) FindByID(id uint) (*models.Album, error) {
	var album models.Album
	err := r.db.
		Preload("Artists.User").
		Preload("Tracks").
		First(&album, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("album %d", id)
		}
		return nil, err
	}
	return &album, nil
}

func (r *albumRepo) FindByArtistID(artistID uint) ([]models.Album, error) {
	var albums []models.Album
	err := r.db.
		Preload("Artists").
		Preload("Tracks").
		Joins("JOIN album_artists ON album_artists.album_id = albums.id").
		Where("album_artists.artist_id = ?", artistID).
		Order("albums.id").
		Find(&albums).Error
	if albums == nil {
		albums = []models.Album{}
	}
	return albums, err
}

func (r *albumRepo) FindAll() ([]models.Album, error) {
	var albums []models.Album
	err := r.db.
		Preload("Artists").
		Preload("Tracks").
		Order("id").
		Find(&albums).Error
	if albums == nil {
		albums = []models.Album{}
	}
	return albums, err
}

func (r *albumRepo) SearchByTitle(title string) ([]models.Album, error) {
	var albums []models.Album
	err := r.db.
		Preload("Artists").
		Preload("Tracks").
		Where("LOWER(title) LIKE ?", "%"+strings.ToLower(title)+"%").
		Order("id").
		Find(&albums).Error
	if albums == nil {
		albums = []models.Album{}
	}
	return albums, err
}

func (r *albumRepo) Save(album *models.Album) error {
	return r.db.Save(album).Error
}

func (r *albumRepo) Delete(album *models.Album) error {
	if err := r.db.Model(album).Association("Artists").Clear(); err != nil {
		return err
	}
	return r.db.Delete(album).Error
}

func (r *albumRepo) AddArtist(album *models.Album, artist *models.Artist) error {
	return r.db.Model(album).Association("Artists").Append(artist)
}

func (r *albumRepo) RemoveArtist(album *models.Album, artist *models.Artist) error {
	return r.db.Model(album).Association("Artists").Delete(artist)
}
