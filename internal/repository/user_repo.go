package repository

import (
	"errors"

	"github.com/alkmanistik/alkify-music-api/internal/apperrors"
	"github.com/alkmanistik/alkify-music-api/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *models.User) error
	FindByID(id uint) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	ExistsByEmail(email string) (bool, error)
	FindAll() ([]models.User, error)
	Save(user *models.User) error
	Delete(user *models.User) error
	HashPassword(password string) (string, error)
	VerifyPassword(hashedPassword, password string) error
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *userRepo) FindByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.Preload("ManagedArtists.Subscribers").Preload("ManagedArtists.Albums.Tracks").Preload("ManagedArtists.Tracks").First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user %d", id)
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Preload("ManagedArtists.Subscribers").Preload("ManagedArtists.Albums.Tracks").Preload("ManagedArtists.Tracks").Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user with email %s", email)
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *userRepo) FindAll() ([]models.User, error) {
	var users []models.User
	err := r.db.Preload("ManagedArtists.Subscribers").Preload("ManagedArtists.Albums.Tracks").Preload("ManagedArtists.Tracks").Order("id").Find(&users).Error
	if users == nil {
		users = []models.User{}
	}
	return users, err
}

func (r *userRepo) Save(user *models.User) error {
	return r.db.Save(user).Error
}

func (r *userRepo) Delete(user *models.User) error {
	if err := r.db.Model(user).Association("SubscribedArtists").Clear(); err != nil {
		return err
	}
	if err := r.db.Model(user).Association("LikedTracks").Clear(); err != nil {
		return err
	}
	return r.db.Delete(user).Error
}

func (r *userRepo) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func (r *userRepo) VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
