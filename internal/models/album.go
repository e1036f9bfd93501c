package models

import (
	"time"

	"gorm.io/gorm"
)

type Album struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"not null;index" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	ImageFile   string `json:"image_file"`
	// The artist that created the album. Always present in Artists and
	// can never be detached.
	CreatorArtistID uint           `gorm:"not null;index" json:"creator_artist_id"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Artists []*Artist `gorm:"many2many:album_artists" json:"-"`
	Tracks  []Track   `gorm:"foreignKey:AlbumID" json:"-"`
}
