package models

import (
	"time"

	"gorm.io/gorm"
)

type Artist struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null;index" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	ImageFile   string         `json:"image_file"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User        User     `gorm:"foreignKey:UserID" json:"-"`
	Subscribers []*User  `gorm:"many2many:artist_subscriptions" json:"-"`
	Albums      []*Album `gorm:"many2many:album_artists" json:"-"`
	Tracks      []*Track `gorm:"many2many:track_artists" json:"-"`
}
