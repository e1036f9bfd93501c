package models

import (
	"time"

	"gorm.io/gorm"
)

type Track struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Title           string         `gorm:"not null;index" json:"title"`
	Genre           string         `gorm:"type:varchar(100)" json:"genre"`
	DurationSeconds int            `json:"duration_seconds"`
	Explicit        bool           `json:"explicit"`
	AudioFile       string         `json:"audio_file"`
	AlbumID         uint           `gorm:"not null;index" json:"album_id"`
	CreatorArtistID uint           `gorm:"not null;index" json:"creator_artist_id"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Album      Album     `gorm:"foreignKey:AlbumID" json:"-"`
	Artists    []*Artist `gorm:"many2many:track_artists" json:"-"`
	LikedUsers []*User   `gorm:"many2many:track_likes" json:"-"`
}
