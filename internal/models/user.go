package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"not null" json:"username"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Role      string         `gorm:"type:varchar(20);default:'user'" json:"role"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	ManagedArtists    []Artist  `gorm:"foreignKey:UserID" json:"managed_artists,omitempty"`
	SubscribedArtists []*Artist `gorm:"many2many:artist_subscriptions" json:"-"`
	LikedTracks       []*Track  `gorm:"many2many:track_likes" json:"-"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
