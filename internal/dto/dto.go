package dto

import "time"

// Transfer shapes returned by the API. Minimal variants are embedded in
// parents instead of full entities to keep serialized graphs shallow;
// collections that would recurse collapse to counts.

type UserDTO struct {
	ID             uint         `json:"id"`
	Username       string       `json:"username"`
	Email          string       `json:"email"`
	ManagedArtists []*ArtistDTO `json:"managed_artists"`
}

type ArtistDTO struct {
	ID              uint               `json:"id"`
	Name            string             `json:"name"`
	Description     string             `json:"description"`
	ImageURL        string             `json:"image_url"`
	SubscriberCount int                `json:"subscriber_count"`
	Albums          []*AlbumMinimalDTO `json:"albums"`
	Tracks          []*TrackMinimalDTO `json:"tracks"`
}

type ArtistMinimalDTO struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

type AlbumDTO struct {
	ID          uint                `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	ImageURL    string              `json:"image_url"`
	ReleaseDate time.Time           `json:"release_date"`
	Artists     []*ArtistMinimalDTO `json:"artists"`
	Tracks      []*TrackMinimalDTO  `json:"tracks"`
}

type AlbumMinimalDTO struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	ImageURL    string    `json:"image_url"`
	ReleaseDate time.Time `json:"release_date"`
	TrackCount  int       `json:"track_count"`
}

type TrackDTO struct {
	ID              uint                `json:"id"`
	Title           string              `json:"title"`
	Genre           string              `json:"genre"`
	DurationSeconds int                 `json:"duration_seconds"`
	Explicit        bool                `json:"explicit"`
	AudioURL        string              `json:"audio_url"`
	LikeCount       int                 `json:"like_count"`
	Artists         []*ArtistMinimalDTO `json:"artists"`
	Album           *AlbumMinimalDTO    `json:"album"`
}

type TrackMinimalDTO struct {
	ID              uint   `json:"id"`
	Title           string `json:"title"`
	DurationSeconds int    `json:"duration_seconds"`
	Explicit        bool   `json:"explicit"`
	AudioURL        string `json:"audio_url"`
}

// Request payloads. Nested lists allow cascade creation: a user signup
// can bundle artists, an artist can bundle albums, an album can bundle
// tracks. Empty strings on update mean "leave unchanged".

type UserRequest struct {
	Username       string           `json:"username" binding:"omitempty,min=3"`
	Email          string           `json:"email" binding:"omitempty,email"`
	Password       string           `json:"password" binding:"omitempty,min=8"`
	ManagedArtists []*ArtistRequest `json:"managed_artists"`
}

type ArtistRequest struct {
	Name        string          `json:"name" binding:"omitempty,min=3,max=50"`
	Description string          `json:"description" binding:"omitempty,max=1000"`
	Albums      []*AlbumRequest `json:"albums"`
}

type AlbumRequest struct {
	Title       string          `json:"title" binding:"omitempty,min=1,max=100"`
	Description string          `json:"description" binding:"omitempty,max=1000"`
	Tracks      []*TrackRequest `json:"tracks"`
}

type TrackRequest struct {
	Title           string `json:"title" binding:"omitempty,min=1,max=50"`
	Genre           string `json:"genre"`
	DurationSeconds int    `json:"duration_seconds"`
	Explicit        bool   `json:"explicit"`
}

type AuthRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type TokenResponse struct {
	Token string `json:"token"`
}
