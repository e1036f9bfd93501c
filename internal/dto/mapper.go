package dto

import "github.com/alkmanistik/alkify-music-api/internal/models"

// Pure projections from domain entities to transfer shapes. Nil input
// maps to nil output; nil collections map to empty slices and zero
// counts, never to a nil dereference.

func ToUserDTO(user *models.User) *UserDTO {
	if user == nil {
		return nil
	}
	managed := make([]*ArtistDTO, 0, len(user.ManagedArtists))
	for i := range user.ManagedArtists {
		managed = append(managed, ToArtistDTO(&user.ManagedArtists[i]))
	}
	return &UserDTO{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		ManagedArtists: managed,
	}
}

func ToArtistDTO(artist *models.Artist) *ArtistDTO {
	if artist == nil {
		return nil
	}
	albums := make([]*AlbumMinimalDTO, 0, len(artist.Albums))
	for _, album := range artist.Albums {
		albums = append(albums, ToAlbumMinimalDTO(album))
	}
	tracks := make([]*TrackMinimalDTO, 0, len(artist.Tracks))
	for _, track := range artist.Tracks {
		tracks = append(tracks, ToTrackMinimalDTO(track))
	}
	return &ArtistDTO{
		ID:              artist.ID,
		Name:            artist.Name,
		Description:     artist.Description,
		ImageURL:        artist.ImageFile,
		SubscriberCount: len(artist.Subscribers),
		Albums:          albums,
		Tracks:          tracks,
	}
}

func ToArtistMinimalDTO(artist *models.Artist) *ArtistMinimalDTO {
	if artist == nil {
		return nil
	}
	return &ArtistMinimalDTO{
		ID:       artist.ID,
		Name:     artist.Name,
		ImageURL: artist.ImageFile,
	}
}

func ToAlbumDTO(album *models.Album) *AlbumDTO {
	if album == nil {
		return nil
	}
	artists := make([]*ArtistMinimalDTO, 0, len(album.Artists))
	for _, artist := range album.Artists {
		artists = append(artists, ToArtistMinimalDTO(artist))
	}
	tracks := make([]*TrackMinimalDTO, 0, len(album.Tracks))
	for i := range album.Tracks {
		tracks = append(tracks, ToTrackMinimalDTO(&album.Tracks[i]))
	}
	return &AlbumDTO{
		ID:          album.ID,
		Title:       album.Title,
		Description: album.Description,
		ImageURL:    album.ImageFile,
		ReleaseDate: album.CreatedAt,
		Artists:     artists,
		Tracks:      tracks,
	}
}

func ToAlbumMinimalDTO(album *models.Album) *AlbumMinimalDTO {
	if album == nil {
		return nil
	}
	return &AlbumMinimalDTO{
		ID:          album.ID,
		Title:       album.Title,
		ImageURL:    album.ImageFile,
		ReleaseDate: album.CreatedAt,
		TrackCount:  len(album.Tracks),
	}
}

func ToTrackDTO(track *models.Track) *TrackDTO {
	if track == nil {
		return nil
	}
	artists := make([]*ArtistMinimalDTO, 0, len(track.Artists))
	for _, artist := range track.Artists {
		artists = append(artists, ToArtistMinimalDTO(artist))
	}
	var album *AlbumMinimalDTO
	if track.Album.ID != 0 {
		album = ToAlbumMinimalDTO(&track.Album)
	}
	return &TrackDTO{
		ID:              track.ID,
		Title:           track.Title,
		Genre:           track.Genre,
		DurationSeconds: track.DurationSeconds,
		Explicit:        track.Explicit,
		AudioURL:        track.AudioFile,
		LikeCount:       len(track.LikedUsers),
		Artists:         artists,
		Album:           album,
	}
}

func ToTrackMinimalDTO(track *models.Track) *TrackMinimalDTO {
	if track == nil {
		return nil
	}
	return &TrackMinimalDTO{
		ID:              track.ID,
		Title:           track.Title,
		DurationSeconds: track.DurationSeconds,
		Explicit:        track.Explicit,
		AudioURL:        track.AudioFile,
	}
}

func ToUserDTOs(users []models.User) []*UserDTO {
	out := make([]*UserDTO, 0, len(users))
	for i := range users {
		out = append(out, ToUserDTO(&users[i]))
	}
	return out
}

func ToArtistDTOs(artists []models.Artist) []*ArtistDTO {
	out := make([]*ArtistDTO, 0, len(artists))
	for i := range artists {
		out = append(out, ToArtistDTO(&artists[i]))
	}
	return out
}

func ToAlbumDTOs(albums []models.Album) []*AlbumDTO {
	out := make([]*AlbumDTO, 0, len(albums))
	for i := range albums {
		out = append(out, ToAlbumDTO(&albums[i]))
	}
	return out
}

func ToTrackDTOs(tracks []models.Track) []*TrackDTO {
	out := make([]*TrackDTO, 0, len(tracks))
	for i := range tracks {
		out = append(out, ToTrackDTO(&tracks[i]))
	}
	return out
}
