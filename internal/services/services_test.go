package services

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/alkmanistik/alkify-music-api/internal/apperrors"
	"github.com/alkmanistik/alkify-music-api/internal/cache"
	"github.com/alkmanistik/alkify-music-api/internal/database"
	"github.com/alkmanistik/alkify-music-api/internal/dto"
	"github.com/alkmanistik/alkify-music-api/internal/models"
	"github.com/alkmanistik/alkify-music-api/internal/repository"
	"github.com/alkmanistik/alkify-music-api/internal/storage"
)

type testEnv struct {
	users    *UserService
	artists  *ArtistService
	albums   *AlbumService
	tracks   *TrackService
	cache    *cache.Store
	userRepo repository.UserRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// a second pooled connection would see an empty in-memory database
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	base := t.TempDir()
	files := storage.NewStore(filepath.Join(base, "images"), filepath.Join(base, "audios"))
	cacheStore := cache.NewStore(128, time.Minute)

	userRepo := repository.NewUserRepository(db)
	artistRepo := repository.NewArtistRepository(db)
	albumRepo := repository.NewAlbumRepository(db)
	trackRepo := repository.NewTrackRepository(db)

	trackService := NewTrackService(trackRepo, albumRepo, artistRepo, files, cacheStore)
	albumService := NewAlbumService(albumRepo, artistRepo, trackService, files, cacheStore)
	artistService := NewArtistService(artistRepo, userRepo, albumService, trackService, files, cacheStore)
	userService := NewUserService(userRepo, artistService, cacheStore)

	return &testEnv{
		users:    userService,
		artists:  artistService,
		albums:   albumService,
		tracks:   trackService,
		cache:    cacheStore,
		userRepo: userRepo,
	}
}

var userSeq int

func (e *testEnv) newUser(t *testing.T) *models.User {
	t.Helper()
	userSeq++
	email := fmt.Sprintf("user%d@example.com", userSeq)
	created, err := e.users.CreateUser(&dto.UserRequest{
		Username: fmt.Sprintf("user%d", userSeq),
		Email:    email,
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	user, err := e.users.GetUserEntityByID(created.ID)
	if err != nil {
		t.Fatalf("load user: %v", err)
	}
	return user
}

func (e *testEnv) newAdmin(t *testing.T) *models.User {
	t.Helper()
	user := e.newUser(t)
	if _, err := e.users.AddAdminRole(user.ID); err != nil {
		t.Fatalf("grant admin: %v", err)
	}
	admin, err := e.users.GetUserEntityByID(user.ID)
	if err != nil {
		t.Fatalf("reload admin: %v", err)
	}
	return admin
}

func (e *testEnv) newArtist(t *testing.T, owner *models.User, name string) *dto.ArtistDTO {
	t.Helper()
	artist, err := e.artists.CreateArtist(owner, &dto.ArtistRequest{Name: name}, nil)
	if err != nil {
		t.Fatalf("create artist: %v", err)
	}
	return artist
}

func (e *testEnv) newAlbum(t *testing.T, owner *models.User, artistID uint, title string) *dto.AlbumDTO {
	t.Helper()
	album, err := e.albums.CreateAlbum(artistID, owner, &dto.AlbumRequest{Title: title}, nil)
	if err != nil {
		t.Fatalf("create album: %v", err)
	}
	return album
}

func (e *testEnv) newTrack(t *testing.T, owner *models.User, albumID uint, title string) *dto.TrackDTO {
	t.Helper()
	track, err := e.tracks.CreateTrack(albumID, owner, &dto.TrackRequest{Title: title, DurationSeconds: 180}, nil)
	if err != nil {
		t.Fatalf("create track: %v", err)
	}
	return track
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	e := newTestEnv(t)
	user := e.newUser(t)

	_, err := e.users.CreateUser(&dto.UserRequest{
		Username: "other",
		Email:    user.Email,
		Password: "password123",
	})
	if !apperrors.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCascadeCreateFromSignup(t *testing.T) {
	e := newTestEnv(t)

	created, err := e.users.CreateUser(&dto.UserRequest{
		Username: "composer",
		Email:    "composer@example.com",
		Password: "password123",
		ManagedArtists: []*dto.ArtistRequest{
			{
				Name: "Orchestra",
				Albums: []*dto.AlbumRequest{
					{
						Title:  "Symphonies",
						Tracks: []*dto.TrackRequest{{Title: "No. 5"}, {Title: "No. 9"}},
					},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("cascade create: %v", err)
	}

	if len(created.ManagedArtists) != 1 {
		t.Fatalf("expected one managed artist, got %d", len(created.ManagedArtists))
	}
	artist := created.ManagedArtists[0]
	if len(artist.Albums) != 1 || artist.Albums[0].TrackCount != 2 {
		t.Fatalf("unexpected artist graph %+v", artist)
	}
}

func TestTrackCreatorIsOnTrack(t *testing.T) {
	e := newTestEnv(t)
	owner := e.newUser(t)
	artist := e.newArtist(t, owner, "Creator")
	album := e.newAlbum(t, owner, artist.ID, "Album")
	track := e.newTrack(t, owner, album.ID, "Song")

	if len(track.Artists) != 1 || track.Artists[0].ID != artist.ID {
		t.Fatalf("creator must appear on the track, got %+v", track.Artists)
	}
}

func TestForbiddenMutationLeavesStateUntouched(t *testing.T) {
	e := newTestEnv(t)
	owner := e.newUser(t)
	stranger := e.newUser(t)
	artist := e.newArtist(t, owner, "Original")

	_, err := e.artists.UpdateArtist(artist.ID, stranger, &dto.ArtistRequest{Name: "Hijacked"}, nil)
	if !apperrors.IsForbidden(err) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	got, err := e.artists.GetByID(artist.ID)
	if err != nil {
		t.Fatalf("get artist: %v", err)
	}
	if got.Name != "Original" {
		t.Fatalf("rejected mutation must not change state, got %q", got.Name)
	}
}

func TestAdminBypassesOwnership(t *testing.T) {
	e := newTestEnv(t)
	owner := e.newUser(t)
	admin := e.newAdmin(t)
	artist := e.newArtist(t, owner, "Band")

	updated, err := e.artists.UpdateArtist(artist.ID, admin, &dto.ArtistRequest{Name: "Renamed"}, nil)
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if updated.Name != "Renamed" {
		t.Fatalf("expected rename, got %q", updated.Name)
	}
}

func TestUpdateArtistAlwaysAppliesDescription(t *testing.T) {
	e := newTestEnv(t)
	owner := e.newUser(t)
	artist, err := e.artists.CreateArtist(owner, &dto.ArtistRequest{Name: "Band", Description: "old"}, nil)
	if err != nil {
		t.Fatalf("create artist: %v", err)
	}

	updated, err := e.artists.UpdateArtist(artist.ID, owner, &dto.ArtistRequest{Description: ""}, nil)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Band" {
		t.Fatal("empty name must be left unchanged")
	}
	if updated.Description != "" {
		t.Fatalf("description must be applied even when empty, got %q", updated.Description)
	}
}

func TestSubscribeIsIdempotent(t *testing.T) {
	e := newTestEnv(t)
	owner := e.newUser(t)
	fan := e.newUser(t)
	artist := e.newArtist(t, owner, "Star")

	for i := 0; i < 2; i++ {
		if err := e.artists.Subscribe(artist.ID, fan); err != nil {
			t.Fatalf("subscribe %d: %v", i, err)
		}
	}

	count, err := e.artists.GetSubscriberCount(artist.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one subscriber, got %d", count)
	}

	subscribed, err := e.artists.IsUserSubscribed(artist.ID, fan.ID)
	if err != nil || !subscribed {
		t.Fatalf("expected subscribed, got %v %v", subscribed, err)
	}

	subscriptions, err := e.artists.GetUserSubscriptions(fan)
	if err != nil || len(subscriptions) != 1 {
		t.Fatalf("expected one subscription, got %v %v", subscriptions, err)
	}
}

func TestUnsubscribeWithoutSubscriptionIsNoop(t *testing.T) {
	e := newTestEnv(t)
	owner := e.newUser(t)
	fan := e.newUser(t)
	artist := e.newArtist(t, owner, "Star")

	if err := e.artists.Unsubscribe(artist.ID, fan); err != nil {
		t.Fatalf("unsubscribe should be a no-op, got %v", err)
	}

	count, err := e.artists.GetSubscriberCount(artist.ID)
	if err != nil || count != 0 {
		t.Fatalf("expected zero subscribers, got %d %v", count, err)
	}
}

func TestLikeAndUnlikeAreIdempotent(t *testing.T) {
	e := newTestEnv(t)
	owner := e.newUser(t)
	listener := e.newUser(t)
	artist := e.newArtist(t, owner, "Band")
	album := e.newAlbum(t, owner, artist.ID, "Album")
	track := e.newTrack(t, owner, album.ID, "Song")

	for i := 0; i < 2; i++ {
		if err := e.tracks.LikeTrack(track.ID, listener); err != nil {
			t.Fatalf("like %d: %v", i, err)
		}
	}

	got, err := e.tracks.GetByID(track.ID)
	if err != nil {
		t.Fatalf("get track: %v", err)
	}
	if got.LikeCount != 1 {
		t.Fatalf("double like must count once, got %d", got.LikeCount)
	}

	liked, err := e.tracks.GetLikedTracks(listener)
	if err != nil || len(liked) != 1 {
		t.Fatalf("expected one liked track, got %v %v", liked, err)
	}

	if err := e.tracks.UnlikeTrack(track.ID, listener); err != nil {
		t.Fatalf("unlike: %v", err)
	}
	// second unlike is a no-op
	if err := e.tracks.UnlikeTrack(track.ID, listener); err != nil {
		t.Fatalf("repeated unlike: %v", err)
	}

	got, err = e.tracks.GetByID(track.ID)
	if err != nil || got.LikeCount != 0 {
		t.Fatalf("expected zero likes, got %d %v", got.LikeCount, err)
	}
}

func TestCreatorArtistCannotBeRemoved(t *testing.T) {
	e := newTestEnv(t)
	owner := e.newUser(t)
	artist := e.newArtist(t, owner, "Creator")
	album := e.newAlbum(t, owner, artist.ID, "Album")
	track := e.newTrack(t, owner, album.ID, "Song")

	err := e.tracks.RemoveArtistFromTrack(owner, track.ID, artist.ID)
	if !apperrors.IsConflict(err) {
		t.Fatalf("removing track creator must conflict, got %v", err)
	}

	err = e.albums.RemoveArtistFromAlbum(owner, album.ID, artist.ID)
	if !apperrors.IsConflict(err) {
		t.Fatalf("removing album creator must conflict, got %v", err)
	}
}

func TestAddArtistTwiceConflicts(t *testing.T) {
	e := newTestEnv(t)
	owner := e.newUser(t)
	artist := e.newArtist(t, owner, "Creator")
	featured := e.newArtist(t, owner, "Featured")
	album := e.newAlbum(t, owner, artist.ID, "Album")
	track := e.newTrack(t, owner, album.ID, "Song")

	if _, err := e.tracks.AddArtistToTrack(owner, track.ID, featured.ID); err != nil {
		t.Fatalf("first add: %v", err)
	}
	_, err := e.tracks.AddArtistToTrack(owner, track.ID, featured.ID)
	if !apperrors.IsConflict(err) {
		t.Fatalf("second add must conflict, got %v", err)
	}
}

func TestBlankSearchSemantics(t *testing.T) {
	e := newTestEnv(t)
	owner := e.newUser(t)
	artist := e.newArtist(t, owner, "Band")
	album := e.newAlbum(t, owner, artist.ID, "Album")
	e.newTrack(t, owner, album.ID, "Song")

	tracks, err := e.tracks.SearchTracks("")
	if err != nil {
		t.Fatalf("track search: %v", err)
	}
	if len(tracks) != 0 {
		t.Fatalf("blank track search must match nothing, got %d", len(tracks))
	}

	albums, err := e.albums.SearchAlbums("")
	if err != nil {
		t.Fatalf("album search: %v", err)
	}
	if len(albums) != 1 {
		t.Fatalf("blank album search must list everything, got %d", len(albums))
	}
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	e := newTestEnv(t)
	owner := e.newUser(t)
	artist := e.newArtist(t, owner, "Band")
	album := e.newAlbum(t, owner, artist.ID, "Album")
	e.newTrack(t, owner, album.ID, "Thunderstruck")

	tracks, err := e.tracks.SearchTracks("THUNDER")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(tracks) != 1 {
		t.Fatalf("expected one hit, got %d", len(tracks))
	}
}

func TestUpdateInvalidatesCachedEntry(t *testing.T) {
	e := newTestEnv(t)
	owner := e.newUser(t)
	artist := e.newArtist(t, owner, "Band")
	album := e.newAlbum(t, owner, artist.ID, "Before")

	// warm the cache
	if _, err := e.albums.GetByID(album.ID); err != nil {
		t.Fatalf("get: %v", err)
	}

	if _, err := e.albums.UpdateAlbum(album.ID, owner, &dto.AlbumRequest{Title: "After"}, nil); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := e.albums.GetByID(album.ID)
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if got.Title != "After" {
		t.Fatalf("stale entry survived update, got %q", got.Title)
	}
}

func TestDeleteEvictsCachedEntry(t *testing.T) {
	e := newTestEnv(t)
	owner := e.newUser(t)
	artist := e.newArtist(t, owner, "Band")
	album := e.newAlbum(t, owner, artist.ID, "Album")
	track := e.newTrack(t, owner, album.ID, "Song")

	if _, err := e.tracks.GetByID(track.ID); err != nil {
		t.Fatalf("warm: %v", err)
	}
	if err := e.tracks.DeleteTrack(track.ID, owner); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := e.tracks.GetByID(track.ID); !apperrors.IsNotFound(err) {
		t.Fatalf("deleted track must not be served from cache, got %v", err)
	}
}

func TestDeleteAlbumCascadesToTracks(t *testing.T) {
	e := newTestEnv(t)
	owner := e.newUser(t)
	artist := e.newArtist(t, owner, "Band")
	album := e.newAlbum(t, owner, artist.ID, "Album")
	track := e.newTrack(t, owner, album.ID, "Song")

	if err := e.albums.DeleteAlbum(album.ID, owner); err != nil {
		t.Fatalf("delete album: %v", err)
	}

	if _, err := e.albums.GetByID(album.ID); !apperrors.IsNotFound(err) {
		t.Fatalf("album should be gone, got %v", err)
	}
	if _, err := e.tracks.GetByID(track.ID); !apperrors.IsNotFound(err) {
		t.Fatalf("track should be gone with its album, got %v", err)
	}
}

func TestDeleteArtistKeepsCoauthoredContent(t *testing.T) {
	e := newTestEnv(t)
	owner := e.newUser(t)
	creator := e.newArtist(t, owner, "Creator")
	guest := e.newArtist(t, owner, "Guest")

	ownAlbum := e.newAlbum(t, owner, guest.ID, "Guest Album")
	otherAlbum := e.newAlbum(t, owner, creator.ID, "Shared Album")
	sharedTrack := e.newTrack(t, owner, otherAlbum.ID, "Shared Song")

	if _, err := e.albums.AddArtistToAlbum(owner, otherAlbum.ID, guest.ID); err != nil {
		t.Fatalf("add guest to album: %v", err)
	}
	if _, err := e.tracks.AddArtistToTrack(owner, sharedTrack.ID, guest.ID); err != nil {
		t.Fatalf("add guest to track: %v", err)
	}

	if err := e.artists.DeleteArtist(guest.ID, owner); err != nil {
		t.Fatalf("delete guest: %v", err)
	}

	// the guest's own album is gone
	if _, err := e.albums.GetByID(ownAlbum.ID); !apperrors.IsNotFound(err) {
		t.Fatalf("guest's own album should be deleted, got %v", err)
	}

	// co-authored content survives without the guest
	album, err := e.albums.GetByID(otherAlbum.ID)
	if err != nil {
		t.Fatalf("shared album: %v", err)
	}
	for _, a := range album.Artists {
		if a.ID == guest.ID {
			t.Fatal("deleted artist still listed on shared album")
		}
	}

	track, err := e.tracks.GetByID(sharedTrack.ID)
	if err != nil {
		t.Fatalf("shared track: %v", err)
	}
	for _, a := range track.Artists {
		if a.ID == guest.ID {
			t.Fatal("deleted artist still listed on shared track")
		}
	}
}

func TestDeleteUserCascades(t *testing.T) {
	e := newTestEnv(t)
	owner := e.newUser(t)
	artist := e.newArtist(t, owner, "Band")
	album := e.newAlbum(t, owner, artist.ID, "Album")
	track := e.newTrack(t, owner, album.ID, "Song")

	if err := e.users.DeleteUser(owner.ID, owner); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	if _, err := e.users.GetByID(owner.ID); !apperrors.IsNotFound(err) {
		t.Fatalf("user should be gone, got %v", err)
	}
	if _, err := e.artists.GetByID(artist.ID); !apperrors.IsNotFound(err) {
		t.Fatalf("artist should be gone, got %v", err)
	}
	if _, err := e.albums.GetByID(album.ID); !apperrors.IsNotFound(err) {
		t.Fatalf("album should be gone, got %v", err)
	}
	if _, err := e.tracks.GetByID(track.ID); !apperrors.IsNotFound(err) {
		t.Fatalf("track should be gone, got %v", err)
	}
}

func TestVerifyCredentials(t *testing.T) {
	e := newTestEnv(t)
	user := e.newUser(t)

	got, err := e.users.VerifyCredentials(user.Email, "password123")
	if err != nil {
		t.Fatalf("valid credentials rejected: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("expected user %d, got %d", user.ID, got.ID)
	}

	if _, err := e.users.VerifyCredentials(user.Email, "wrong"); !apperrors.IsForbidden(err) {
		t.Fatalf("bad password must be forbidden, got %v", err)
	}
}

func TestUpdateUserEmailEvictsOldKey(t *testing.T) {
	e := newTestEnv(t)
	user := e.newUser(t)
	oldEmail := user.Email

	// warm the email cache
	if _, err := e.users.GetByEmail(oldEmail); err != nil {
		t.Fatalf("warm: %v", err)
	}

	if _, err := e.users.UpdateUser(user.ID, user, &dto.UserRequest{Email: "renamed@example.com"}); err != nil {
		t.Fatalf("update: %v", err)
	}

	if _, err := e.users.GetByEmail(oldEmail); !apperrors.IsNotFound(err) {
		t.Fatalf("old email must not resolve, got %v", err)
	}
	got, err := e.users.GetByEmail("renamed@example.com")
	if err != nil || got.ID != user.ID {
		t.Fatalf("new email should resolve to the user, got %v %v", got, err)
	}
}

func TestUserCannotManageForeignAccount(t *testing.T) {
	e := newTestEnv(t)
	victim := e.newUser(t)
	stranger := e.newUser(t)

	_, err := e.users.UpdateUser(victim.ID, stranger, &dto.UserRequest{Username: "hijacked"})
	if !apperrors.IsForbidden(err) {
		t.Fatalf("foreign update must be forbidden, got %v", err)
	}

	if err := e.users.DeleteUser(victim.ID, stranger); !apperrors.IsForbidden(err) {
		t.Fatalf("foreign delete must be forbidden, got %v", err)
	}

	got, err := e.users.GetByID(victim.ID)
	if err != nil {
		t.Fatalf("victim should survive: %v", err)
	}
	if got.Username != victim.Username {
		t.Fatalf("rejected mutation must not change state, got %q", got.Username)
	}
}

func TestAdminManagesForeignAccount(t *testing.T) {
	e := newTestEnv(t)
	user := e.newUser(t)
	admin := e.newAdmin(t)

	updated, err := e.users.UpdateUser(user.ID, admin, &dto.UserRequest{Username: "renamed"})
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if updated.Username != "renamed" {
		t.Fatalf("expected rename, got %q", updated.Username)
	}

	if err := e.users.DeleteUser(user.ID, admin); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if _, err := e.users.GetByID(user.ID); !apperrors.IsNotFound(err) {
		t.Fatalf("account should be gone, got %v", err)
	}
}

func TestGrantAdminIsIdempotent(t *testing.T) {
	e := newTestEnv(t)
	user := e.newUser(t)

	for i := 0; i < 2; i++ {
		if _, err := e.users.AddAdminRole(user.ID); err != nil {
			t.Fatalf("grant %d: %v", i, err)
		}
	}

	reloaded, err := e.users.GetUserEntityByID(user.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reloaded.IsAdmin() {
		t.Fatal("user should be admin")
	}
}
