package services

import (
	"fmt"

	"github.com/alkmanistik/alkify-music-api/internal/apperrors"
	"github.com/alkmanistik/alkify-music-api/internal/cache"
	"github.com/alkmanistik/alkify-music-api/internal/dto"
	"github.com/alkmanistik/alkify-music-api/internal/logger"
	"github.com/alkmanistik/alkify-music-api/internal/models"
	"github.com/alkmanistik/alkify-music-api/internal/repository"
)

type UserService struct {
	users         repository.UserRepository
	artistService *ArtistService
	cache         *cache.Store
}

func NewUserService(users repository.UserRepository, artistService *ArtistService, cacheStore *cache.Store) *UserService {
	return &UserService{
		users:         users,
		artistService: artistService,
		cache:         cacheStore,
	}
}

func (s *UserService) GetAllUsers() ([]*dto.UserDTO, error) {
	return cache.Through(s.cache, cache.RegionUsersAll, cache.SingleKey, func() ([]*dto.UserDTO, error) {
		users, err := s.users.FindAll()
		if err != nil {
			return nil, err
		}
		return dto.ToUserDTOs(users), nil
	})
}

func (s *UserService) GetByID(id uint) (*dto.UserDTO, error) {
	return cache.Through(s.cache, cache.RegionUserByID, cache.IDKey(id), func() (*dto.UserDTO, error) {
		user, err := s.users.FindByID(id)
		if err != nil {
			return nil, err
		}
		return dto.ToUserDTO(user), nil
	})
}

func (s *UserService) GetByEmail(email string) (*dto.UserDTO, error) {
	return cache.Through(s.cache, cache.RegionUserByEmail, email, func() (*dto.UserDTO, error) {
		user, err := s.users.FindByEmail(email)
		if err != nil {
			return nil, err
		}
		return dto.ToUserDTO(user), nil
	})
}

// GetUserEntityByEmail returns the raw model, password hash included.
// It is uncached and is meant for authentication only.
func (s *UserService) GetUserEntityByEmail(email string) (*models.User, error) {
	return s.users.FindByEmail(email)
}

func (s *UserService) GetUserEntityByID(id uint) (*models.User, error) {
	return s.users.FindByID(id)
}

// VerifyCredentials checks the email/password pair and returns the
// account on success.
func (s *UserService) VerifyCredentials(email, password string) (*models.User, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, apperrors.Forbidden("invalid credentials")
	}
	if err := s.users.VerifyPassword(user.Password, password); err != nil {
		logger.Warn(logger.EventAccessDenied, "Bad password", logger.Fields("email", email))
		return nil, apperrors.Forbidden("invalid credentials")
	}
	return user, nil
}

// CreateUser registers a user, along with any nested artists from the
// request. The email must not already be taken.
func (s *UserService) CreateUser(req *dto.UserRequest) (*dto.UserDTO, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, apperrors.Conflict("username, email and password are required")
	}

	exists, err := s.users.ExistsByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.Conflict("email already exists")
	}

	hashed, err := s.users.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hashed,
		Role:     models.RoleUser,
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}
	logger.Info(logger.EventAuth, "User registered", logger.Fields(
		"user_id", user.ID,
		"email", user.Email,
	))

	for _, artistReq := range req.ManagedArtists {
		if _, err := s.artistService.CreateArtist(user, artistReq, nil); err != nil {
			return nil, fmt.Errorf("failed to create artist %q: %w", artistReq.Name, err)
		}
	}

	s.cache.Invalidate(
		cache.All(cache.RegionUsersAll),
		cache.Key(cache.RegionUserByID, cache.IDKey(user.ID)),
		cache.Key(cache.RegionUserByEmail, user.Email),
	)

	saved, err := s.users.FindByID(user.ID)
	if err != nil {
		return nil, err
	}
	return dto.ToUserDTO(saved), nil
}

// checkAccountAccess allows a user to manage their own account and an
// admin to manage anyone's.
func checkAccountAccess(userID uint, caller *models.User) error {
	if caller.ID == userID || caller.IsAdmin() {
		return nil
	}
	return apperrors.Forbidden("user %d can't manage account %d", caller.ID, userID)
}

// UpdateUser partially applies the request: empty fields are left
// unchanged. Changing the email re-checks uniqueness and expires the
// entry under the old address too. The caller must be the account
// owner or an admin.
func (s *UserService) UpdateUser(userID uint, caller *models.User, req *dto.UserRequest) (*dto.UserDTO, error) {
	if err := checkAccountAccess(userID, caller); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	oldEmail := user.Email

	if req.Username != "" {
		user.Username = req.Username
	}
	if req.Email != "" && req.Email != user.Email {
		exists, err := s.users.ExistsByEmail(req.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperrors.Conflict("email already exists")
		}
		user.Email = req.Email
	}
	if req.Password != "" {
		hashed, err := s.users.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}

	if err := s.users.Save(user); err != nil {
		return nil, err
	}

	s.cache.Invalidate(
		cache.All(cache.RegionUsersAll),
		cache.Key(cache.RegionUserByID, cache.IDKey(user.ID)),
		cache.Key(cache.RegionUserByEmail, oldEmail),
		cache.Key(cache.RegionUserByEmail, user.Email),
	)
	return dto.ToUserDTO(user), nil
}

// DeleteUser removes the account and every artist it manages, with
// their created albums and tracks. The caller must be the account
// owner or an admin.
func (s *UserService) DeleteUser(userID uint, caller *models.User) error {
	if err := checkAccountAccess(userID, caller); err != nil {
		return err
	}
	user, err := s.users.FindByID(userID)
	if err != nil {
		return err
	}

	if err := s.artistService.DeleteAllArtistsByUser(user.ID); err != nil {
		return fmt.Errorf("failed to delete artists of user %d: %w", user.ID, err)
	}
	if err := s.users.Delete(user); err != nil {
		return err
	}
	logger.Info(logger.EventGeneral, "User deleted", logger.Fields("user_id", user.ID))

	s.cache.Invalidate(
		cache.All(cache.RegionUsersAll),
		cache.Key(cache.RegionUserByID, cache.IDKey(user.ID)),
		cache.All(cache.RegionUserByEmail),
	)
	return nil
}

// AddAdminRole grants the admin role. Granting it twice has no effect.
func (s *UserService) AddAdminRole(userID uint) (*dto.UserDTO, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		user.Role = models.RoleAdmin
		if err := s.users.Save(user); err != nil {
			return nil, err
		}
		logger.Info(logger.EventAuth, "Admin role granted", logger.Fields("user_id", user.ID))

		s.cache.Invalidate(
			cache.All(cache.RegionUsersAll),
			cache.Key(cache.RegionUserByID, cache.IDKey(user.ID)),
			cache.Key(cache.RegionUserByEmail, user.Email),
		)
	}
	return dto.ToUserDTO(user), nil
}
