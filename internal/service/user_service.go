package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"quizhub/internal/cache"
	"quizhub/internal/domain"
	"quizhub/internal/dto"
	"quizhub/internal/logger"
	"quizhub/internal/util"
	"quizhub/internal/validation"

	"go.uber.org/zap"
)

const (
	MinSearchLength = 2
	SearchLimit     = 20
)

// UserService defines the interface for user-related operations.
type UserService interface {
	SignUp(ctx context.Context, authID, email, username string) (*domain.User, error)
	// GetSessionUser resolves the caller for login. The placeholder may never log in.
	GetSessionUser(ctx context.Context, authID string) (*domain.User, error)
	CheckAvailability(ctx context.Context, username string) (bool, error)
	Search(ctx context.Context, query string) ([]*domain.User, error)
	GetMe(ctx context.Context, authID string) (*dto.UserResponse, error)
	GetPublicProfile(ctx context.Context, userID string) (*dto.PublicProfileResponse, error)
	GetUserIDByUsername(ctx context.Context, username string) (string, error)
	UpdateProfile(ctx context.Context, callerID, targetID string, req dto.UpdateProfileRequest) (*domain.User, error)
	AddFavourite(ctx context.Context, userID, quizID string) error
	RemoveFavourite(ctx context.Context, userID, quizID string) error
}

type userServiceImpl struct {
	users      domain.UserRepository
	quizzes    domain.QuizRepository
	cache      domain.Cache
	validator  *validation.Validator
	profileTTL time.Duration
}

// NewUserService creates a new instance of UserService. profileCache may be nil.
func NewUserService(
	users domain.UserRepository,
	quizzes domain.QuizRepository,
	profileCache domain.Cache,
	validator *validation.Validator,
	profileTTL time.Duration,
) UserService {
	return &userServiceImpl{
		users:      users,
		quizzes:    quizzes,
		cache:      profileCache,
		validator:  validator,
		profileTTL: profileTTL,
	}
}

func isReservedUsername(username string) bool {
	return strings.EqualFold(strings.TrimSpace(username), domain.PlaceholderUsername)
}

func (s *userServiceImpl) SignUp(ctx context.Context, authID, email, username string) (*domain.User, error) {
	clean, verrs := s.validator.NormalizeUsername(username)
	if len(verrs) > 0 {
		return nil, verrs
	}
	if authID == domain.PlaceholderAuthID || isReservedUsername(clean) {
		return nil, domain.NewConflictError("Username already taken")
	}

	existing, err := s.users.GetUserByAuthID(ctx, authID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if existing != nil {
		return nil, domain.NewConflictError("User already exists")
	}

	taken, err := s.users.UsernameTaken(ctx, clean, "")
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, domain.NewConflictError("Username already taken")
	}

	user := domain.NewUser(util.NewULID(), authID, clean, email)
	user.Theme = "light"
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	logger.Get().Info("User created", zap.String("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

func (s *userServiceImpl) GetSessionUser(ctx context.Context, authID string) (*domain.User, error) {
	if authID == domain.PlaceholderAuthID {
		return nil, domain.NewForbiddenError("Unauthorized")
	}
	user, err := s.users.GetUserByAuthID(ctx, authID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.NewUserNotFoundError()
	}
	if user.IsPlaceholder {
		return nil, domain.NewForbiddenError("Unauthorized")
	}
	return user, nil
}

func (s *userServiceImpl) CheckAvailability(ctx context.Context, username string) (bool, error) {
	trimmed := strings.TrimSpace(username)
	if trimmed == "" {
		return false, domain.ValidationErrors{domain.NewMissingFieldError("username")}
	}
	if isReservedUsername(trimmed) {
		return false, nil
	}
	taken, err := s.users.UsernameTaken(ctx, trimmed, "")
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return !taken, nil
}

func (s *userServiceImpl) Search(ctx context.Context, query string) ([]*domain.User, error) {
	q := strings.TrimSpace(query)
	if len([]rune(q)) < MinSearchLength {
		return []*domain.User{}, nil
	}
	users, err := s.users.SearchUsers(ctx, q, SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return users, nil
}

func (s *userServiceImpl) GetMe(ctx context.Context, authID string) (*dto.UserResponse, error) {
	user, err := s.GetSessionUser(ctx, authID)
	if err != nil {
		return nil, err
	}
	favourites, err := s.quizzes.GetQuizSummaries(ctx, user.Favourites)
	if err != nil {
		return nil, fmt.Errorf("failed to load favourites: %w", err)
	}
	resp := dto.NewUserResponse(user, favourites)
	return &resp, nil
}

// GetPublicProfile reads through the profile cache. Cache failures fall back to the store.
func (s *userServiceImpl) GetPublicProfile(ctx context.Context, userID string) (*dto.PublicProfileResponse, error) {
	key := cache.UserProfileKey(userID)
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			var profile dto.PublicProfileResponse
			if jsonErr := json.Unmarshal([]byte(cached), &profile); jsonErr == nil {
				return &profile, nil
			}
			logger.Get().Warn("Discarding malformed cached profile", zap.String("key", key))
		case !errors.Is(err, domain.ErrCacheMiss):
			logger.Get().Warn("Profile cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || user.IsPlaceholder {
		return nil, domain.NewUserNotFoundError()
	}
	profile := dto.NewPublicProfileResponse(user)

	if s.cache != nil {
		if data, err := json.Marshal(profile); err == nil {
			if err := s.cache.Set(ctx, key, string(data), s.profileTTL); err != nil {
				logger.Get().Warn("Profile cache write failed", zap.String("key", key), zap.Error(err))
			} else {
				s.dropIfDeleted(ctx, userID, key)
			}
		}
	}
	return &profile, nil
}

// dropIfDeleted removes a profile written back after the user was deleted.
func (s *userServiceImpl) dropIfDeleted(ctx context.Context, userID, key string) {
	_, err := s.cache.Get(ctx, cache.UserTombstoneKey(userID))
	switch {
	case err == nil:
		if err := s.cache.Delete(ctx, key); err != nil {
			logger.Get().Warn("Failed to drop profile of deleted user", zap.String("key", key), zap.Error(err))
		}
	case !errors.Is(err, domain.ErrCacheMiss):
		logger.Get().Warn("Profile tombstone read failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *userServiceImpl) GetUserIDByUsername(ctx context.Context, username string) (string, error) {
	user, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return "", fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return "", domain.NewUserNotFoundError()
	}
	return user.ID, nil
}

func (s *userServiceImpl) UpdateProfile(ctx context.Context, callerID, targetID string, req dto.UpdateProfileRequest) (*domain.User, error) {
	if callerID != targetID {
		return nil, domain.NewForbiddenError("You can only edit your own profile")
	}

	var update domain.UserProfileUpdate
	var verrs domain.ValidationErrors
	if req.Username != nil {
		clean, errs := s.validator.NormalizeUsername(*req.Username)
		verrs = append(verrs, errs...)
		if len(errs) == 0 {
			if isReservedUsername(clean) {
				return nil, domain.NewConflictError("Username already taken")
			}
			taken, err := s.users.UsernameTaken(ctx, clean, targetID)
			if err != nil {
				return nil, fmt.Errorf("failed to check username: %w", err)
			}
			if taken {
				return nil, domain.NewConflictError("Username already taken")
			}
			update.Username = &clean
		}
	}
	if req.Theme != nil {
		verrs = append(verrs, s.validator.ValidateTheme(*req.Theme)...)
		update.Theme = req.Theme
	}
	if req.ProfilePic != nil {
		pic := s.validator.Sanitize(*req.ProfilePic)
		update.ProfilePic = &pic
	}
	if len(verrs) > 0 {
		return nil, verrs
	}

	user, err := s.users.UpdateProfile(ctx, targetID, update)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NewUserNotFoundError()
	}
	s.invalidateProfile(ctx, targetID)
	return user, nil
}

func (s *userServiceImpl) AddFavourite(ctx context.Context, userID, quizID string) error {
	exists, err := s.quizzes.QuizExists(ctx, quizID)
	if err != nil {
		return fmt.Errorf("failed to check quiz: %w", err)
	}
	if !exists {
		return domain.NewQuizNotFoundError(quizID)
	}
	return s.users.AddFavourite(ctx, userID, quizID)
}

func (s *userServiceImpl) RemoveFavourite(ctx context.Context, userID, quizID string) error {
	exists, err := s.quizzes.QuizExists(ctx, quizID)
	if err != nil {
		return fmt.Errorf("failed to check quiz: %w", err)
	}
	if !exists {
		return domain.NewQuizNotFoundError(quizID)
	}
	return s.users.RemoveFavourite(ctx, userID, quizID)
}

func (s *userServiceImpl) invalidateProfile(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.UserProfileKey(userID)); err != nil {
		logger.Get().Warn("Failed to invalidate profile cache", zap.String("user_id", userID), zap.Error(err))
	}
}
