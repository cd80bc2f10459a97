package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"userhub/internal/auth"
	"userhub/internal/cache"
	"userhub/internal/model"
	"userhub/internal/repository"
)

const profileCacheTTL = 5 * time.Minute

var (
	// ErrUserNotFound is returned when an account id resolves to nothing.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when a profile update targets an email owned
	// by another account.
	ErrEmailTaken = errors.New("email already taken")
	// ErrCurrentPasswordIncorrect is returned when the current password check
	// fails on a password change.
	ErrCurrentPasswordIncorrect = errors.New("current password is incorrect")
)

// UserService exposes the authenticated profile operations.
type UserService interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, name, email string) (*model.Profile, error)
	ChangePassword(ctx context.Context, id uuid.UUID, currentPassword, newPassword string) error
}

type userService struct {
	repo   repository.UserRepository
	hasher *auth.PasswordHasher
	cache  *cache.Client
}

// NewUserService builds a UserService with repository, hasher and cache.
func NewUserService(repo repository.UserRepository, hasher *auth.PasswordHasher, cache *cache.Client) UserService {
	return &userService{repo: repo, hasher: hasher, cache: cache}
}

func profileCacheKey(id uuid.UUID) string {
	return "profile:" + id.String()
}

func (s *userService) GetProfile(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	if data, _ := s.cache.Get(ctx, profileCacheKey(id)); data != nil {
		var cached model.Profile
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	profile := user.ToProfile()
	if payload, err := json.Marshal(profile); err == nil {
		_ = s.cache.Set(ctx, profileCacheKey(id), payload, profileCacheTTL)
	}
	return &profile, nil
}

// UpdateProfile changes name and email only; the credential verifier is
// untouched by this path.
func (s *userService) UpdateProfile(ctx context.Context, id uuid.UUID, name, email string) (*model.Profile, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)

	taken, err := s.repo.EmailTaken(ctx, email, id)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	user, err := s.repo.UpdateProfile(ctx, id, name, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	_ = s.cache.Delete(ctx, profileCacheKey(id))
	profile := user.ToProfile()
	return &profile, nil
}

func (s *userService) ChangePassword(ctx context.Context, id uuid.UUID, currentPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return ErrPasswordTooShort
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(currentPassword, user.PasswordHash) {
		return ErrCurrentPasswordIncorrect
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePasswordHash(ctx, id, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	_ = s.cache.Delete(ctx, profileCacheKey(id))
	return nil
}
