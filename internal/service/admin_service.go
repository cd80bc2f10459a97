package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"userhub/internal/cache"
	"userhub/internal/model"
	"userhub/internal/repository"
)

var (
	// ErrInvalidRole is returned when a role change names an unknown role.
	ErrInvalidRole = errors.New("invalid role")
	// ErrSelfTarget is returned when an admin targets their own account for a
	// role change or deletion.
	ErrSelfTarget = errors.New("cannot modify your own account")
)

// UserPage is one page of the admin user listing.
type UserPage struct {
	Users      []model.Profile `json:"users"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	Total      int64           `json:"total"`
	TotalPages int             `json:"total_pages"`
	HasNext    bool            `json:"has_next"`
	HasPrev    bool            `json:"has_prev"`
}

// AdminService exposes the admin-only account operations.
type AdminService interface {
	ListUsers(ctx context.Context, filter repository.ListFilter) (*UserPage, error)
	GetUser(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	UpdateRole(ctx context.Context, actorID, targetID uuid.UUID, role string) (*model.Profile, error)
	DeleteUser(ctx context.Context, actorID, targetID uuid.UUID) error
}

type adminService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewAdminService builds an AdminService.
func NewAdminService(repo repository.UserRepository, cache *cache.Client) AdminService {
	return &adminService{repo: repo, cache: cache}
}

func (s *adminService) ListUsers(ctx context.Context, filter repository.ListFilter) (*UserPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}

	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	profiles := make([]model.Profile, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].ToProfile())
	}

	totalPages := repository.TotalPages(total, filter.Limit)
	return &UserPage{
		Users:      profiles,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    filter.Page < totalPages,
		HasPrev:    filter.Page > 1,
	}, nil
}

func (s *adminService) GetUser(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	profile := user.ToProfile()
	return &profile, nil
}

// UpdateRole changes the target account's role. An admin cannot change their
// own role.
func (s *adminService) UpdateRole(ctx context.Context, actorID, targetID uuid.UUID, role string) (*model.Profile, error) {
	if !model.ValidRole(role) {
		return nil, ErrInvalidRole
	}
	if actorID == targetID {
		return nil, ErrSelfTarget
	}

	user, err := s.repo.UpdateRole(ctx, targetID, role)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("update role: %w", err)
	}

	_ = s.cache.Delete(ctx, profileCacheKey(targetID))
	profile := user.ToProfile()
	return &profile, nil
}

// DeleteUser removes the target account. An admin cannot delete themselves.
func (s *adminService) DeleteUser(ctx context.Context, actorID, targetID uuid.UUID) error {
	if actorID == targetID {
		return ErrSelfTarget
	}

	if err := s.repo.Delete(ctx, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}

	_ = s.cache.Delete(ctx, profileCacheKey(targetID))
	return nil
}
