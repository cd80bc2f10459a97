package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"userhub/internal/model"
)

// ListFilter narrows and pages the admin user listing.
type ListFilter struct {
	Page   int
	Limit  int
	Search string
	Role   string
}

// UserRepository defines persistence operations for account records.
//
// ConsumeVerificationToken and ConsumeResetToken are compare-and-clear
// operations: the digest/expiry match and the mutation happen in a single
// conditional UPDATE, so concurrent redemptions of the same secret produce
// exactly one winner.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	EmailTaken(ctx context.Context, email string, excludeID uuid.UUID) (bool, error)

	SetVerificationToken(ctx context.Context, id uuid.UUID, digest string, expiresAt time.Time) error
	ConsumeVerificationToken(ctx context.Context, digest string, now time.Time) (bool, error)
	SetResetToken(ctx context.Context, id uuid.UUID, digest string, expiresAt time.Time) error
	ConsumeResetToken(ctx context.Context, digest, passwordHash string, now time.Time) (bool, error)

	UpdateProfile(ctx context.Context, id uuid.UUID, name, email string) (*model.User, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateRole(ctx context.Context, id uuid.UUID, role string) (*model.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter ListFilter) ([]model.User, int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) EmailTaken(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ? AND id <> ?", email, excludeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SetVerificationToken attaches a fresh digest/expiry pair, replacing any
// outstanding one. A verified account never carries a digest, so the UPDATE
// matches unverified rows only; zero affected rows means the account was
// verified (or deleted) in the meantime and surfaces as ErrRecordNotFound.
func (r *userRepository) SetVerificationToken(ctx context.Context, id uuid.UUID, digest string, expiresAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND is_verified = ?", id, false).
		Updates(map[string]interface{}{
			"verification_digest":     digest,
			"verification_expires_at": expiresAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ConsumeVerificationToken marks the matching account verified and clears the
// digest/expiry pair in one conditional UPDATE. Returns false when no
// unexpired match exists (wrong secret, already consumed, or expired).
func (r *userRepository) ConsumeVerificationToken(ctx context.Context, digest string, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("verification_digest = ? AND verification_expires_at > ?", digest, now).
		Updates(map[string]interface{}{
			"is_verified":             true,
			"verification_digest":     nil,
			"verification_expires_at": nil,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// SetResetToken attaches a fresh reset digest/expiry pair, replacing any
// outstanding one.
func (r *userRepository) SetResetToken(ctx context.Context, id uuid.UUID, digest string, expiresAt time.Time) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"reset_digest":     digest,
			"reset_expires_at": expiresAt,
		}).Error
}

// ConsumeResetToken replaces the password hash and clears the reset pair in
// one conditional UPDATE. Returns false when no unexpired match exists.
func (r *userRepository) ConsumeResetToken(ctx context.Context, digest, passwordHash string, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("reset_digest = ? AND reset_expires_at > ?", digest, now).
		Updates(map[string]interface{}{
			"password_hash":    passwordHash,
			"reset_digest":     nil,
			"reset_expires_at": nil,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// UpdateProfile changes name and email only; the password hash column is
// never part of this statement.
func (r *userRepository) UpdateProfile(ctx context.Context, id uuid.UUID, name, email string) (*model.User, error) {
	user, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// RowsAffected is unreliable for existence here: MySQL reports zero
	// affected rows when the new values equal the old ones.
	err = r.db.WithContext(ctx).Model(user).
		Updates(map[string]interface{}{
			"name":  name,
			"email": email,
		}).Error
	if err != nil {
		return nil, err
	}
	user.Name = name
	user.Email = email
	return user, nil
}

func (r *userRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) UpdateRole(ctx context.Context, id uuid.UUID, role string) (*model.User, error) {
	user, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(user).Update("role", role).Error; err != nil {
		return nil, err
	}
	user.Role = role
	return user, nil
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.User{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, filter ListFilter) ([]model.User, int64, error) {
	filter = normalizeListFilter(filter)

	q := r.db.WithContext(ctx).Model(&model.User{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where("name LIKE ? OR email LIKE ?", pattern, pattern)
	}
	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []model.User
	err := q.Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
