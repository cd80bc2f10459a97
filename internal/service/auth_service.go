package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"userhub/internal/auth"
	"userhub/internal/mail"
	"userhub/internal/model"
	"userhub/internal/repository"
)

var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	// The same value covers an unknown email and a wrong password so the two
	// cases cannot be told apart.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserAlreadyExists is returned when registering an already verified email.
	ErrUserAlreadyExists = errors.New("user already exists with this email")
	// ErrEmailNotVerified is returned on login before the email is verified.
	ErrEmailNotVerified = errors.New("please verify your email before logging in")
	// ErrInvalidOrExpiredToken is returned when a verification or reset secret
	// does not match an outstanding unexpired digest.
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	// ErrPasswordTooShort is returned when a new password is under 6 characters.
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	// ErrMailDispatch is returned when an outbound email could not be delivered.
	ErrMailDispatch = errors.New("failed to send email")
)

// AuthService governs the credential and token lifecycle: registration with
// email verification, login, and the password reset flow.
type AuthService interface {
	// Register creates a pending account for a fresh email. Registering an
	// unverified email again replaces the outstanding verification secret and
	// reports resent=true; a verified email yields ErrUserAlreadyExists.
	Register(ctx context.Context, name, email, password string) (user *model.User, resent bool, err error)
	VerifyEmail(ctx context.Context, rawSecret string) error
	Login(ctx context.Context, email, password string) (token string, user *model.User, err error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, rawSecret, newPassword string) error
}

type authService struct {
	repo      repository.UserRepository
	hasher    *auth.PasswordHasher
	tokens    *auth.TokenService
	mailer    mail.Mailer
	clientURL string
	linkTTL   time.Duration
}

// NewAuthService creates a new authentication service.
func NewAuthService(repo repository.UserRepository, hasher *auth.PasswordHasher, tokens *auth.TokenService, mailer mail.Mailer, clientURL string, linkTTL time.Duration) AuthService {
	return &authService{
		repo:      repo,
		hasher:    hasher,
		tokens:    tokens,
		mailer:    mailer,
		clientURL: clientURL,
		linkTTL:   linkTTL,
	}
}

// NormalizeEmail lowercases and trims an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, name, email, password string) (*model.User, bool, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)

	existing, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		if existing.IsVerified {
			return nil, false, ErrUserAlreadyExists
		}
		// Pending account: treat as a resend. A fresh secret replaces the
		// stored pair, killing the old link. The new request's password is
		// not applied to the existing record.
		if err := s.issueVerification(ctx, existing); err != nil {
			return nil, false, err
		}
		return existing, true, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("check user existence: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, false, err
	}

	raw, digest, err := auth.GenerateSecret()
	if err != nil {
		return nil, false, err
	}
	expiresAt := time.Now().Add(s.linkTTL)

	user := &model.User{
		Name:                  name,
		Email:                 email,
		PasswordHash:          hash,
		Role:                  model.RoleUser,
		VerificationDigest:    &digest,
		VerificationExpiresAt: &expiresAt,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		// Unique-email index arbitrates concurrent registrations.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, false, ErrUserAlreadyExists
		}
		return nil, false, fmt.Errorf("create user: %w", err)
	}

	if err := s.sendVerification(user, raw); err != nil {
		return nil, false, err
	}
	return user, false, nil
}

// issueVerification mints a new secret for an existing pending account,
// overwrites the stored digest/expiry pair, and dispatches a fresh message.
func (s *authService) issueVerification(ctx context.Context, user *model.User) error {
	raw, digest, err := auth.GenerateSecret()
	if err != nil {
		return err
	}
	expiresAt := time.Now().Add(s.linkTTL)
	if err := s.repo.SetVerificationToken(ctx, user.ID, digest, expiresAt); err != nil {
		// The account verified concurrently; no new digest was attached.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserAlreadyExists
		}
		return fmt.Errorf("store verification token: %w", err)
	}
	return s.sendVerification(user, raw)
}

func (s *authService) sendVerification(user *model.User, rawSecret string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", s.clientURL, rawSecret)
	subject, html, text := mail.VerificationEmail(user.Name, link)
	if err := s.mailer.Send(user.Email, subject, html, text); err != nil {
		log.Printf("verification mail to %s failed: %v", user.Email, err)
		return ErrMailDispatch
	}
	return nil
}

func (s *authService) VerifyEmail(ctx context.Context, rawSecret string) error {
	digest := auth.DigestSecret(rawSecret)
	consumed, err := s.repo.ConsumeVerificationToken(ctx, digest, time.Now())
	if err != nil {
		return fmt.Errorf("consume verification token: %w", err)
	}
	if !consumed {
		return ErrInvalidOrExpiredToken
	}
	return nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	if !user.IsVerified {
		return "", nil, ErrEmailNotVerified
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}
	return token, user, nil
}

// ForgotPassword acknowledges identically whether or not the email matches an
// account, so responses cannot be used to enumerate accounts.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("find user: %w", err)
	}

	raw, digest, err := auth.GenerateSecret()
	if err != nil {
		return err
	}
	expiresAt := time.Now().Add(s.linkTTL)
	if err := s.repo.SetResetToken(ctx, user.ID, digest, expiresAt); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", s.clientURL, raw)
	subject, html, text := mail.ResetEmail(user.Name, link)
	if err := s.mailer.Send(user.Email, subject, html, text); err != nil {
		log.Printf("reset mail to %s failed: %v", user.Email, err)
		return ErrMailDispatch
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, rawSecret, newPassword string) error {
	if len(newPassword) < 6 {
		return ErrPasswordTooShort
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	digest := auth.DigestSecret(rawSecret)
	consumed, err := s.repo.ConsumeResetToken(ctx, digest, hash, time.Now())
	if err != nil {
		return fmt.Errorf("consume reset token: %w", err)
	}
	if !consumed {
		return ErrInvalidOrExpiredToken
	}
	return nil
}
