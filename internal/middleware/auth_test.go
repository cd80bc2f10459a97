package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"userhub/internal/auth"
	"userhub/internal/model"
	"userhub/internal/repository"
)

// stubUserRepo serves a single account by id.
type stubUserRepo struct {
	user    *model.User
	findErr error
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) Create(ctx context.Context, user *model.User) error { return nil }
func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (s *stubUserRepo) EmailTaken(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	return false, nil
}
func (s *stubUserRepo) SetVerificationToken(ctx context.Context, id uuid.UUID, digest string, expiresAt time.Time) error {
	return nil
}
func (s *stubUserRepo) ConsumeVerificationToken(ctx context.Context, digest string, now time.Time) (bool, error) {
	return false, nil
}
func (s *stubUserRepo) SetResetToken(ctx context.Context, id uuid.UUID, digest string, expiresAt time.Time) error {
	return nil
}
func (s *stubUserRepo) ConsumeResetToken(ctx context.Context, digest, passwordHash string, now time.Time) (bool, error) {
	return false, nil
}
func (s *stubUserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, name, email string) (*model.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (s *stubUserRepo) UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return nil
}
func (s *stubUserRepo) UpdateRole(ctx context.Context, id uuid.UUID, role string) (*model.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (s *stubUserRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (s *stubUserRepo) List(ctx context.Context, filter repository.ListFilter) ([]model.User, int64, error) {
	return nil, 0, nil
}

func newGateServer(repo repository.UserRepository, tokens *auth.TokenService, adminOnly bool) *echo.Echo {
	e := echo.New()
	mws := []echo.MiddlewareFunc{Bearer(tokens.Secret()), LoadUser(repo)}
	if adminOnly {
		mws = append(mws, RequireAdmin)
	}
	g := e.Group("/protected", mws...)
	g.GET("", func(c echo.Context) error {
		return c.JSON(http.StatusOK, CurrentUser(c).ToProfile())
	})
	return e
}

func doRequest(e *echo.Echo, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestGate_MissingToken(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", time.Hour)
	e := newGateServer(&stubUserRepo{}, tokens, false)

	rec := doRequest(e, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGate_WrongSigningSecret(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", time.Hour)
	forger := auth.NewTokenService("other-secret", time.Hour)

	user := &model.User{ID: uuid.New(), Role: model.RoleUser, IsVerified: true}
	e := newGateServer(&stubUserRepo{user: user}, tokens, false)

	forged, err := forger.Generate(user.ID)
	assert.NoError(t, err)

	rec := doRequest(e, forged)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGate_ExpiredToken(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", time.Hour)
	expired := auth.NewTokenService("test-secret", -time.Minute)

	user := &model.User{ID: uuid.New(), Role: model.RoleUser, IsVerified: true}
	e := newGateServer(&stubUserRepo{user: user}, tokens, false)

	token, err := expired.Generate(user.ID)
	assert.NoError(t, err)

	rec := doRequest(e, token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGate_DeletedAccount(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", time.Hour)
	e := newGateServer(&stubUserRepo{}, tokens, false)

	token, err := tokens.Generate(uuid.New())
	assert.NoError(t, err)

	rec := doRequest(e, token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGate_StoreErrorIsNot401(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", time.Hour)
	e := newGateServer(&stubUserRepo{findErr: errors.New("connection refused")}, tokens, false)

	token, err := tokens.Generate(uuid.New())
	assert.NoError(t, err)

	rec := doRequest(e, token)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGate_UnverifiedAccount(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", time.Hour)
	user := &model.User{ID: uuid.New(), Role: model.RoleUser, IsVerified: false}
	e := newGateServer(&stubUserRepo{user: user}, tokens, false)

	token, err := tokens.Generate(user.ID)
	assert.NoError(t, err)

	rec := doRequest(e, token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGate_ValidTokenLoadsUser(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", time.Hour)
	user := &model.User{ID: uuid.New(), Name: "Test User", Role: model.RoleUser, IsVerified: true}
	e := newGateServer(&stubUserRepo{user: user}, tokens, false)

	token, err := tokens.Generate(user.ID)
	assert.NoError(t, err)

	rec := doRequest(e, token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), user.ID.String())
}

func TestGate_AdminRequired(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", time.Hour)

	t.Run("plain user is forbidden", func(t *testing.T) {
		user := &model.User{ID: uuid.New(), Role: model.RoleUser, IsVerified: true}
		e := newGateServer(&stubUserRepo{user: user}, tokens, true)

		token, err := tokens.Generate(user.ID)
		assert.NoError(t, err)

		rec := doRequest(e, token)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin passes", func(t *testing.T) {
		admin := &model.User{ID: uuid.New(), Role: model.RoleAdmin, IsVerified: true}
		e := newGateServer(&stubUserRepo{user: admin}, tokens, true)

		token, err := tokens.Generate(admin.ID)
		assert.NoError(t, err)

		rec := doRequest(e, token)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
