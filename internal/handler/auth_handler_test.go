package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"userhub/internal/model"
	"userhub/internal/service"
)

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, name, email, password string) (*model.User, bool, error) {
	args := m.Called(ctx, name, email, password)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*model.User), args.Bool(1), args.Error(2)
}

func (m *MockAuthService) VerifyEmail(ctx context.Context, rawSecret string) error {
	args := m.Called(ctx, rawSecret)
	return args.Error(0)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*model.User), args.Error(2)
}

func (m *MockAuthService) ForgotPassword(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, rawSecret, newPassword string) error {
	args := m.Called(ctx, rawSecret, newPassword)
	return args.Error(0)
}

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

func newAuthServer(svc service.AuthService) *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	h := NewAuthHandler(svc)
	e.POST("/api/auth/register", h.Register)
	e.POST("/api/auth/verify-email", h.VerifyEmail)
	e.POST("/api/auth/login", h.Login)
	e.POST("/api/auth/forgot-password", h.ForgotPassword)
	e.POST("/api/auth/reset-password", h.ResetPassword)
	return e
}

func postJSON(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthHandler_Register_Outcomes(t *testing.T) {
	body := `{"name":"Test User","email":"test@example.com","password":"password123"}`

	t.Run("created", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Register", mock.Anything, "Test User", "test@example.com", "password123").
			Return(&model.User{Name: "Test User", Email: "test@example.com", Role: model.RoleUser}, false, nil)

		rec := postJSON(newAuthServer(svc), "/api/auth/register", body)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), "check your email")
	})

	t.Run("resent", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Register", mock.Anything, "Test User", "test@example.com", "password123").
			Return(&model.User{Email: "test@example.com"}, true, nil)

		rec := postJSON(newAuthServer(svc), "/api/auth/register", body)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "VERIFICATION_RESENT")
	})

	t.Run("conflict", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Register", mock.Anything, "Test User", "test@example.com", "password123").
			Return(nil, false, service.ErrUserAlreadyExists)

		rec := postJSON(newAuthServer(svc), "/api/auth/register", body)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "USER_ALREADY_EXISTS")
	})

	t.Run("dispatch failure", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Register", mock.Anything, "Test User", "test@example.com", "password123").
			Return(nil, false, service.ErrMailDispatch)

		rec := postJSON(newAuthServer(svc), "/api/auth/register", body)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, rec.Body.String(), "EMAIL_DISPATCH_FAILED")
	})

	t.Run("whitespace-only name rejected", func(t *testing.T) {
		svc := new(MockAuthService)

		rec := postJSON(newAuthServer(svc), "/api/auth/register", `{"name":"   ","email":"test@example.com","password":"password123"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
		svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("validation failure never reaches the service", func(t *testing.T) {
		svc := new(MockAuthService)

		rec := postJSON(newAuthServer(svc), "/api/auth/register", `{"name":"","email":"nope","password":"x"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
		svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthHandler_Login_IndistinguishableFailures(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("Login", mock.Anything, "known@example.com", "wrong").Return("", nil, service.ErrInvalidCredentials)
	svc.On("Login", mock.Anything, "unknown@example.com", "wrong").Return("", nil, service.ErrInvalidCredentials)

	e := newAuthServer(svc)
	recWrongPassword := postJSON(e, "/api/auth/login", `{"email":"known@example.com","password":"wrong"}`)
	recUnknownEmail := postJSON(e, "/api/auth/login", `{"email":"unknown@example.com","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, recWrongPassword.Code)
	assert.Equal(t, recWrongPassword.Code, recUnknownEmail.Code)
	assert.Equal(t, recWrongPassword.Body.String(), recUnknownEmail.Body.String())
}

func TestAuthHandler_Login_UnverifiedGetsNoToken(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("Login", mock.Anything, "pending@example.com", "password123").Return("", nil, service.ErrEmailNotVerified)

	rec := postJSON(newAuthServer(svc), "/api/auth/login", `{"email":"pending@example.com","password":"password123"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "EMAIL_NOT_VERIFIED")
	assert.NotContains(t, rec.Body.String(), "token")
}

func TestAuthHandler_ForgotPassword_IdenticalAcknowledgement(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("ForgotPassword", mock.Anything, "known@example.com").Return(nil)
	svc.On("ForgotPassword", mock.Anything, "unknown@example.com").Return(nil)

	e := newAuthServer(svc)
	recKnown := postJSON(e, "/api/auth/forgot-password", `{"email":"known@example.com"}`)
	recUnknown := postJSON(e, "/api/auth/forgot-password", `{"email":"unknown@example.com"}`)

	assert.Equal(t, http.StatusOK, recKnown.Code)
	assert.Equal(t, recKnown.Code, recUnknown.Code)
	assert.Equal(t, recKnown.Body.String(), recUnknown.Body.String())
}

func TestAuthHandler_VerifyEmail_InvalidOrExpired(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("VerifyEmail", mock.Anything, "stale-secret").Return(service.ErrInvalidOrExpiredToken)

	rec := postJSON(newAuthServer(svc), "/api/auth/verify-email", `{"token":"stale-secret"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_OR_EXPIRED_TOKEN")
}
