package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"userhub/internal/errors"
	"userhub/internal/service"
)

// AuthHandler handles registration, verification, login and password reset.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// VerifyEmailRequest carries the raw secret from a verification link.
type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest asks for a reset link.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest redeems a reset secret for a new password.
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginResponse represents a successful login.
type LoginResponse struct {
	Token string      `json:"token"`
	User  interface{} `json:"user"`
}

// Register godoc
// @Summary Register a new user
// @Description Creates a pending account and emails a verification link. Registering an unverified email again resends the link.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} map[string]interface{}
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ValidationResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	// Trim before validating so a whitespace-only name fails "required".
	req.Name = strings.TrimSpace(req.Name)
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	user, resent, err := h.authService.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch err {
		case service.ErrUserAlreadyExists:
			return echo.NewHTTPError(http.StatusConflict, errors.ErrorResponse{
				Error: err.Error(),
				Code:  "USER_ALREADY_EXISTS",
			})
		case service.ErrMailDispatch:
			return echo.NewHTTPError(http.StatusBadGateway, errors.ErrorResponse{
				Error: err.Error(),
				Code:  "EMAIL_DISPATCH_FAILED",
			})
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
				Error: "failed to register user",
				Code:  "REGISTRATION_FAILED",
			})
		}
	}

	if resent {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"message": "verification email resent, please check your inbox",
			"code":    "VERIFICATION_RESENT",
		})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "registration successful, please check your email for verification",
		"user":    user.ToProfile(),
	})
}

// VerifyEmail godoc
// @Summary Verify email address
// @Description Redeems the single-use secret from a verification link. A secret redeems exactly once.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body VerifyEmailRequest true "Verification token"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Router /auth/verify-email [post]
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	var req VerifyEmailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	if err := h.authService.VerifyEmail(c.Request().Context(), req.Token); err != nil {
		if err == service.ErrInvalidOrExpiredToken {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid or expired verification token",
				Code:  "INVALID_OR_EXPIRED_TOKEN",
			})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to verify email",
			Code:  "VERIFICATION_FAILED",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "email verified successfully",
	})
}

// Login godoc
// @Summary Login
// @Description Issues a bearer token for a verified account. Unknown email and wrong password produce the identical response.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} errors.ValidationResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch err {
		case service.ErrInvalidCredentials:
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
				Error: err.Error(),
				Code:  "INVALID_CREDENTIALS",
			})
		case service.ErrEmailNotVerified:
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
				Error: err.Error(),
				Code:  "EMAIL_NOT_VERIFIED",
			})
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
				Error: "failed to login",
				Code:  "LOGIN_FAILED",
			})
		}
	}

	return c.JSON(http.StatusOK, LoginResponse{
		Token: token,
		User:  user.ToProfile(),
	})
}

// ForgotPassword godoc
// @Summary Request password reset
// @Description Always acknowledges identically whether or not the email is registered.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "Account email"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ValidationResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	if err := h.authService.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		if err == service.ErrMailDispatch {
			return echo.NewHTTPError(http.StatusBadGateway, errors.ErrorResponse{
				Error: err.Error(),
				Code:  "EMAIL_DISPATCH_FAILED",
			})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to process reset request",
			Code:  "RESET_REQUEST_FAILED",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "if an account with that email exists, a reset link has been sent",
	})
}

// ResetPassword godoc
// @Summary Reset password
// @Description Redeems a single-use reset secret and replaces the password.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "Reset token and new password"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	if err := h.authService.ResetPassword(c.Request().Context(), req.Token, req.Password); err != nil {
		switch err {
		case service.ErrInvalidOrExpiredToken:
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid or expired reset token",
				Code:  "INVALID_OR_EXPIRED_TOKEN",
			})
		case service.ErrPasswordTooShort:
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: err.Error(),
				Code:  "PASSWORD_TOO_SHORT",
			})
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
				Error: "failed to reset password",
				Code:  "RESET_FAILED",
			})
		}
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "password reset successful",
	})
}
