package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"userhub/internal/errors"
	"userhub/internal/middleware"
	"userhub/internal/service"
)

// UserHandler handles the authenticated profile endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UpdateProfileRequest changes the display name and email.
type UpdateProfileRequest struct {
	Name  string `json:"name" validate:"required,max=50"`
	Email string `json:"email" validate:"required,email"`
}

// ChangePasswordRequest rotates the password on the authenticated path.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

// GetProfile godoc
// @Summary Get own profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/profile [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	actor := middleware.CurrentUser(c)

	profile, err := h.userService.GetProfile(c.Request().Context(), actor.ID)
	if err != nil {
		if err == service.ErrUserNotFound {
			return echo.NewHTTPError(http.StatusNotFound, errors.ErrorResponse{
				Error: err.Error(),
				Code:  "USER_NOT_FOUND",
			})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to fetch profile",
			Code:  "PROFILE_FETCH_FAILED",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"user": profile,
	})
}

// UpdateProfile godoc
// @Summary Update own profile
// @Description Changes name and email only; the password is never touched by this endpoint.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ValidationResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /users/profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	// Trim before validating so a whitespace-only name fails "required".
	req.Name = strings.TrimSpace(req.Name)
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	actor := middleware.CurrentUser(c)
	profile, err := h.userService.UpdateProfile(c.Request().Context(), actor.ID, req.Name, req.Email)
	if err != nil {
		switch err {
		case service.ErrEmailTaken:
			return echo.NewHTTPError(http.StatusConflict, errors.ErrorResponse{
				Error: err.Error(),
				Code:  "EMAIL_TAKEN",
			})
		case service.ErrUserNotFound:
			return echo.NewHTTPError(http.StatusNotFound, errors.ErrorResponse{
				Error: err.Error(),
				Code:  "USER_NOT_FOUND",
			})
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
				Error: "failed to update profile",
				Code:  "PROFILE_UPDATE_FAILED",
			})
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "profile updated successfully",
		"user":    profile,
	})
}

// ChangePassword godoc
// @Summary Change own password
// @Description Requires the current password before accepting the new one.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "Current and new password"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Router /users/change-password [put]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	actor := middleware.CurrentUser(c)
	err := h.userService.ChangePassword(c.Request().Context(), actor.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch err {
		case service.ErrCurrentPasswordIncorrect:
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: err.Error(),
				Code:  "CURRENT_PASSWORD_INCORRECT",
			})
		case service.ErrPasswordTooShort:
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: err.Error(),
				Code:  "PASSWORD_TOO_SHORT",
			})
		case service.ErrUserNotFound:
			return echo.NewHTTPError(http.StatusNotFound, errors.ErrorResponse{
				Error: err.Error(),
				Code:  "USER_NOT_FOUND",
			})
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
				Error: "failed to change password",
				Code:  "PASSWORD_CHANGE_FAILED",
			})
		}
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "password changed successfully",
	})
}
