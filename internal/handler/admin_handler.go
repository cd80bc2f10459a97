package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"userhub/internal/errors"
	"userhub/internal/middleware"
	"userhub/internal/repository"
	"userhub/internal/service"
)

// AdminHandler handles the admin-only account management endpoints.
type AdminHandler struct {
	adminService service.AdminService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// UpdateRoleRequest assigns a role to a user.
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// ListUsers godoc
// @Summary List users
// @Description Paginated listing with optional name/email search and role filter, newest first.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param search query string false "Substring match on name or email"
// @Param role query string false "Role filter"
// @Success 200 {object} service.UserPage
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.adminService.ListUsers(c.Request().Context(), repository.ListFilter{
		Page:   page,
		Limit:  limit,
		Search: c.QueryParam("search"),
		Role:   c.QueryParam("role"),
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to list users",
			Code:  "USER_LIST_FAILED",
		})
	}

	return c.JSON(http.StatusOK, result)
}

// GetUser godoc
// @Summary Get user by id
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/{id} [get]
func (h *AdminHandler) GetUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid user id",
			Code:  "INVALID_USER_ID",
		})
	}

	profile, err := h.adminService.GetUser(c.Request().Context(), id)
	if err != nil {
		if err == service.ErrUserNotFound {
			return echo.NewHTTPError(http.StatusNotFound, errors.ErrorResponse{
				Error: err.Error(),
				Code:  "USER_NOT_FOUND",
			})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to fetch user",
			Code:  "USER_FETCH_FAILED",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"user": profile,
	})
}

// UpdateRole godoc
// @Summary Update a user's role
// @Description Admins cannot change their own role.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body UpdateRoleRequest true "New role"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/{id}/role [put]
func (h *AdminHandler) UpdateRole(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid user id",
			Code:  "INVALID_USER_ID",
		})
	}

	var req UpdateRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	actor := middleware.CurrentUser(c)
	profile, err := h.adminService.UpdateRole(c.Request().Context(), actor.ID, id, req.Role)
	if err != nil {
		switch err {
		case service.ErrInvalidRole:
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: err.Error(),
				Code:  "INVALID_ROLE",
			})
		case service.ErrSelfTarget:
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "cannot change your own role",
				Code:  "SELF_TARGET",
			})
		case service.ErrUserNotFound:
			return echo.NewHTTPError(http.StatusNotFound, errors.ErrorResponse{
				Error: err.Error(),
				Code:  "USER_NOT_FOUND",
			})
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
				Error: "failed to update role",
				Code:  "ROLE_UPDATE_FAILED",
			})
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "user role updated successfully",
		"user":    profile,
	})
}

// DeleteUser godoc
// @Summary Delete a user
// @Description Admins cannot delete their own account.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid user id",
			Code:  "INVALID_USER_ID",
		})
	}

	actor := middleware.CurrentUser(c)
	if err := h.adminService.DeleteUser(c.Request().Context(), actor.ID, id); err != nil {
		switch err {
		case service.ErrSelfTarget:
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "cannot delete your own account",
				Code:  "SELF_TARGET",
			})
		case service.ErrUserNotFound:
			return echo.NewHTTPError(http.StatusNotFound, errors.ErrorResponse{
				Error: err.Error(),
				Code:  "USER_NOT_FOUND",
			})
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
				Error: "failed to delete user",
				Code:  "USER_DELETE_FAILED",
			})
		}
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "user deleted successfully",
	})
}
