package middleware

import (
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"userhub/internal/auth"
	apperrors "userhub/internal/errors"
	"userhub/internal/model"
	"userhub/internal/repository"
)

// userContextKey is where LoadUser stores the resolved account record.
const userContextKey = "current_user"

// Bearer verifies the Authorization header's signature and expiry. Missing,
// malformed, or tampered tokens short-circuit with 401 before any handler runs.
func Bearer(secret []byte) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey: secret,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	})
}

// LoadUser resolves the bearer subject to a live account record. The record
// is re-fetched on every request rather than decoded from the token, so role
// changes and deletions take effect immediately. Unverified accounts are
// locked out even if they hold a still-valid token.
func LoadUser(repo repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			claims, ok := token.Claims.(*auth.Claims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			id, err := uuid.Parse(claims.UserID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			user, err := repo.FindByID(c.Request().Context(), id)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					// Deleted account with a live token.
					return echo.NewHTTPError(http.StatusUnauthorized, "not authorized")
				}
				c.Logger().Errorf("load user %s: %v", id, err)
				return echo.NewHTTPError(http.StatusInternalServerError, apperrors.ErrorResponse{
					Error: "internal server error",
					Code:  "INTERNAL_ERROR",
				})
			}
			if !user.IsVerified {
				return echo.NewHTTPError(http.StatusForbidden, apperrors.ErrorResponse{
					Error: "please verify your email",
					Code:  "EMAIL_NOT_VERIFIED",
				})
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// RequireAdmin rejects requests whose resolved account is not an admin. Must
// run after LoadUser.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := CurrentUser(c)
		if user == nil || user.Role != model.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, apperrors.ErrorResponse{
				Error: "not authorized as admin",
				Code:  "ADMIN_REQUIRED",
			})
		}
		return next(c)
	}
}

// CurrentUser returns the account record attached by LoadUser, or nil.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(userContextKey).(*model.User)
	return user
}
