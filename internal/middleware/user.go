package middleware

import (
	"strings"

	"github.com/finze/finze-backend/internal/domain"
	"github.com/labstack/echo/v4"
)

// UserIDKey is the context key holding the user a request is scoped to
const UserIDKey = "user_id"

// UserScope resolves the user from the :userId path parameter, falling back
// to the userId query parameter, and stores it in the request context.
// Authentication happens upstream; this only scopes data access.
func UserScope() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID := strings.TrimSpace(c.Param("userId"))
			if userID == "" {
				userID = strings.TrimSpace(c.QueryParam("userId"))
			}
			if userID == "" {
				return validationError(c, "userId is required")
			}
			if len(userID) > domain.MaxUserIDLength {
				return validationError(c, "userId is too long")
			}

			c.Set(UserIDKey, userID)
			return next(c)
		}
	}
}

// GetUserID returns the user stored by UserScope, or "" outside a scoped route
func GetUserID(c echo.Context) string {
	if id, ok := c.Get(UserIDKey).(string); ok {
		return id
	}
	return ""
}
