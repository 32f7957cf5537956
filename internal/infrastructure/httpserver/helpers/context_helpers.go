package helpers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ctxKey string

const keySessionID ctxKey = "session_id"

// SetSessionID stores the authenticated session ID on the request context.
func SetSessionID(c echo.Context, id uuid.UUID) { c.Set(string(keySessionID), id) }

// GetSessionIDRaw returns the session ID set by the session middleware.
func GetSessionIDRaw(c echo.Context) (uuid.UUID, bool) {
	v := c.Get(string(keySessionID))
	id, ok := v.(uuid.UUID)
	return id, ok
}

// GetSessionIDFromContext returns the session ID or a 401 error.
func GetSessionIDFromContext(c echo.Context) (uuid.UUID, error) {
	id, ok := GetSessionIDRaw(c)
	if !ok {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid session context")
	}
	return id, nil
}

// GetBearerTokenFromContext extracts the bearer token from the Authorization header.
func GetBearerTokenFromContext(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "empty token")
	}
	return token, nil
}
