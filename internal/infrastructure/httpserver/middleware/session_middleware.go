package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/pharmagen/pharmagen/internal/core/ports"
	"github.com/pharmagen/pharmagen/internal/infrastructure/httpserver/helpers"
)

type SessionMiddleware struct {
	tokens ports.TokenService
	logger *logrus.Logger
}

func NewSessionMiddleware(tokens ports.TokenService, logger *logrus.Logger) *SessionMiddleware {
	return &SessionMiddleware{tokens: tokens, logger: logger}
}

// RequireSession authenticates the bearer session token and stores the
// resolved session ID on the context. That ID is the identity the rate
// limiter accounts against.
func (m *SessionMiddleware) RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := helpers.GetBearerTokenFromContext(c)
			if err != nil {
				return err
			}
			sessionID, err := m.tokens.Verify(token)
			if err != nil {
				if m.logger != nil {
					m.logger.WithError(err).Debug("session token rejected")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired session token")
			}
			helpers.SetSessionID(c, sessionID)
			return next(c)
		}
	}
}
