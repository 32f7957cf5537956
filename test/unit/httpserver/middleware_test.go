package httpserver_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/pharmagen/pharmagen/internal/infrastructure/httpserver/helpers"
	"github.com/pharmagen/pharmagen/internal/infrastructure/httpserver/middleware"
	tmocks "github.com/pharmagen/pharmagen/test/mocks"
)

func TestSessionMiddleware_MissingTokenReturns401(t *testing.T) {
	e := echo.New()
	m := middleware.NewSessionMiddleware(&tmocks.TokenServiceMock{}, logrus.New())
	handler := m.RequireSession()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := handler(c)
	require.Error(t, err)
	htErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, htErr.Code)
}

func TestSessionMiddleware_InvalidTokenReturns401(t *testing.T) {
	e := echo.New()
	tokens := &tmocks.TokenServiceMock{VerifyFn: func(token string) (uuid.UUID, error) {
		return uuid.Nil, fmt.Errorf("bad token")
	}}
	m := middleware.NewSessionMiddleware(tokens, logrus.New())
	handler := m.RequireSession()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer invalid")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := handler(c)
	require.Error(t, err)
	htErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, htErr.Code)
}

func TestSessionMiddleware_ValidTokenSetsSessionID(t *testing.T) {
	e := echo.New()
	sessionID := uuid.New()
	tokens := &tmocks.TokenServiceMock{VerifyFn: func(token string) (uuid.UUID, error) {
		require.Equal(t, "good", token)
		return sessionID, nil
	}}
	m := middleware.NewSessionMiddleware(tokens, logrus.New())
	handler := m.RequireSession()(func(c echo.Context) error {
		got, err := helpers.GetSessionIDFromContext(c)
		require.NoError(t, err)
		require.Equal(t, sessionID, got)
		return c.NoContent(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, handler(c))
	require.Equal(t, http.StatusOK, rec.Code)
}
