package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pharmagen/pharmagen/internal/core/domain/chat"
	"github.com/pharmagen/pharmagen/internal/core/ports"
	"github.com/pharmagen/pharmagen/internal/infrastructure/httpserver/helpers"
)

type createSessionResponse struct {
	SessionID string `json:"session_id"`
	Token     string `json:"token"`
	Greeting  string `json:"greeting"`
}

func (s *Server) createSession(c echo.Context) error {
	session, greeting, err := s.chatService.StartSession(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to start session")
	}
	token, err := s.tokenService.Issue(session.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to issue session token")
	}
	return c.JSON(http.StatusCreated, createSessionResponse{
		SessionID: session.ID.String(),
		Token:     token,
		Greeting:  greeting,
	})
}

type postMessageRequest struct {
	Message string `json:"message"`
}

func (s *Server) postMessage(c echo.Context) error {
	sessionID, err := helpers.GetSessionIDFromContext(c)
	if err != nil {
		return err
	}

	var req postMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	reply, err := s.chatService.ProcessMessage(c.Request().Context(), sessionID, req.Message)
	if err != nil {
		return s.mapChatError(c, err)
	}
	return c.JSON(http.StatusOK, reply)
}

type rateLimitedResponse struct {
	Error           string `json:"error"`
	Reason          string `json:"reason"`
	RemainingMinute int    `json:"remaining_minute"`
	RemainingHour   int    `json:"remaining_hour"`
}

// mapChatError translates the three error classes that cross the orchestrator
// boundary into HTTP responses. Everything else is an internal failure.
func (s *Server) mapChatError(c echo.Context, err error) error {
	var rl *chat.RateLimitedError
	if errors.As(err, &rl) {
		return c.JSON(http.StatusTooManyRequests, rateLimitedResponse{
			Error:           "Rate limit exceeded. Please wait a moment before sending another message.",
			Reason:          string(rl.Reason),
			RemainingMinute: rl.RemainingMinute,
			RemainingHour:   rl.RemainingHour,
		})
	}
	if errors.Is(err, chat.ErrInputTooLong) {
		return echo.NewHTTPError(http.StatusBadRequest, "message is too long; please shorten it and try again")
	}
	var ue *ports.UpstreamError
	if errors.As(err, &ue) {
		if s.logger != nil {
			s.logger.WithError(ue).Warn("upstream failure surfaced to client")
		}
		return echo.NewHTTPError(http.StatusBadGateway, "unable to process your request right now; please try again later")
	}
	return echo.NewHTTPError(http.StatusNotFound, err.Error())
}
