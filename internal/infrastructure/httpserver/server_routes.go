package httpserver

import (
	"github.com/labstack/echo/v4"
)

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", echo.WrapHandler(s.metricsHandler()))

	api := s.echo.Group("/api/v1")

	// Session creation is the only unauthenticated endpoint.
	api.POST("/sessions", s.createSession)

	chatGroup := api.Group("/chat", s.middleware.Session.RequireSession())
	chatGroup.POST("/messages", s.postMessage)
	chatGroup.GET("/report", s.getReport)
	chatGroup.GET("/report/pdf", s.getReportPDF)
}
