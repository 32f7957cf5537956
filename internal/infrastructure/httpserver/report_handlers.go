package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pharmagen/pharmagen/internal/application/services"
	"github.com/pharmagen/pharmagen/internal/infrastructure/httpserver/helpers"
)

func (s *Server) getReport(c echo.Context) error {
	sessionID, err := helpers.GetSessionIDFromContext(c)
	if err != nil {
		return err
	}
	rep, err := s.reportService.BuildReport(c.Request().Context(), sessionID)
	if err != nil {
		if errors.Is(err, services.ErrNoAssessment) {
			return echo.NewHTTPError(http.StatusConflict, "no report available yet; complete the consultation first")
		}
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, rep)
}

func (s *Server) getReportPDF(c echo.Context) error {
	if s.reportRenderer == nil {
		return echo.NewHTTPError(http.StatusNotFound, "PDF download is disabled")
	}
	sessionID, err := helpers.GetSessionIDFromContext(c)
	if err != nil {
		return err
	}
	rep, err := s.reportService.BuildReport(c.Request().Context(), sessionID)
	if err != nil {
		if errors.Is(err, services.ErrNoAssessment) {
			return echo.NewHTTPError(http.StatusConflict, "no report available yet; complete the consultation first")
		}
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	data, filename, err := s.reportRenderer.Render(rep)
	if err != nil {
		if s.logger != nil {
			s.logger.WithError(err).Error("PDF rendering failed")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to render report")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "application/pdf", data)
}
