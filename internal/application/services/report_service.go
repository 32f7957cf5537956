package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pharmagen/pharmagen/internal/core/domain/report"
	"github.com/pharmagen/pharmagen/internal/core/ports"
)

// ErrNoAssessment is returned when a report is requested before the
// consultation has produced one.
var ErrNoAssessment = errors.New("no assessment available for this session yet")

// ReportService assembles the finished, translated report record consumed by
// the renderers. Section translations go through the cache-backed translator,
// so rebuilding a report is cheap after the first time.
type ReportService struct {
	sessions   ports.SessionRepository
	translator ports.Translator
	appTitle   string
	logger     *logrus.Logger
}

func NewReportService(sessions ports.SessionRepository, translator ports.Translator, appTitle string, logger *logrus.Logger) *ReportService {
	if appTitle == "" {
		appTitle = "PharmaGEN"
	}
	return &ReportService{sessions: sessions, translator: translator, appTitle: appTitle, logger: logger}
}

// BuildReport implements ports.ReportService.
func (s *ReportService) BuildReport(ctx context.Context, sessionID uuid.UUID) (*report.Report, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.AssessmentEN == "" {
		return nil, ErrNoAssessment
	}

	a := report.ParseAssessment(session.AssessmentEN)
	lang := session.LangCode

	translate := func(en string) string {
		if lang == "" || lang == "en" {
			return en
		}
		out, err := s.translator.Translate(ctx, en, "en", lang)
		if err != nil || out == "" {
			return en
		}
		return out
	}
	body := func(en string) string {
		if !report.Found(en) {
			return en
		}
		return translate(en)
	}

	r := &report.Report{
		Title:       fmt.Sprintf("%s Medical Report", s.appTitle),
		Language:    session.Language,
		GeneratedAt: time.Now().UTC(),
		Sections: []report.Section{
			{Title: translate("Symptoms"), Body: session.SymptomsUserLang},
			{Title: translate("Allergies"), Body: session.AllergiesUserLang},
			{Title: translate("Diagnosis"), Body: body(a.Diagnosis)},
			{Title: translate("Medicine"), Body: body(a.Drug)},
			{Title: translate("Dosage"), Body: body(a.Dosage)},
			{Title: translate("Safety Notes"), Body: body(a.Safety)},
		},
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"session_id": sessionID, "language": session.Language}).Info("report assembled")
	}
	return r, nil
}
