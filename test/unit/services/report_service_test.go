package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	impl "github.com/pharmagen/pharmagen/internal/application/services"
	"github.com/pharmagen/pharmagen/internal/core/domain/chat"
	"github.com/pharmagen/pharmagen/internal/core/domain/report"
	"github.com/pharmagen/pharmagen/test/mocks"
)

func TestParseAssessment_ExtractsAllSections(t *testing.T) {
	a := report.ParseAssessment(sampleAssessment)
	require.Equal(t, "Likely tension headache brought on by stress.", a.Diagnosis)
	require.Equal(t, "Cephalexa, a fast-acting analgesic concept.", a.Drug)
	require.Equal(t, "One tablet every eight hours with water.", a.Dosage)
	require.Equal(t, "No conflict with the reported penicillin allergy.", a.Safety)
}

func TestParseAssessment_MissingSectionsComeBackNotFound(t *testing.T) {
	a := report.ParseAssessment("Diagnosis: stress headache.")
	require.Equal(t, "stress headache.", a.Diagnosis)
	require.Equal(t, "Not found", a.Drug)
	require.Equal(t, "Not found", a.Dosage)
	require.Equal(t, "Not found", a.Safety)
	require.True(t, report.Found(a.Diagnosis))
	require.False(t, report.Found(a.Drug))
}

func TestParseAssessment_LabelsMatchedCaseInsensitively(t *testing.T) {
	a := report.ParseAssessment("DIAGNOSIS: flu.\nPROPOSED NEW DRUG: Fluvexa.")
	require.Equal(t, "flu.", a.Diagnosis)
	require.Equal(t, "Fluvexa.", a.Drug)
}

func TestReportService_NoAssessmentYet(t *testing.T) {
	session := chat.NewSession()
	repo := &mocks.SessionRepositoryMock{GetFn: func(ctx context.Context, id uuid.UUID) (*chat.Session, error) {
		return session, nil
	}}
	svc := impl.NewReportService(repo, &mocks.TranslatorMock{}, "PharmaGEN", logrus.New())

	_, err := svc.BuildReport(context.Background(), session.ID)
	require.ErrorIs(t, err, impl.ErrNoAssessment)
}

func TestReportService_BuildsTranslatedSections(t *testing.T) {
	session := chat.NewSession()
	session.Language = "Spanish"
	session.LangCode = "es"
	session.SymptomsUserLang = "me duele la cabeza"
	session.AllergiesUserLang = "penicilina"
	session.SymptomsEN = "headache"
	session.AllergiesEN = "penicillin"
	session.AssessmentEN = sampleAssessment

	repo := &mocks.SessionRepositoryMock{GetFn: func(ctx context.Context, id uuid.UUID) (*chat.Session, error) {
		return session, nil
	}}
	translator := &mocks.TranslatorMock{TranslateFn: func(ctx context.Context, text, srcLang, tgtLang string) (string, error) {
		return "[es] " + text, nil
	}}
	svc := impl.NewReportService(repo, translator, "PharmaGEN", logrus.New())

	rep, err := svc.BuildReport(context.Background(), session.ID)
	require.NoError(t, err)
	require.Equal(t, "PharmaGEN Medical Report", rep.Title)
	require.Equal(t, "Spanish", rep.Language)
	require.Len(t, rep.Sections, 6)

	// Section titles are translated; intake bodies stay in the user language.
	require.Equal(t, "[es] Symptoms", rep.Sections[0].Title)
	require.Equal(t, "me duele la cabeza", rep.Sections[0].Body)
	require.Equal(t, "penicilina", rep.Sections[1].Body)
	require.Equal(t, "[es] Likely tension headache brought on by stress.", rep.Sections[2].Body)
}

func TestReportService_EnglishSessionSkipsTranslation(t *testing.T) {
	session := chat.NewSession()
	session.Language = "English"
	session.LangCode = "en"
	session.SymptomsUserLang = "headache"
	session.AllergiesUserLang = "none"
	session.AssessmentEN = "Diagnosis: stress headache."

	repo := &mocks.SessionRepositoryMock{GetFn: func(ctx context.Context, id uuid.UUID) (*chat.Session, error) {
		return session, nil
	}}
	translatorCalls := 0
	translator := &mocks.TranslatorMock{TranslateFn: func(ctx context.Context, text, srcLang, tgtLang string) (string, error) {
		translatorCalls++
		return text, nil
	}}
	svc := impl.NewReportService(repo, translator, "PharmaGEN", logrus.New())

	rep, err := svc.BuildReport(context.Background(), session.ID)
	require.NoError(t, err)
	require.Equal(t, 0, translatorCalls)

	// Missing sections render as their placeholder, untranslated.
	require.Equal(t, "Not found", rep.Sections[3].Body)
}
