package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	impl "github.com/pharmagen/pharmagen/internal/application/services"
	"github.com/pharmagen/pharmagen/internal/core/domain/chat"
	"github.com/pharmagen/pharmagen/test/mocks"
)

const sampleAssessment = `Diagnosis:
Likely tension headache brought on by stress.

Proposed New Drug:
Cephalexa, a fast-acting analgesic concept.

Hypothetical Dosage/Instructions:
One tablet every eight hours with water.

Allergy/Safety Note:
No conflict with the reported penicillin allergy.`

// memSessionRepo keeps sessions in a map so stage transitions persist across
// ProcessMessage calls.
type memSessionRepo struct {
	sessions map[uuid.UUID]chat.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[uuid.UUID]chat.Session)}
}
func (r *memSessionRepo) Save(ctx context.Context, s *chat.Session) error {
	r.sessions[s.ID] = *s
	return nil
}
func (r *memSessionRepo) Get(ctx context.Context, id uuid.UUID) (*chat.Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, &notFoundErr{}
	}
	copied := s
	return &copied, nil
}
func (r *memSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.sessions, id)
	return nil
}

type notFoundErr struct{}

func (e *notFoundErr) Error() string { return "session not found or expired" }

func newChatService(repo *memSessionRepo, turns *mocks.TurnOrchestratorMock) *impl.ChatService {
	return impl.NewChatService(repo, turns, &mocks.TranslatorMock{}, 1000, logrus.New())
}

func TestChatService_StartSessionGreetsWithLanguages(t *testing.T) {
	repo := newMemSessionRepo()
	svc := newChatService(repo, &mocks.TurnOrchestratorMock{})

	session, greeting, err := svc.StartSession(context.Background())
	require.NoError(t, err)
	require.Equal(t, chat.StageAskLanguage, session.Stage)
	require.Contains(t, greeting, "English")
	require.Contains(t, greeting, "Spanish")
	require.Len(t, repo.sessions, 1)
}

func TestChatService_UnsupportedLanguageKeepsStage(t *testing.T) {
	repo := newMemSessionRepo()
	svc := newChatService(repo, &mocks.TurnOrchestratorMock{})
	session, _, err := svc.StartSession(context.Background())
	require.NoError(t, err)

	reply, err := svc.ProcessMessage(context.Background(), session.ID, "klingon")
	require.NoError(t, err)
	require.Equal(t, chat.StageAskLanguage, reply.Stage)
	require.Contains(t, reply.Reply, "not supported")
}

func TestChatService_FullConsultationFlowInEnglish(t *testing.T) {
	repo := newMemSessionRepo()
	var turnPrompts []string
	turns := &mocks.TurnOrchestratorMock{HandleTurnFn: func(ctx context.Context, req chat.TurnRequest) (*chat.TurnResult, error) {
		turnPrompts = append(turnPrompts, req.Text)
		require.True(t, req.Composed)
		return &chat.TurnResult{Text: sampleAssessment, RemainingMinute: 8, RemainingHour: 97}, nil
	}}
	svc := newChatService(repo, turns)
	session, _, err := svc.StartSession(context.Background())
	require.NoError(t, err)

	// Language selection is case-insensitive.
	reply, err := svc.ProcessMessage(context.Background(), session.ID, "english")
	require.NoError(t, err)
	require.Equal(t, chat.StageAskSymptoms, reply.Stage)

	reply, err = svc.ProcessMessage(context.Background(), session.ID, "I have a headache and fever")
	require.NoError(t, err)
	require.Equal(t, chat.StageAskAllergies, reply.Stage)
	require.Contains(t, reply.Reply, "allergies")

	reply, err = svc.ProcessMessage(context.Background(), session.ID, "penicillin")
	require.NoError(t, err)
	require.Equal(t, chat.StageGeneralQnA, reply.Stage)
	require.Contains(t, reply.Reply, "Diagnosis:")
	require.Contains(t, reply.EnglishSummary, "**Symptoms:** I have a headache and fever")
	require.Contains(t, reply.EnglishSummary, "Cephalexa")

	// English session: no translation turns, only the diagnosis prompt so far.
	require.Len(t, turnPrompts, 1)
	require.Contains(t, turnPrompts[0], "Symptoms: I have a headache and fever")
	require.Contains(t, turnPrompts[0], "Allergies: penicillin")

	reply, err = svc.ProcessMessage(context.Background(), session.ID, "Can I take it with food?")
	require.NoError(t, err)
	require.Equal(t, chat.StageGeneralQnA, reply.Stage)
	require.Len(t, turnPrompts, 2)
	require.Contains(t, turnPrompts[1], "User question: Can I take it with food?")
	require.Contains(t, turnPrompts[1], "Previous symptoms: I have a headache and fever")

	saved := repo.sessions[session.ID]
	require.Equal(t, sampleAssessment, saved.AssessmentEN)
}

func TestChatService_NonEnglishSessionTranslatesInput(t *testing.T) {
	repo := newMemSessionRepo()
	var requests []chat.TurnRequest
	turns := &mocks.TurnOrchestratorMock{HandleTurnFn: func(ctx context.Context, req chat.TurnRequest) (*chat.TurnResult, error) {
		requests = append(requests, req)
		if req.SourceLanguageHint != "" {
			return &chat.TurnResult{Text: "translated to english", RemainingMinute: 8, RemainingHour: 97}, nil
		}
		return &chat.TurnResult{Text: sampleAssessment, RemainingMinute: 7, RemainingHour: 96}, nil
	}}
	svc := newChatService(repo, turns)
	session, _, err := svc.StartSession(context.Background())
	require.NoError(t, err)

	_, err = svc.ProcessMessage(context.Background(), session.ID, "Spanish")
	require.NoError(t, err)

	_, err = svc.ProcessMessage(context.Background(), session.ID, "me duele la cabeza")
	require.NoError(t, err)

	// The symptom intake went through the metered path as a translation.
	require.Len(t, requests, 1)
	require.Equal(t, "me duele la cabeza", requests[0].Text)
	require.Equal(t, "es", requests[0].SourceLanguageHint)
	require.Equal(t, "en", requests[0].TargetLanguage)
	require.False(t, requests[0].Composed)
	require.Equal(t, session.ID.String(), requests[0].Identity)

	saved := repo.sessions[session.ID]
	require.Equal(t, "me duele la cabeza", saved.SymptomsUserLang)
	require.Equal(t, "translated to english", saved.SymptomsEN)
}

func TestChatService_EmptyMessagePromptsWithoutStageChange(t *testing.T) {
	repo := newMemSessionRepo()
	svc := newChatService(repo, &mocks.TurnOrchestratorMock{})
	session, _, err := svc.StartSession(context.Background())
	require.NoError(t, err)

	reply, err := svc.ProcessMessage(context.Background(), session.ID, "   ")
	require.NoError(t, err)
	require.Equal(t, chat.StageAskLanguage, reply.Stage)
	require.Contains(t, reply.Reply, "type a message")
}

func TestChatService_OverlongMessageRejected(t *testing.T) {
	repo := newMemSessionRepo()
	svc := impl.NewChatService(repo, &mocks.TurnOrchestratorMock{}, &mocks.TranslatorMock{}, 20, logrus.New())
	session, _, err := svc.StartSession(context.Background())
	require.NoError(t, err)

	_, err = svc.ProcessMessage(context.Background(), session.ID, strings.Repeat("a", 21))
	require.ErrorIs(t, err, chat.ErrInputTooLong)
}

func TestChatService_RateLimitedTurnPropagates(t *testing.T) {
	repo := newMemSessionRepo()
	turns := &mocks.TurnOrchestratorMock{HandleTurnFn: func(ctx context.Context, req chat.TurnRequest) (*chat.TurnResult, error) {
		return nil, &chat.RateLimitedError{Reason: chat.ReasonMinuteLimit}
	}}
	svc := newChatService(repo, turns)
	session, _, err := svc.StartSession(context.Background())
	require.NoError(t, err)

	_, err = svc.ProcessMessage(context.Background(), session.ID, "English")
	require.NoError(t, err)
	_, err = svc.ProcessMessage(context.Background(), session.ID, "headache")
	require.NoError(t, err)

	// The diagnosis turn is rejected; the stage must not advance past allergies.
	_, err = svc.ProcessMessage(context.Background(), session.ID, "none")
	var rl *chat.RateLimitedError
	require.ErrorAs(t, err, &rl)
	require.Equal(t, chat.StageAskAllergies, repo.sessions[session.ID].Stage)
}

func TestChatService_UnknownSessionFails(t *testing.T) {
	repo := newMemSessionRepo()
	svc := newChatService(repo, &mocks.TurnOrchestratorMock{})
	_, err := svc.ProcessMessage(context.Background(), uuid.New(), "hello")
	require.Error(t, err)
}
