package mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pharmagen/pharmagen/internal/core/domain/chat"
	"github.com/pharmagen/pharmagen/internal/core/domain/report"
	"github.com/pharmagen/pharmagen/internal/core/ports"
)

// KeyValueStoreMock is a lightweight mock for KeyValueStore
type KeyValueStoreMock struct {
	GetFn       func(ctx context.Context, key string) (string, bool, error)
	SetFn       func(ctx context.Context, key, value string, ttl time.Duration) error
	IncrementFn func(ctx context.Context, key string, ttl time.Duration) (int64, error)
	DeleteFn    func(ctx context.Context, key string) error
}

func (m *KeyValueStoreMock) Get(ctx context.Context, key string) (string, bool, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, key)
	}
	return "", false, nil
}
func (m *KeyValueStoreMock) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.SetFn != nil {
		return m.SetFn(ctx, key, value, ttl)
	}
	return nil
}
func (m *KeyValueStoreMock) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if m.IncrementFn != nil {
		return m.IncrementFn(ctx, key, ttl)
	}
	return 1, nil
}
func (m *KeyValueStoreMock) Delete(ctx context.Context, key string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, key)
	}
	return nil
}

// CacheManagerMock mocks the cache manager with a miss-everything default.
type CacheManagerMock struct {
	MakeKeyFn func(sourceText, targetLanguage string) string
	LookupFn  func(ctx context.Context, key string) (string, bool)
	StoreFn   func(ctx context.Context, key, value string)
}

func (m *CacheManagerMock) MakeKey(sourceText, targetLanguage string) string {
	if m.MakeKeyFn != nil {
		return m.MakeKeyFn(sourceText, targetLanguage)
	}
	return sourceText + "|" + targetLanguage
}
func (m *CacheManagerMock) Lookup(ctx context.Context, key string) (string, bool) {
	if m.LookupFn != nil {
		return m.LookupFn(ctx, key)
	}
	return "", false
}
func (m *CacheManagerMock) Store(ctx context.Context, key, value string) {
	if m.StoreFn != nil {
		m.StoreFn(ctx, key, value)
	}
}

// RateLimiterMock mocks the rate limiter with an admit-everything default.
type RateLimiterMock struct {
	CheckAndIncrementFn func(ctx context.Context, identity string) chat.AdmissionDecision
}

func (m *RateLimiterMock) CheckAndIncrement(ctx context.Context, identity string) chat.AdmissionDecision {
	if m.CheckAndIncrementFn != nil {
		return m.CheckAndIncrementFn(ctx, identity)
	}
	return chat.AdmissionDecision{Admitted: true, Reason: chat.ReasonOK, RemainingMinute: 9, RemainingHour: 99}
}

// GeneratorMock mocks the upstream generation capability.
type GeneratorMock struct {
	GenerateFn func(ctx context.Context, prompt string, opts ports.GenerateOptions) (string, error)
}

func (m *GeneratorMock) Generate(ctx context.Context, prompt string, opts ports.GenerateOptions) (string, error) {
	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, prompt, opts)
	}
	return "generated", nil
}

// TranslatorMock mocks the free translator with an identity default.
type TranslatorMock struct {
	TranslateFn func(ctx context.Context, text, srcLang, tgtLang string) (string, error)
}

func (m *TranslatorMock) Translate(ctx context.Context, text, srcLang, tgtLang string) (string, error) {
	if m.TranslateFn != nil {
		return m.TranslateFn(ctx, text, srcLang, tgtLang)
	}
	return text, nil
}

// TurnOrchestratorMock mocks the request orchestrator.
type TurnOrchestratorMock struct {
	HandleTurnFn func(ctx context.Context, req chat.TurnRequest) (*chat.TurnResult, error)
}

func (m *TurnOrchestratorMock) HandleTurn(ctx context.Context, req chat.TurnRequest) (*chat.TurnResult, error) {
	if m.HandleTurnFn != nil {
		return m.HandleTurnFn(ctx, req)
	}
	return &chat.TurnResult{Text: req.Text, RemainingMinute: 9, RemainingHour: 99}, nil
}

// SessionRepositoryMock mocks the session repository.
type SessionRepositoryMock struct {
	SaveFn   func(ctx context.Context, s *chat.Session) error
	GetFn    func(ctx context.Context, id uuid.UUID) (*chat.Session, error)
	DeleteFn func(ctx context.Context, id uuid.UUID) error
}

func (m *SessionRepositoryMock) Save(ctx context.Context, s *chat.Session) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, s)
	}
	return nil
}
func (m *SessionRepositoryMock) Get(ctx context.Context, id uuid.UUID) (*chat.Session, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, id)
	}
	return nil, fmt.Errorf("session %s not found or expired", id)
}
func (m *SessionRepositoryMock) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

// TokenServiceMock mocks session token issuance and verification.
type TokenServiceMock struct {
	IssueFn  func(sessionID uuid.UUID) (string, error)
	VerifyFn func(token string) (uuid.UUID, error)
}

func (m *TokenServiceMock) Issue(sessionID uuid.UUID) (string, error) {
	if m.IssueFn != nil {
		return m.IssueFn(sessionID)
	}
	return "token-" + sessionID.String(), nil
}
func (m *TokenServiceMock) Verify(token string) (uuid.UUID, error) {
	if m.VerifyFn != nil {
		return m.VerifyFn(token)
	}
	return uuid.Nil, fmt.Errorf("invalid token")
}

// ChatServiceMock mocks the guided consultation service.
type ChatServiceMock struct {
	StartSessionFn   func(ctx context.Context) (*chat.Session, string, error)
	ProcessMessageFn func(ctx context.Context, sessionID uuid.UUID, message string) (*chat.MessageReply, error)
	GetSessionFn     func(ctx context.Context, sessionID uuid.UUID) (*chat.Session, error)
}

func (m *ChatServiceMock) StartSession(ctx context.Context) (*chat.Session, string, error) {
	if m.StartSessionFn != nil {
		return m.StartSessionFn(ctx)
	}
	return chat.NewSession(), "welcome", nil
}
func (m *ChatServiceMock) ProcessMessage(ctx context.Context, sessionID uuid.UUID, message string) (*chat.MessageReply, error) {
	if m.ProcessMessageFn != nil {
		return m.ProcessMessageFn(ctx, sessionID, message)
	}
	return &chat.MessageReply{Reply: "ok", Stage: chat.StageAskLanguage}, nil
}
func (m *ChatServiceMock) GetSession(ctx context.Context, sessionID uuid.UUID) (*chat.Session, error) {
	if m.GetSessionFn != nil {
		return m.GetSessionFn(ctx, sessionID)
	}
	return nil, fmt.Errorf("session %s not found or expired", sessionID)
}

// ReportServiceMock mocks report assembly.
type ReportServiceMock struct {
	BuildReportFn func(ctx context.Context, sessionID uuid.UUID) (*report.Report, error)
}

func (m *ReportServiceMock) BuildReport(ctx context.Context, sessionID uuid.UUID) (*report.Report, error) {
	if m.BuildReportFn != nil {
		return m.BuildReportFn(ctx, sessionID)
	}
	return nil, fmt.Errorf("no report")
}

// ReportRendererMock mocks document rendering.
type ReportRendererMock struct {
	RenderFn func(r *report.Report) ([]byte, string, error)
}

func (m *ReportRendererMock) Render(r *report.Report) ([]byte, string, error) {
	if m.RenderFn != nil {
		return m.RenderFn(r)
	}
	return []byte("%PDF-"), "report.pdf", nil
}
