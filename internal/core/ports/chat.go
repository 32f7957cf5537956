package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/pharmagen/pharmagen/internal/core/domain/chat"
)

// TurnOrchestrator composes the cache manager, the rate limiter and the
// generator around one generation request: cache lookup, then admission on
// miss, then the upstream call, then a best-effort cache write. A cache hit
// bypasses the rate limiter entirely.
type TurnOrchestrator interface {
	HandleTurn(ctx context.Context, req chat.TurnRequest) (*chat.TurnResult, error)
}

// Translator converts text between languages through the cache-backed
// generation path. Auxiliary translations ride on the admission already
// granted for the inbound message and consume no budget of their own.
type Translator interface {
	Translate(ctx context.Context, text, srcLang, tgtLang string) (string, error)
}

// ChatService runs the guided consultation flow on top of the orchestrator.
type ChatService interface {
	// StartSession creates a new session and returns it with the greeting.
	StartSession(ctx context.Context) (*chat.Session, string, error)
	// ProcessMessage advances the session state machine with one user message.
	ProcessMessage(ctx context.Context, sessionID uuid.UUID, message string) (*chat.MessageReply, error)
	// GetSession loads an existing session.
	GetSession(ctx context.Context, sessionID uuid.UUID) (*chat.Session, error)
}

// SessionRepository persists chat sessions with a TTL.
type SessionRepository interface {
	Save(ctx context.Context, s *chat.Session) error
	Get(ctx context.Context, id uuid.UUID) (*chat.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TokenService issues and verifies signed session tokens. The embedded session
// ID doubles as the rate-limit identity.
type TokenService interface {
	Issue(sessionID uuid.UUID) (string, error)
	Verify(token string) (uuid.UUID, error)
}
