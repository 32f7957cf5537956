package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pharmagen/pharmagen/internal/core/domain/chat"
	"github.com/pharmagen/pharmagen/internal/core/ports"
)

const sessionKeyPrefix = "session:"

// SessionKVRepository persists chat sessions as JSON in the key-value store
// under the session: namespace. Entries expire with the session TTL; an
// expired or missing session surfaces as a not-found error.
type SessionKVRepository struct {
	store  ports.KeyValueStore
	ttl    time.Duration
	logger *logrus.Logger
}

func NewSessionKVRepository(store ports.KeyValueStore, ttl time.Duration, logger *logrus.Logger) *SessionKVRepository {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &SessionKVRepository{store: store, ttl: ttl, logger: logger}
}

func sessionKey(id uuid.UUID) string { return sessionKeyPrefix + id.String() }

// Save implements ports.SessionRepository.Save.
func (r *SessionKVRepository) Save(ctx context.Context, s *chat.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := r.store.Set(ctx, sessionKey(s.ID), string(data), r.ttl); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Get implements ports.SessionRepository.Get.
func (r *SessionKVRepository) Get(ctx context.Context, id uuid.UUID) (*chat.Session, error) {
	data, ok, err := r.store.Get(ctx, sessionKey(id))
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("session %s not found or expired", id)
	}
	var s chat.Session
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &s, nil
}

// Delete implements ports.SessionRepository.Delete.
func (r *SessionKVRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.Delete(ctx, sessionKey(id))
}
