package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Session is the authenticated-user payload kept server-side.
type Session struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
}

// SessionStore keeps sessions in the KV under "session:<id>" with a TTL.
type SessionStore struct {
	kv  KV
	ttl time.Duration
}

func NewSessionStore(kv KV, ttl time.Duration) *SessionStore {
	return &SessionStore{kv: kv, ttl: ttl}
}

func sessionKey(id string) string { return "session:" + id }

// Create stores a new session and returns its generated id.
func (s *SessionStore) Create(ctx context.Context, sess Session) (string, error) {
	id := uuid.NewString()
	payload, err := json.Marshal(sess)
	if err != nil {
		return "", fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.kv.Set(ctx, sessionKey(id), string(payload), s.ttl); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return id, nil
}

// Get loads a session by id. A missing or expired id yields ErrMiss.
func (s *SessionStore) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrMiss
	}
	raw, err := s.kv.Get(ctx, sessionKey(id))
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &sess, nil
}

// Destroy removes a session (logout). Removing an absent session is a no-op.
func (s *SessionStore) Destroy(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.kv.Del(ctx, sessionKey(id))
}
