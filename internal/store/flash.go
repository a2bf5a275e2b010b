package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Flash is a one-time notification bundle attached to the next response.
type Flash struct {
	Success []string `json:"success,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// FlashStore keeps read-once flash messages per session in the KV.
type FlashStore struct {
	kv  KV
	ttl time.Duration
}

// NewFlashStore builds a flash store. Messages that are never consumed
// expire after ttl.
func NewFlashStore(kv KV, ttl time.Duration) *FlashStore {
	return &FlashStore{kv: kv, ttl: ttl}
}

func flashKey(sessionID string) string { return "flash:" + sessionID }

// Put replaces the pending flash for a session.
func (s *FlashStore) Put(ctx context.Context, sessionID string, flash Flash) error {
	payload, err := json.Marshal(flash)
	if err != nil {
		return fmt.Errorf("failed to marshal flash: %w", err)
	}
	return s.kv.Set(ctx, flashKey(sessionID), string(payload), s.ttl)
}

// Take returns the pending flash and removes it, so each message is
// delivered at most once. No pending flash yields an empty value, not an error.
func (s *FlashStore) Take(ctx context.Context, sessionID string) (Flash, error) {
	raw, err := s.kv.Get(ctx, flashKey(sessionID))
	if err != nil {
		if err == ErrMiss {
			return Flash{}, nil
		}
		return Flash{}, err
	}
	if err := s.kv.Del(ctx, flashKey(sessionID)); err != nil {
		return Flash{}, err
	}
	var flash Flash
	if err := json.Unmarshal([]byte(raw), &flash); err != nil {
		return Flash{}, fmt.Errorf("failed to unmarshal flash: %w", err)
	}
	return flash, nil
}
