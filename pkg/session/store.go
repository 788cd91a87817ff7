package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Store persists sessions.
type Store interface {
	// Create persists a new session.
	Create(ctx context.Context, s *Session) error

	// Get looks a session up by cookie token.
	// Returns ErrNotFound if it does not exist and ErrExpired if it timed out.
	Get(ctx context.Context, token string) (*Session, error)

	// Update saves a session, including a rotated token.
	Update(ctx context.Context, s *Session) error

	// Delete removes a session by ID. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error

	// DeleteByUserID removes every session of a user.
	DeleteByUserID(ctx context.Context, userID string) error

	// Touch moves the activity timestamp and the expiry of a session.
	Touch(ctx context.Context, id string, lastActiveAt, expiresAt time.Time) error
}

// record is the serialized form used by the redis store.
type record struct {
	ID           string         `json:"id"`
	Token        string         `json:"token"`
	UserID       *string        `json:"user_id,omitempty"`
	Values       map[string]any `json:"values,omitempty"`
	IP           string         `json:"ip,omitempty"`
	UserAgent    string         `json:"user_agent,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	LastActiveAt time.Time      `json:"last_active_at"`
	ExpiresAt    time.Time      `json:"expires_at"`
}

func encode(s *Session) ([]byte, error) {
	data, err := json.Marshal(record{
		ID:           s.ID,
		Token:        s.Token,
		UserID:       s.UserID,
		Values:       s.Values,
		IP:           s.IP,
		UserAgent:    s.UserAgent,
		CreatedAt:    s.CreatedAt,
		LastActiveAt: s.LastActiveAt,
		ExpiresAt:    s.ExpiresAt,
	})
	if err != nil {
		return nil, fmt.Errorf("session: encode %s: %w", s.ID, err)
	}
	return data, nil
}

func decode(data []byte) (*Session, error) {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("session: decode: %w", err)
	}
	if r.Values == nil {
		r.Values = make(map[string]any)
	}
	return &Session{
		ID:           r.ID,
		Token:        r.Token,
		UserID:       r.UserID,
		Values:       r.Values,
		IP:           r.IP,
		UserAgent:    r.UserAgent,
		CreatedAt:    r.CreatedAt,
		LastActiveAt: r.LastActiveAt,
		ExpiresAt:    r.ExpiresAt,
	}, nil
}
