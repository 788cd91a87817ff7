package session

import (
	"encoding/json"
	"fmt"
	"maps"
	"time"
)

// Session is server-side state bound to a browser by a cookie token.
// A session lives for an idle timeout that restarts on every request.
type Session struct {
	CreatedAt    time.Time
	LastActiveAt time.Time
	ExpiresAt    time.Time

	UserID    *string // nil = anonymous
	Values    map[string]any
	ID        string
	Token     string // cookie value, rotated on sign-in
	IP        string
	UserAgent string

	dirty bool
	isNew bool
}

// New creates a session that expires after idle.
func New(id, token string, idle time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:           id,
		Token:        token,
		Values:       make(map[string]any),
		CreatedAt:    now,
		LastActiveAt: now,
		ExpiresAt:    now.Add(idle),
		isNew:        true,
		dirty:        true,
	}
}

// IsAuthenticated reports whether a user is attached to the session.
func (s *Session) IsAuthenticated() bool {
	return s.UserID != nil && *s.UserID != ""
}

// SetUser attaches a user. An empty id detaches it.
func (s *Session) SetUser(id string) {
	if id == "" {
		s.UserID = nil
	} else {
		s.UserID = &id
	}
	s.dirty = true
}

func (s *Session) SetValue(key string, val any) {
	if s.Values == nil {
		s.Values = make(map[string]any)
	}
	s.Values[key] = val
	s.dirty = true
}

func (s *Session) GetValue(key string) (any, bool) {
	val, ok := s.Values[key]
	return val, ok
}

// DeleteValue marks the session dirty only if the key existed.
func (s *Session) DeleteValue(key string) {
	if _, ok := s.Values[key]; ok {
		delete(s.Values, key)
		s.dirty = true
	}
}

// Touch restarts the idle timeout from now.
func (s *Session) Touch(now time.Time, idle time.Duration) {
	s.LastActiveAt = now
	s.ExpiresAt = now.Add(idle)
}

// ExpiredAt reports whether the session is expired at the given time.
func (s *Session) ExpiredAt(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

func (s *Session) IsExpired() bool { return s.ExpiredAt(time.Now()) }

func (s *Session) IsDirty() bool { return s.dirty }
func (s *Session) MarkDirty()    { s.dirty = true }
func (s *Session) ClearDirty()   { s.dirty = false }
func (s *Session) IsNew() bool   { return s.isNew }
func (s *Session) ClearNew()     { s.isNew = false }

// Clone returns a copy that shares no maps with s.
func (s *Session) Clone() *Session {
	c := *s
	c.Values = maps.Clone(s.Values)
	if s.UserID != nil {
		uid := *s.UserID
		c.UserID = &uid
	}
	return &c
}

// Value returns a typed session value.
// Values loaded from a serialized store come back as JSON types, so a failed
// type assertion falls back to a JSON conversion.
func Value[T any](s *Session, key string) (T, error) {
	var zero T
	if s == nil {
		return zero, ErrNotFound
	}

	val, ok := s.GetValue(key)
	if !ok {
		return zero, ErrNotFound
	}
	if typed, ok := val.(T); ok {
		return typed, nil
	}

	raw, err := json.Marshal(val)
	if err != nil {
		return zero, fmt.Errorf("%w: %s", ErrTypeMismatch, key)
	}
	var typed T
	if err := json.Unmarshal(raw, &typed); err != nil {
		return zero, fmt.Errorf("%w: %s", ErrTypeMismatch, key)
	}
	return typed, nil
}

// ValueOr returns def when the key is missing or has another type.
func ValueOr[T any](s *Session, key string, def T) T {
	val, err := Value[T](s, key)
	if err != nil {
		return def
	}
	return val
}
