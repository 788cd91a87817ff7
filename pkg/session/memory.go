package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory. Sessions are lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]*Session
	tokenID map[string]string
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[string]*Session),
		tokenID: make(map[string]string),
		now:     time.Now,
	}
}

func (m *MemoryStore) Create(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.put(s)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, token string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.byID[m.tokenID[token]]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	if s.ExpiredAt(m.now()) {
		m.mu.Lock()
		m.remove(s.ID)
		m.mu.Unlock()
		return nil, ErrExpired
	}
	return s.Clone(), nil
}

func (m *MemoryStore) Update(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[s.ID]; !ok {
		return ErrNotFound
	}
	m.remove(s.ID)
	m.put(s)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.remove(id)
	return nil
}

func (m *MemoryStore) DeleteByUserID(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, s := range m.byID {
		if s.UserID != nil && *s.UserID == userID {
			m.remove(id)
		}
	}
	return nil
}

func (m *MemoryStore) Touch(_ context.Context, id string, lastActiveAt, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	s.LastActiveAt = lastActiveAt
	s.ExpiresAt = expiresAt
	return nil
}

// Sweep removes expired sessions and returns how many were dropped.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	n := 0
	for id, s := range m.byID {
		if s.ExpiredAt(now) {
			m.remove(id)
			n++
		}
	}
	return n
}

// Len returns the number of stored sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID)
}

// put must be called with mu held.
func (m *MemoryStore) put(s *Session) {
	c := s.Clone()
	m.byID[c.ID] = c
	m.tokenID[c.Token] = c.ID
}

// remove must be called with mu held.
func (m *MemoryStore) remove(id string) {
	if s, ok := m.byID[id]; ok {
		delete(m.tokenID, s.Token)
		delete(m.byID, id)
	}
}

var _ Store = (*MemoryStore)(nil)
