package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is the explicit per-connection state: who is logged in and which
// view they are on. It lives only in process memory; a restart logs everyone
// out and there is no remember-me mechanism.
type Session struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	View      string    `json:"view"`
	CreatedAt time.Time `json:"created_at"`
}

const defaultView = "home"

// SessionStore holds active sessions keyed by bearer token. Safe for
// concurrent use.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session)}
}

// Open creates a session for the given identity and returns it.
func (s *SessionStore) Open(email string, now time.Time) *Session {
	sess := &Session{
		Token:     uuid.New().String(),
		Email:     email,
		View:      defaultView,
		CreatedAt: now,
	}
	s.mu.Lock()
	s.sessions[sess.Token] = sess
	s.mu.Unlock()
	return sess
}

// Lookup resolves a bearer token. A copy is returned so callers cannot mutate
// shared state.
func (s *SessionStore) Lookup(token string) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[token]
	if !ok {
		return Session{}, false
	}
	return *sess, true
}

// SetView updates the navigation selector for an active session.
func (s *SessionStore) SetView(token, view string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return false
	}
	sess.View = view
	return true
}

// Close removes a session. Unknown tokens are a no-op.
func (s *SessionStore) Close(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}
