// Package session holds the authentication state of the operator.
package session

import (
	"crypto/subtle"
	"sync"
)

// Snapshot represents a read-only view of the current session state.
type Snapshot struct {
	Authenticated bool `json:"authenticated"`
	PasswordMode  bool `json:"passwordMode"`
}

// Session holds runtime state for the operator.
type Session struct {
	mu            sync.RWMutex
	password      string
	passwordMode  bool
	authenticated bool
}

// New returns a session gated by password. An empty password disables
// password mode and every request is treated as authenticated.
func New(password string) *Session {
	return &Session{
		password:     password,
		passwordMode: password != "",
	}
}

// Authenticate validates the password and marks the session as authenticated.
func (s *Session) Authenticate(pass string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.passwordMode {
		s.authenticated = true
		return true
	}
	if pass != "" && subtle.ConstantTimeCompare([]byte(pass), []byte(s.password)) == 1 {
		s.authenticated = true
		return true
	}
	s.authenticated = false
	return false
}

// Logout clears authentication state.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = false
}

// IsAuthenticated reports whether the session is authenticated.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated || !s.passwordMode
}

// Snapshot returns a copy of the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Authenticated: s.authenticated || !s.passwordMode,
		PasswordMode:  s.passwordMode,
	}
}
