package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"sync"

	domainauth "github.com/dtapi/booking-api/internal/domain/auth"
	"github.com/dtapi/booking-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.SessionStore  = (*MemorySessionStore)(nil)
	_ ports.TokenVerifier = (*StaticVerifier)(nil)
)

// ErrInvalidToken is returned by StaticVerifier for unknown tokens.
var ErrInvalidToken = errors.New("invalid token")

// MemorySessionStore is an in-memory session store for unit tests.
// It ignores expiry; callers decide what an expired session means.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore(seed ...domainauth.Session) *MemorySessionStore {
	m := &MemorySessionStore{sessions: make(map[string]domainauth.Session)}
	for _, s := range seed {
		m.sessions[s.ID] = s
	}
	return m
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok || id == "" {
		return domainauth.Session{}, ports.ErrSessionNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len returns the number of stored sessions.
func (m *MemorySessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// StaticVerifier maps known raw tokens to identities.
type StaticVerifier struct {
	Tokens map[string]domainauth.Identity
	Calls  int
}

func (v *StaticVerifier) Verify(_ context.Context, rawToken string) (domainauth.Identity, error) {
	v.Calls++
	id, ok := v.Tokens[rawToken]
	if !ok {
		return domainauth.Identity{}, ErrInvalidToken
	}
	return id, nil
}
