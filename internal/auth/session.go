package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/techinsights/blog-api/internal/domain"
)

// SessionStore persists issued session tokens until they expire.
// Implementations: RedisStore (production) and MemoryStore (dev/tests).
type SessionStore interface {
	// Save stores the identity under token for at most ttl.
	Save(ctx context.Context, token string, id Identity, ttl time.Duration) error
	// Get returns the identity for token. ok is false when the token is
	// unknown or expired; err is reserved for store I/O failures.
	Get(ctx context.Context, token string) (id Identity, ok bool, err error)
	// Delete revokes a token. Deleting an unknown token is not an error.
	Delete(ctx context.Context, token string) error
}

// Session is an issued admin session.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Sessions issues and verifies admin session tokens. Tokens are opaque
// 256-bit random values; validity lives entirely in the store, which makes
// revocation (logout) a plain delete.
type Sessions struct {
	store SessionStore
	ttl   time.Duration
}

// NewSessions constructs a Sessions manager over the given store.
func NewSessions(store SessionStore, ttl time.Duration) *Sessions {
	return &Sessions{store: store, ttl: ttl}
}

// Issue creates and stores a fresh session for the identity.
func (s *Sessions) Issue(ctx context.Context, id Identity) (Session, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return Session{}, fmt.Errorf("auth.Sessions.Issue: %w", err)
	}
	token := hex.EncodeToString(buf)

	if err := s.store.Save(ctx, token, id, s.ttl); err != nil {
		return Session{}, fmt.Errorf("auth.Sessions.Issue: %w", err)
	}
	return Session{Token: token, ExpiresAt: time.Now().Add(s.ttl)}, nil
}

// Verify returns the identity behind a token.
// Returns domain.ErrUnauthorized for an empty, unknown, or expired token.
func (s *Sessions) Verify(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, fmt.Errorf("auth.Sessions.Verify: missing token: %w", domain.ErrUnauthorized)
	}
	id, ok, err := s.store.Get(ctx, token)
	if err != nil {
		return Identity{}, fmt.Errorf("auth.Sessions.Verify: %w", err)
	}
	if !ok {
		return Identity{}, fmt.Errorf("auth.Sessions.Verify: %w", domain.ErrUnauthorized)
	}
	return id, nil
}

// Revoke invalidates a token immediately. Revoking an already-invalid
// token succeeds silently, so logout is idempotent.
func (s *Sessions) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.store.Delete(ctx, token); err != nil {
		return fmt.Errorf("auth.Sessions.Revoke: %w", err)
	}
	return nil
}

// MemoryStore is an in-process SessionStore used when no Redis address is
// configured, and throughout unit tests. Expired entries are dropped
// lazily on read.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memorySession
}

type memorySession struct {
	identity  Identity
	expiresAt time.Time
}

// NewMemoryStore constructs an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]memorySession)}
}

func (m *MemoryStore) Save(_ context.Context, token string, id Identity, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[token] = memorySession{identity: id, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (m *MemoryStore) Get(_ context.Context, token string) (Identity, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[token]
	if !ok {
		return Identity{}, false, nil
	}
	if time.Now().After(sess.expiresAt) {
		delete(m.sessions, token)
		return Identity{}, false, nil
	}
	return sess.identity, true, nil
}

func (m *MemoryStore) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}
