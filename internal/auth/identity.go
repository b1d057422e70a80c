// Package auth implements the admin authorization boundary: credential
// verification against the configured admin identity and session tokens
// gating the mutation endpoints.
package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/techinsights/blog-api/internal/domain"
)

// Identity is the authenticated principal attached to a session.
type Identity struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// IdentityProvider verifies login credentials. There is a single static
// admin account today, but the interface keeps the authorization boundary
// unchanged if a multi-admin model is added later.
type IdentityProvider interface {
	// Authenticate returns the identity for the given credentials.
	// It must return domain.ErrInvalidCredentials for any mismatch, with
	// no distinction between an unknown email and a wrong password.
	Authenticate(ctx context.Context, email, password string) (Identity, error)
}

// StaticProvider is an IdentityProvider backed by one configured admin
// credential pair. The password may be a bcrypt hash (recommended) or a
// plaintext value for local development.
type StaticProvider struct {
	email    string
	password string
}

// NewStaticProvider constructs a StaticProvider for the configured admin.
func NewStaticProvider(email, password string) *StaticProvider {
	return &StaticProvider{email: email, password: password}
}

// Authenticate checks the credentials against the configured admin account.
// Both comparisons always run, and the email comparison is constant-time,
// so response timing does not reveal which part was wrong.
func (p *StaticProvider) Authenticate(_ context.Context, email, password string) (Identity, error) {
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(p.email)) == 1
	passwordOK := p.passwordMatches(password)

	if !emailOK || !passwordOK {
		return Identity{}, fmt.Errorf("auth.StaticProvider.Authenticate: %w", domain.ErrInvalidCredentials)
	}
	return Identity{Email: p.email, Name: "Admin", Role: "admin"}, nil
}

func (p *StaticProvider) passwordMatches(password string) bool {
	if strings.HasPrefix(p.password, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(p.password), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(p.password)) == 1
}
