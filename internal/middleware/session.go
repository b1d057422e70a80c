package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/techinsights/blog-api/internal/auth"
)

// SessionVerifier is the slice of auth.Sessions the session gate depends on.
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (auth.Identity, error)
}

type contextKey string

// identityKey stores the authenticated admin identity in the request context.
const identityKey contextKey = "identity"

// NewRequireSession returns a middleware that rejects requests without a
// valid admin session token with a 401 envelope. The token is expected in
// an "Authorization: Bearer <token>" header. On success the verified
// identity is attached to the request context for downstream handlers.
func NewRequireSession(sessions SessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := sessions.Verify(r.Context(), BearerToken(r))
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"success":false,"error":"unauthorized","message":"a valid admin session is required"}`))
				return
			}
			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token from an Authorization: Bearer header.
// Returns "" when the header is absent or not a bearer scheme.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return header[len(prefix):]
	}
	return ""
}

// IdentityFromContext returns the admin identity attached by
// NewRequireSession, if any.
func IdentityFromContext(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(auth.Identity)
	return id, ok
}
