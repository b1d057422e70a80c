package handler

import (
	"encoding/json"
	"net/http"

	"github.com/techinsights/blog-api/internal/middleware"
)

// loginRequest is the POST /api/auth/login body.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login.
// On success the response data carries the session token and its expiry;
// any credential mismatch yields the same 401 body.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "email and password are required")
		return
	}

	identity, err := s.identities.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	session, err := s.sessions.Issue(r.Context(), identity)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	respond(w, http.StatusOK, session)
}

// Logout handles POST /api/auth/logout, revoking the presented session
// token. The route sits behind the session gate, so the token is known to
// be valid when we get here.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Revoke(r.Context(), middleware.BearerToken(r)); err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"message": "logged out"})
}
