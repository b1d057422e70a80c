package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/techinsights/blog-api/internal/domain"
)

// envelope is the stable response shape for every endpoint.
// Success: {"success":true,"data":...} plus pagination on list responses.
// Failure: {"success":false,"error":<code>,"message":<detail>}.
type envelope struct {
	Success    bool               `json:"success"`
	Data       any                `json:"data,omitempty"`
	Pagination *domain.Pagination `json:"pagination,omitempty"`
	Error      string             `json:"error,omitempty"`
	Message    string             `json:"message,omitempty"`
}

// respond writes a success envelope.
func respond(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

// respondPage writes a success envelope with pagination metadata.
func respondPage(w http.ResponseWriter, status int, data any, p domain.Pagination) {
	writeJSON(w, status, envelope{Success: true, Data: data, Pagination: &p})
}

// respondError writes a failure envelope.
func respondError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, envelope{Success: false, Error: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("write response", "error", err)
	}
}

// respondDomainError maps a domain sentinel error to its error code and
// HTTP status. Unclassified errors are logged with full
// detail and surfaced generically so internals never leak to clients.
func (s *Server) respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		respondError(w, http.StatusBadRequest, "validation_error", unwrapMessage(err))
	case errors.Is(err, domain.ErrInvalidID):
		respondError(w, http.StatusBadRequest, "invalid_id", "the provided id is not a valid UUID")
	case errors.Is(err, domain.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, "unauthorized", "a valid admin session is required")
	case errors.Is(err, domain.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", "no post found")
	case errors.Is(err, domain.ErrDuplicateSlug):
		respondError(w, http.StatusConflict, "duplicate_slug", "a post with this slug already exists")
	default:
		slog.ErrorContext(r.Context(), "unhandled error",
			"method", r.Method, "path", r.URL.Path, "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "an internal error occurred")
	}
}

// layerPrefix matches the "package.Type.Method: " prefixes each layer adds
// when wrapping errors, e.g. "service.PostService.Create: ".
var layerPrefix = regexp.MustCompile(`^[a-z]+\.[A-Za-z]+\.[A-Za-z]+: `)

// unwrapMessage extracts the human-readable part from a wrapped sentinel
// error, e.g. "service.PostService.Create: validation error: title is
// required" → "title is required".
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for {
		stripped := layerPrefix.ReplaceAllString(msg, "")
		if stripped == msg {
			break
		}
		msg = stripped
	}
	// Drop the sentinel text itself; batch errors keep their "post N:" prefix.
	return strings.Replace(msg, "validation error: ", "", 1)
}
