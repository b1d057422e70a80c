package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/techinsights/blog-api/internal/domain"
)

// ListPosts handles GET /api/posts.
// Query params: page (default 1), limit (default 10, max 100), tag, search.
func (s *Server) ListPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := domain.NewPaginationParams(queryInt(q.Get("page")), queryInt(q.Get("limit")))

	posts, pagination, err := s.posts.List(r.Context(), q.Get("tag"), q.Get("search"), params)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	respondPage(w, http.StatusOK, posts, pagination)
}

// GetPost handles GET /api/posts/{id}.
func (s *Server) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	post, err := s.posts.GetByID(r.Context(), id)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	respond(w, http.StatusOK, post)
}

// GetPostBySlug handles GET /api/posts/slug/{slug}.
// A malformed slug simply finds nothing; only 200 and 404 are possible.
func (s *Server) GetPostBySlug(w http.ResponseWriter, r *http.Request) {
	post, err := s.posts.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	respond(w, http.StatusOK, post)
}

// CreatePosts handles POST /api/posts. The body may be a single post
// payload or an array of payloads; an array is persisted all-or-nothing.
func (s *Server) CreatePosts(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", "could not read request body")
		return
	}

	if isJSONArray(body) {
		var inputs []domain.PostInput
		if err := decodeStrict(body, &inputs); err != nil {
			respondError(w, http.StatusBadRequest, "validation_error", err.Error())
			return
		}

		created, err := s.posts.CreateMany(r.Context(), inputs)
		if err != nil {
			s.respondDomainError(w, r, err)
			return
		}
		respond(w, http.StatusCreated, created)
		return
	}

	var input domain.PostInput
	if err := decodeStrict(body, &input); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	created, err := s.posts.Create(r.Context(), input)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, created)
}

// UpdatePost handles PUT /api/posts/{id} with a partial payload.
// Unknown fields are rejected rather than silently merged.
func (s *Server) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", "could not read request body")
		return
	}
	var update domain.PostUpdate
	if err := decodeStrict(body, &update); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	updated, err := s.posts.Update(r.Context(), id, update)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	respond(w, http.StatusOK, updated)
}

// DeletePost handles DELETE /api/posts/{id}.
// Responds 200 with the deleted record summary.
func (s *Server) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	deleted, err := s.posts.Delete(r.Context(), id)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	respond(w, http.StatusOK, deleted)
}

// pathID parses the {id} path segment, mapping parse failures to
// domain.ErrInvalidID so respondDomainError turns them into a 400.
func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", domain.ErrInvalidID, chi.URLParam(r, "id"))
	}
	return id, nil
}

// queryInt parses an optional integer query parameter.
// Returns nil for absent or non-numeric values so defaults apply.
func queryInt(s string) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// isJSONArray reports whether the body's first token opens an array,
// mirroring the "single payload or batch" contract of the create endpoint.
func isJSONArray(body []byte) bool {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}

// decodeStrict unmarshals JSON while rejecting unknown fields, enforcing
// the explicit allow-list of mutable fields.
func decodeStrict(body []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	// A second token means trailing garbage after the JSON value.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("invalid request body: unexpected trailing data")
	}
	return nil
}
