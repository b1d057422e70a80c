// Package handler implements the HTTP handlers for the blog API.
// All handlers are methods on Server; methods are split into
// resource-specific files (post.go, auth.go, etc.) but share the same
// Server struct so they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/techinsights/blog-api/internal/auth"
	"github.com/techinsights/blog-api/internal/domain"
)

// PostServicer defines the business operations the post handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type PostServicer interface {
	List(ctx context.Context, tag, search string, p domain.PaginationParams) ([]domain.Post, domain.Pagination, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Post, error)
	GetBySlug(ctx context.Context, slug string) (domain.Post, error)
	Create(ctx context.Context, in domain.PostInput) (domain.Post, error)
	CreateMany(ctx context.Context, in []domain.PostInput) ([]domain.Post, error)
	Update(ctx context.Context, id uuid.UUID, u domain.PostUpdate) (domain.Post, error)
	Delete(ctx context.Context, id uuid.UUID) (domain.Post, error)
}

// Authenticator verifies login credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (auth.Identity, error)
}

// SessionManager issues and revokes admin sessions.
type SessionManager interface {
	Issue(ctx context.Context, id auth.Identity) (auth.Session, error)
	Revoke(ctx context.Context, token string) error
}

// Pinger reports whether the database is reachable. Satisfied by
// *pgxpool.Pool; the health endpoint depends on nothing else.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the dependencies shared by all HTTP handlers.
type Server struct {
	posts      PostServicer
	identities Authenticator
	sessions   SessionManager
	db         Pinger
	baseURL    string
}

// NewServer constructs the Server with all its dependencies.
// baseURL is the externally visible site URL used in feed output.
func NewServer(posts PostServicer, identities Authenticator, sessions SessionManager, db Pinger, baseURL string) *Server {
	return &Server{
		posts:      posts,
		identities: identities,
		sessions:   sessions,
		db:         db,
		baseURL:    baseURL,
	}
}

// RegisterRoutes mounts every endpoint on r. requireSession wraps the
// admin-only mutation routes; everything else is public.
func (s *Server) RegisterRoutes(r chi.Router, requireSession func(http.Handler) http.Handler) {
	r.Route("/api/posts", func(r chi.Router) {
		r.Get("/", s.ListPosts)
		r.Get("/{id}", s.GetPost)
		r.Get("/slug/{slug}", s.GetPostBySlug)

		r.Group(func(r chi.Router) {
			r.Use(requireSession)
			r.Post("/", s.CreatePosts)
			r.Put("/{id}", s.UpdatePost)
			r.Delete("/{id}", s.DeletePost)
		})
	})

	r.Post("/api/auth/login", s.Login)
	r.With(requireSession).Post("/api/auth/logout", s.Logout)

	r.Get("/healthz", s.Health)
	r.Get("/rss.xml", s.RSS)
	r.Get("/sitemap.xml", s.Sitemap)
	r.Get("/robots.txt", s.Robots)
}
