// Package repo contains all database access logic for the blog API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/techinsights/blog-api/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostRepo defines the persistence operations for Posts.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type PostRepo interface {
	// Create inserts a new post and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	// Returns domain.ErrDuplicateSlug if the slug is already taken.
	Create(ctx context.Context, in domain.PostInput) (domain.Post, error)

	// CreateMany inserts all posts inside a single transaction.
	// Either every post is persisted or none is: the first failure rolls
	// the whole batch back and is returned to the caller.
	CreateMany(ctx context.Context, in []domain.PostInput) ([]domain.Post, error)

	// GetByID retrieves a single post by its UUID primary key.
	// Returns domain.ErrNotFound if no post with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Post, error)

	// GetBySlug retrieves a single post by its unique slug.
	// Returns domain.ErrNotFound if no post with that slug exists;
	// a malformed slug is simply not found, never an error.
	GetBySlug(ctx context.Context, slug string) (domain.Post, error)

	// List returns one page of posts matching the filter, newest first,
	// plus the total count of posts under the same filter.
	List(ctx context.Context, f domain.ListFilter, p domain.PaginationParams) ([]domain.Post, int64, error)

	// Update applies the supplied fields to an existing post and returns the
	// updated record. updated_at is always refreshed; created_at is never
	// touched. Returns domain.ErrNotFound if the post does not exist and
	// domain.ErrDuplicateSlug if a slug change collides with another post.
	Update(ctx context.Context, id uuid.UUID, u domain.PostUpdate) (domain.Post, error)

	// Delete removes a post by ID and returns the deleted record.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) (domain.Post, error)
}

// pgPostRepo is the Postgres implementation of PostRepo.
type pgPostRepo struct {
	db db
}

// NewPostRepo constructs a PostRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewPostRepo(db db) PostRepo {
	return &pgPostRepo{db: db}
}

const postColumns = "id, title, slug, content, tags, created_at, updated_at"

// Create inserts a new post row and returns the full persisted record.
func (r *pgPostRepo) Create(ctx context.Context, in domain.PostInput) (domain.Post, error) {
	result, err := createPost(ctx, r.db, in)
	if err != nil {
		return domain.Post{}, fmt.Errorf("repo.PostRepo.Create: %w", err)
	}
	return result, nil
}

// CreateMany inserts all posts in one transaction so a failure part-way
// through leaves nothing behind.
func (r *pgPostRepo) CreateMany(ctx context.Context, in []domain.PostInput) ([]domain.Post, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo.PostRepo.CreateMany: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	created := make([]domain.Post, 0, len(in))
	for _, input := range in {
		post, err := createPost(ctx, tx, input)
		if err != nil {
			return nil, fmt.Errorf("repo.PostRepo.CreateMany: %w", err)
		}
		created = append(created, post)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("repo.PostRepo.CreateMany: commit: %w", err)
	}
	return created, nil
}

// createPost runs the shared INSERT for Create and CreateMany.
// The unique index on slug is the sole authority for slug uniqueness; a
// unique violation is translated to domain.ErrDuplicateSlug here.
func createPost(ctx context.Context, db interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}, in domain.PostInput) (domain.Post, error) {
	const q = `
		INSERT INTO posts (title, slug, content, tags)
		VALUES (@title, @slug, @content, @tags)
		RETURNING ` + postColumns

	args := pgx.NamedArgs{
		"title":   in.Title,
		"slug":    in.Slug,
		"content": in.Content,
		"tags":    tagsOrEmpty(in.Tags),
	}

	row := db.QueryRow(ctx, q, args)
	result, err := scanPost(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Post{}, fmt.Errorf("slug %q: %w", in.Slug, domain.ErrDuplicateSlug)
		}
		return domain.Post{}, err
	}
	return result, nil
}

// GetByID retrieves a post by primary key.
func (r *pgPostRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Post, error) {
	const q = `
		SELECT ` + postColumns + `
		FROM posts
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanPost(row)
	if err != nil {
		return domain.Post{}, fmt.Errorf("repo.PostRepo.GetByID: %w", err)
	}
	return result, nil
}

// GetBySlug retrieves a post by its unique slug.
func (r *pgPostRepo) GetBySlug(ctx context.Context, slug string) (domain.Post, error) {
	const q = `
		SELECT ` + postColumns + `
		FROM posts
		WHERE slug = @slug`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"slug": slug})
	result, err := scanPost(row)
	if err != nil {
		return domain.Post{}, fmt.Errorf("repo.PostRepo.GetBySlug: %w", err)
	}
	return result, nil
}

// listWhere is shared between the page query and the count query so the
// total is always consistent with the returned page.
const listWhere = `
	WHERE (@tag = '' OR tags @> ARRAY[@tag::text])
	  AND (@search = ''
	       OR title ILIKE '%' || @search || '%'
	       OR content ILIKE '%' || @search || '%')`

// List returns one page of posts ordered by created_at descending, plus the
// total count under the same filter.
func (r *pgPostRepo) List(ctx context.Context, f domain.ListFilter, p domain.PaginationParams) ([]domain.Post, int64, error) {
	q := `
		SELECT ` + postColumns + `
		FROM posts` + listWhere + `
		ORDER BY created_at DESC
		LIMIT @limit OFFSET @offset`

	args := pgx.NamedArgs{
		"tag":    f.Tag,
		"search": f.Search,
		"limit":  p.Limit,
		"offset": p.Offset(),
	}

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.PostRepo.List: %w", err)
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.PostRepo.List: scan: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.PostRepo.List: rows: %w", err)
	}

	countQ := `SELECT count(*) FROM posts` + listWhere
	var total int64
	if err := r.db.QueryRow(ctx, countQ, pgx.NamedArgs{"tag": f.Tag, "search": f.Search}).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.PostRepo.List: count: %w", err)
	}

	return posts, total, nil
}

// Update applies only the supplied fields in a single statement, so a failed
// update leaves the prior record unchanged. COALESCE keeps unsupplied
// columns at their current value while updated_at is always refreshed.
func (r *pgPostRepo) Update(ctx context.Context, id uuid.UUID, u domain.PostUpdate) (domain.Post, error) {
	const q = `
		UPDATE posts
		SET title      = COALESCE(@title, title),
		    slug       = COALESCE(@slug, slug),
		    content    = COALESCE(@content, content),
		    tags       = COALESCE(@tags, tags),
		    updated_at = now()
		WHERE id = @id
		RETURNING ` + postColumns

	args := pgx.NamedArgs{
		"id":      id,
		"title":   u.Title,
		"slug":    u.Slug,
		"content": u.Content,
		"tags":    (*[]string)(nil),
	}
	if u.Tags != nil {
		args["tags"] = *u.Tags
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanPost(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Post{}, fmt.Errorf("repo.PostRepo.Update: %w", domain.ErrDuplicateSlug)
		}
		return domain.Post{}, fmt.Errorf("repo.PostRepo.Update: %w", err)
	}
	return result, nil
}

// Delete removes a post by primary key and returns the deleted record.
func (r *pgPostRepo) Delete(ctx context.Context, id uuid.UUID) (domain.Post, error) {
	const q = `
		DELETE FROM posts
		WHERE id = @id
		RETURNING ` + postColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanPost(row)
	if err != nil {
		return domain.Post{}, fmt.Errorf("repo.PostRepo.Delete: %w", err)
	}
	return result, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanPost to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanPost maps a single database row into a domain.Post.
func scanPost(s scanner) (domain.Post, error) {
	var (
		p  domain.Post
		id pgtype.UUID
	)

	err := s.Scan(&id, &p.Title, &p.Slug, &p.Content, &p.Tags, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Post{}, domain.ErrNotFound
		}
		return domain.Post{}, err
	}

	p.ID = uuid.UUID(id.Bytes)
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return p, nil
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505). The only unique constraint on posts is the
// slug index.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// tagsOrEmpty keeps NOT NULL happy when the caller supplied no tags.
func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
