// Package service implements the business rules of the blog API on top of
// the repo layer. Services never cache state between calls — every
// operation is a fresh read or write against the store.
package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/techinsights/blog-api/internal/domain"
	"github.com/techinsights/blog-api/internal/repo"
)

// slugPattern accepts lowercase letters, digits, and single hyphens between
// groups: "hello-world-2", never "-hello" or "a--b".
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// PostService implements both the query and mutation operations for posts.
// The store's unique index on slug is the sole uniqueness authority: the
// service performs no pre-check and simply surfaces the repo's
// ErrDuplicateSlug, so concurrent creates cannot race past it.
type PostService struct {
	posts repo.PostRepo
}

// NewPostService constructs a PostService backed by the provided PostRepo.
func NewPostService(posts repo.PostRepo) *PostService {
	return &PostService{posts: posts}
}

// List returns one page of posts, newest first, with the pagination
// envelope. tag restricts to posts carrying that tag (lowercased to match
// write-time normalization); search restricts to posts whose title or
// content contains the substring case-insensitively.
func (s *PostService) List(ctx context.Context, tag, search string, p domain.PaginationParams) ([]domain.Post, domain.Pagination, error) {
	filter := domain.ListFilter{
		Tag:    strings.ToLower(strings.TrimSpace(tag)),
		Search: strings.TrimSpace(search),
	}

	posts, total, err := s.posts.List(ctx, filter, p)
	if err != nil {
		return nil, domain.Pagination{}, fmt.Errorf("service.PostService.List: %w", err)
	}
	if posts == nil {
		posts = []domain.Post{}
	}
	return posts, domain.NewPagination(p, total), nil
}

// GetBySlug returns the post with the given slug.
// Returns domain.ErrNotFound if no post has that slug; a malformed slug is
// simply not found. This is the lookup path used by public article pages.
func (s *PostService) GetBySlug(ctx context.Context, slug string) (domain.Post, error) {
	post, err := s.posts.GetBySlug(ctx, slug)
	if err != nil {
		return domain.Post{}, fmt.Errorf("service.PostService.GetBySlug: %w", err)
	}
	return post, nil
}

// GetByID returns the post with the given ID. Used by the admin edit path.
// Returns domain.ErrNotFound if no post with that ID exists.
func (s *PostService) GetByID(ctx context.Context, id uuid.UUID) (domain.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return domain.Post{}, fmt.Errorf("service.PostService.GetByID: %w", err)
	}
	return post, nil
}

// Create validates and persists a single post.
// Returns domain.ErrValidation for rule violations and
// domain.ErrDuplicateSlug if the slug is already taken.
func (s *PostService) Create(ctx context.Context, in domain.PostInput) (domain.Post, error) {
	normalized, err := normalizeInput(in)
	if err != nil {
		return domain.Post{}, err
	}
	created, err := s.posts.Create(ctx, normalized)
	if err != nil {
		return domain.Post{}, fmt.Errorf("service.PostService.Create: %w", err)
	}
	return created, nil
}

// CreateMany validates every payload up front, then persists all of them in
// a single transaction. Nothing is stored if any payload is invalid or any
// slug collides — including collisions between payloads in the same batch,
// which the unique index catches inside the transaction.
func (s *PostService) CreateMany(ctx context.Context, in []domain.PostInput) ([]domain.Post, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: at least one post is required", domain.ErrValidation)
	}

	normalized := make([]domain.PostInput, len(in))
	for i, input := range in {
		n, err := normalizeInput(input)
		if err != nil {
			return nil, fmt.Errorf("post %d: %w", i+1, err)
		}
		normalized[i] = n
	}

	created, err := s.posts.CreateMany(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("service.PostService.CreateMany: %w", err)
	}
	return created, nil
}

// Update applies a partial update to an existing post. Only the supplied
// fields change; updated_at is refreshed and created_at is never touched.
// Returns domain.ErrNotFound, domain.ErrValidation, or
// domain.ErrDuplicateSlug as appropriate.
func (s *PostService) Update(ctx context.Context, id uuid.UUID, u domain.PostUpdate) (domain.Post, error) {
	if u.IsZero() {
		return domain.Post{}, fmt.Errorf("%w: no updatable fields supplied", domain.ErrValidation)
	}

	normalized, err := normalizeUpdate(u)
	if err != nil {
		return domain.Post{}, err
	}

	updated, err := s.posts.Update(ctx, id, normalized)
	if err != nil {
		return domain.Post{}, fmt.Errorf("service.PostService.Update: %w", err)
	}
	return updated, nil
}

// Delete permanently removes a post and returns the deleted record.
// Returns domain.ErrNotFound if it does not exist. Posts are the only
// entity, so there are no cascading references to worry about.
func (s *PostService) Delete(ctx context.Context, id uuid.UUID) (domain.Post, error) {
	deleted, err := s.posts.Delete(ctx, id)
	if err != nil {
		return domain.Post{}, fmt.Errorf("service.PostService.Delete: %w", err)
	}
	return deleted, nil
}

// normalizeInput trims and lowercases the slug, canonicalizes tags, and
// validates the result. Validation errors wrap domain.ErrValidation.
func normalizeInput(in domain.PostInput) (domain.PostInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.ToLower(strings.TrimSpace(in.Slug))
	in.Tags = normalizeTags(in.Tags)

	err := validation.ValidateStruct(&in,
		validation.Field(&in.Title,
			validation.Required.Error("title is required"),
			validation.RuneLength(1, domain.MaxTitleLen).Error(fmt.Sprintf("title cannot exceed %d characters", domain.MaxTitleLen)),
		),
		validation.Field(&in.Slug,
			validation.Required.Error("slug is required"),
			validation.Match(slugPattern).Error("slug must contain only lowercase letters, numbers, and hyphens"),
		),
		validation.Field(&in.Content,
			validation.Required.Error("content is required"),
		),
		validation.Field(&in.Tags,
			validation.Length(0, domain.MaxTags).Error(fmt.Sprintf("cannot have more than %d tags", domain.MaxTags)),
		),
	)
	if err != nil {
		return domain.PostInput{}, fmt.Errorf("%w: %s", domain.ErrValidation, validationMessage(err))
	}
	return in, nil
}

// normalizeUpdate validates only the fields present in the partial update.
func normalizeUpdate(u domain.PostUpdate) (domain.PostUpdate, error) {
	if u.Title != nil {
		title := strings.TrimSpace(*u.Title)
		if title == "" {
			return domain.PostUpdate{}, fmt.Errorf("%w: title is required", domain.ErrValidation)
		}
		if len([]rune(title)) > domain.MaxTitleLen {
			return domain.PostUpdate{}, fmt.Errorf("%w: title cannot exceed %d characters", domain.ErrValidation, domain.MaxTitleLen)
		}
		u.Title = &title
	}
	if u.Slug != nil {
		slug := strings.ToLower(strings.TrimSpace(*u.Slug))
		if !slugPattern.MatchString(slug) {
			return domain.PostUpdate{}, fmt.Errorf("%w: slug must contain only lowercase letters, numbers, and hyphens", domain.ErrValidation)
		}
		u.Slug = &slug
	}
	if u.Content != nil {
		if strings.TrimSpace(*u.Content) == "" {
			return domain.PostUpdate{}, fmt.Errorf("%w: content is required", domain.ErrValidation)
		}
	}
	if u.Tags != nil {
		tags := normalizeTags(*u.Tags)
		if len(tags) > domain.MaxTags {
			return domain.PostUpdate{}, fmt.Errorf("%w: cannot have more than %d tags", domain.ErrValidation, domain.MaxTags)
		}
		u.Tags = &tags
	}
	return u, nil
}

// normalizeTags trims, lowercases, and dedupes tags while preserving the
// order of first occurrence. Lowercasing at write time is what makes the
// case-sensitive tag filter in the store behave case-insensitively.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		t := strings.ToLower(strings.TrimSpace(tag))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// validationMessage flattens an ozzo validation error into a single
// human-readable message. ozzo's Errors.Error() joins per-field messages
// sorted by field name, so the output is deterministic.
func validationMessage(err error) string {
	if ve, ok := err.(validation.Errors); ok {
		return strings.TrimSuffix(ve.Error(), ".")
	}
	return err.Error()
}
