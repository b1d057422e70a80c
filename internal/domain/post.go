// Package domain contains the core data types for the blog API.
// This package has zero external dependencies beyond uuid and is imported
// by every other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxTags is the maximum number of tags a post may carry.
const MaxTags = 10

// MaxTitleLen is the maximum title length in characters.
const MaxTitleLen = 200

// Post is the single content entity managed by this system.
// Slug is the public URL identifier and is globally unique; ID is the
// opaque storage identity. Tags preserve insertion order for display.
type Post struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PostInput carries the caller-supplied fields for creating a post.
// ID and timestamps are assigned by the store.
type PostInput struct {
	Title   string   `json:"title"`
	Slug    string   `json:"slug"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// PostUpdate is the explicit allow-list of mutable fields for a partial
// update. Nil means "leave unchanged". CreatedAt is deliberately absent —
// it is set once at creation and never modified.
type PostUpdate struct {
	Title   *string   `json:"title"`
	Slug    *string   `json:"slug"`
	Content *string   `json:"content"`
	Tags    *[]string `json:"tags"`
}

// IsZero reports whether the update contains no fields at all.
func (u PostUpdate) IsZero() bool {
	return u.Title == nil && u.Slug == nil && u.Content == nil && u.Tags == nil
}

// ListFilter restricts a post listing. Zero values mean "no restriction".
type ListFilter struct {
	// Tag, when set, matches posts whose tags contain this exact string.
	// Tags are normalized to lowercase at write time, so callers should
	// lowercase the filter value for consistent matching.
	Tag string
	// Search, when set, matches posts whose title or content contains the
	// substring, case-insensitively.
	Search string
}
