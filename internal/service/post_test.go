package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techinsights/blog-api/internal/domain"
	"github.com/techinsights/blog-api/internal/repo"
	"github.com/techinsights/blog-api/internal/service"
)

// ---- mock PostRepo ---------------------------------------------------------

type mockPostRepo struct {
	create     func(ctx context.Context, in domain.PostInput) (domain.Post, error)
	createMany func(ctx context.Context, in []domain.PostInput) ([]domain.Post, error)
	getByID    func(ctx context.Context, id uuid.UUID) (domain.Post, error)
	getBySlug  func(ctx context.Context, slug string) (domain.Post, error)
	list       func(ctx context.Context, f domain.ListFilter, p domain.PaginationParams) ([]domain.Post, int64, error)
	update     func(ctx context.Context, id uuid.UUID, u domain.PostUpdate) (domain.Post, error)
	delete     func(ctx context.Context, id uuid.UUID) (domain.Post, error)
}

func (m *mockPostRepo) Create(ctx context.Context, in domain.PostInput) (domain.Post, error) {
	return m.create(ctx, in)
}
func (m *mockPostRepo) CreateMany(ctx context.Context, in []domain.PostInput) ([]domain.Post, error) {
	return m.createMany(ctx, in)
}
func (m *mockPostRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Post, error) {
	return m.getByID(ctx, id)
}
func (m *mockPostRepo) GetBySlug(ctx context.Context, slug string) (domain.Post, error) {
	return m.getBySlug(ctx, slug)
}
func (m *mockPostRepo) List(ctx context.Context, f domain.ListFilter, p domain.PaginationParams) ([]domain.Post, int64, error) {
	return m.list(ctx, f, p)
}
func (m *mockPostRepo) Update(ctx context.Context, id uuid.UUID, u domain.PostUpdate) (domain.Post, error) {
	return m.update(ctx, id, u)
}
func (m *mockPostRepo) Delete(ctx context.Context, id uuid.UUID) (domain.Post, error) {
	return m.delete(ctx, id)
}

// compile-time check
var _ repo.PostRepo = (*mockPostRepo)(nil)

func validInput() domain.PostInput {
	return domain.PostInput{
		Title:   "Hello",
		Slug:    "hello",
		Content: "<p>hi</p>",
		Tags:    []string{"a", "b"},
	}
}

func echoRepo(captured *domain.PostInput) *mockPostRepo {
	return &mockPostRepo{
		create: func(_ context.Context, in domain.PostInput) (domain.Post, error) {
			if captured != nil {
				*captured = in
			}
			now := time.Now()
			return domain.Post{
				ID: uuid.New(), Title: in.Title, Slug: in.Slug,
				Content: in.Content, Tags: in.Tags,
				CreatedAt: now, UpdatedAt: now,
			}, nil
		},
	}
}

// ---- Create ----------------------------------------------------------------

func TestPostService_Create_OK(t *testing.T) {
	svc := service.NewPostService(echoRepo(nil))

	got, err := svc.Create(context.Background(), validInput())

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, "hello", got.Slug)
	assert.Equal(t, []string{"a", "b"}, got.Tags, "tag order preserved")
}

func TestPostService_Create_MissingFields(t *testing.T) {
	svc := service.NewPostService(&mockPostRepo{})

	for name, in := range map[string]domain.PostInput{
		"no title":   {Slug: "s1", Content: "c"},
		"no slug":    {Title: "t", Content: "c"},
		"no content": {Title: "t", Slug: "s1"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestPostService_Create_TitleTooLong(t *testing.T) {
	svc := service.NewPostService(&mockPostRepo{})

	in := validInput()
	in.Title = strings.Repeat("x", 201)

	_, err := svc.Create(context.Background(), in)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPostService_Create_BadSlug(t *testing.T) {
	svc := service.NewPostService(&mockPostRepo{})

	for _, slug := range []string{"Hello World", "-leading", "trailing-", "a--b", "sp@ce"} {
		in := validInput()
		in.Slug = slug
		_, err := svc.Create(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrValidation, "slug %q should be rejected", slug)
	}
}

func TestPostService_Create_SlugLowercased(t *testing.T) {
	var captured domain.PostInput
	svc := service.NewPostService(echoRepo(&captured))

	in := validInput()
	in.Slug = "  HELLO-world "

	_, err := svc.Create(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, "hello-world", captured.Slug)
}

func TestPostService_Create_TooManyTags(t *testing.T) {
	svc := service.NewPostService(&mockPostRepo{})

	in := validInput()
	in.Tags = []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"}

	_, err := svc.Create(context.Background(), in)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPostService_Create_NormalizesTags(t *testing.T) {
	var captured domain.PostInput
	svc := service.NewPostService(echoRepo(&captured))

	in := validInput()
	in.Tags = []string{" Go ", "go", "GO", "Databases", ""}

	_, err := svc.Create(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, []string{"go", "databases"}, captured.Tags,
		"tags lowercased, deduped case-insensitively, first-occurrence order kept")
}

func TestPostService_Create_DedupBringsTagsUnderCap(t *testing.T) {
	var captured domain.PostInput
	svc := service.NewPostService(echoRepo(&captured))

	// 12 raw entries but only 2 distinct after normalization.
	in := validInput()
	in.Tags = []string{"a", "A", "a", "A", "a", "A", "a", "A", "a", "A", "b", "B"}

	_, err := svc.Create(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, captured.Tags)
}

func TestPostService_Create_NilTags(t *testing.T) {
	var captured domain.PostInput
	svc := service.NewPostService(echoRepo(&captured))

	in := validInput()
	in.Tags = nil

	_, err := svc.Create(context.Background(), in)

	require.NoError(t, err)
	assert.NotNil(t, captured.Tags)
	assert.Empty(t, captured.Tags)
}

func TestPostService_Create_DuplicateSlugFromStore(t *testing.T) {
	svc := service.NewPostService(&mockPostRepo{
		create: func(context.Context, domain.PostInput) (domain.Post, error) {
			return domain.Post{}, domain.ErrDuplicateSlug
		},
	})

	_, err := svc.Create(context.Background(), validInput())

	assert.ErrorIs(t, err, domain.ErrDuplicateSlug,
		"store-level uniqueness error must surface unchanged")
}

// ---- CreateMany ------------------------------------------------------------

func TestPostService_CreateMany_OK(t *testing.T) {
	var captured []domain.PostInput
	svc := service.NewPostService(&mockPostRepo{
		createMany: func(_ context.Context, in []domain.PostInput) ([]domain.Post, error) {
			captured = in
			out := make([]domain.Post, len(in))
			for i, input := range in {
				out[i] = domain.Post{ID: uuid.New(), Slug: input.Slug, Tags: input.Tags}
			}
			return out, nil
		},
	})

	a := validInput()
	b := validInput()
	b.Slug = "hello-again"

	created, err := svc.CreateMany(context.Background(), []domain.PostInput{a, b})

	require.NoError(t, err)
	assert.Len(t, created, 2)
	assert.Len(t, captured, 2)
}

func TestPostService_CreateMany_Empty(t *testing.T) {
	svc := service.NewPostService(&mockPostRepo{})

	_, err := svc.CreateMany(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPostService_CreateMany_InvalidItemSkipsStore(t *testing.T) {
	storeCalled := false
	svc := service.NewPostService(&mockPostRepo{
		createMany: func(_ context.Context, in []domain.PostInput) ([]domain.Post, error) {
			storeCalled = true
			return nil, nil
		},
	})

	bad := validInput()
	bad.Slug = "NOT VALID"

	_, err := svc.CreateMany(context.Background(), []domain.PostInput{validInput(), bad})

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorContains(t, err, "post 2")
	assert.False(t, storeCalled, "nothing may be written when any payload is invalid")
}

// ---- queries ---------------------------------------------------------------

func TestPostService_List_LowercasesTagFilter(t *testing.T) {
	var captured domain.ListFilter
	svc := service.NewPostService(&mockPostRepo{
		list: func(_ context.Context, f domain.ListFilter, _ domain.PaginationParams) ([]domain.Post, int64, error) {
			captured = f
			return nil, 0, nil
		},
	})

	_, _, err := svc.List(context.Background(), " GoLang ", "query", domain.PaginationParams{Page: 1, Limit: 10})

	require.NoError(t, err)
	assert.Equal(t, "golang", captured.Tag, "tag filter matches write-time normalization")
	assert.Equal(t, "query", captured.Search)
}

func TestPostService_List_Envelope(t *testing.T) {
	svc := service.NewPostService(&mockPostRepo{
		list: func(context.Context, domain.ListFilter, domain.PaginationParams) ([]domain.Post, int64, error) {
			return []domain.Post{{Slug: "one"}}, 21, nil
		},
	})

	posts, pagination, err := svc.List(context.Background(), "", "", domain.PaginationParams{Page: 2, Limit: 10})

	require.NoError(t, err)
	assert.Len(t, posts, 1)
	assert.Equal(t, int64(21), pagination.Total)
	assert.Equal(t, 3, pagination.TotalPages)
	assert.True(t, pagination.HasNext)
	assert.True(t, pagination.HasPrev)
}

func TestPostService_List_ReturnsEmptySlice(t *testing.T) {
	svc := service.NewPostService(&mockPostRepo{
		list: func(context.Context, domain.ListFilter, domain.PaginationParams) ([]domain.Post, int64, error) {
			return nil, 0, nil
		},
	})

	posts, _, err := svc.List(context.Background(), "", "", domain.PaginationParams{Page: 1, Limit: 10})

	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestPostService_GetBySlug_NotFound(t *testing.T) {
	svc := service.NewPostService(&mockPostRepo{
		getBySlug: func(context.Context, string) (domain.Post, error) {
			return domain.Post{}, domain.ErrNotFound
		},
	})

	_, err := svc.GetBySlug(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- Update ----------------------------------------------------------------

func TestPostService_Update_NoFields(t *testing.T) {
	svc := service.NewPostService(&mockPostRepo{})

	_, err := svc.Update(context.Background(), uuid.New(), domain.PostUpdate{})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPostService_Update_PartialPassthrough(t *testing.T) {
	var captured domain.PostUpdate
	svc := service.NewPostService(&mockPostRepo{
		update: func(_ context.Context, _ uuid.UUID, u domain.PostUpdate) (domain.Post, error) {
			captured = u
			return domain.Post{}, nil
		},
	})

	title := "  New Title "
	_, err := svc.Update(context.Background(), uuid.New(), domain.PostUpdate{Title: &title})

	require.NoError(t, err)
	require.NotNil(t, captured.Title)
	assert.Equal(t, "New Title", *captured.Title)
	assert.Nil(t, captured.Slug, "unsupplied fields stay nil")
	assert.Nil(t, captured.Content)
	assert.Nil(t, captured.Tags)
}

func TestPostService_Update_BadSlug(t *testing.T) {
	svc := service.NewPostService(&mockPostRepo{})

	slug := "Not A Slug"
	_, err := svc.Update(context.Background(), uuid.New(), domain.PostUpdate{Slug: &slug})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPostService_Update_TooManyTags(t *testing.T) {
	svc := service.NewPostService(&mockPostRepo{})

	tags := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"}
	_, err := svc.Update(context.Background(), uuid.New(), domain.PostUpdate{Tags: &tags})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPostService_Update_NotFound(t *testing.T) {
	svc := service.NewPostService(&mockPostRepo{
		update: func(context.Context, uuid.UUID, domain.PostUpdate) (domain.Post, error) {
			return domain.Post{}, domain.ErrNotFound
		},
	})

	title := "x"
	_, err := svc.Update(context.Background(), uuid.New(), domain.PostUpdate{Title: &title})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostService_Update_DuplicateSlug(t *testing.T) {
	svc := service.NewPostService(&mockPostRepo{
		update: func(context.Context, uuid.UUID, domain.PostUpdate) (domain.Post, error) {
			return domain.Post{}, domain.ErrDuplicateSlug
		},
	})

	slug := "taken"
	_, err := svc.Update(context.Background(), uuid.New(), domain.PostUpdate{Slug: &slug})

	assert.ErrorIs(t, err, domain.ErrDuplicateSlug)
}

// ---- Delete ----------------------------------------------------------------

func TestPostService_Delete_OK(t *testing.T) {
	id := uuid.New()
	svc := service.NewPostService(&mockPostRepo{
		delete: func(_ context.Context, got uuid.UUID) (domain.Post, error) {
			assert.Equal(t, id, got)
			return domain.Post{ID: got, Slug: "gone"}, nil
		},
	})

	deleted, err := svc.Delete(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, "gone", deleted.Slug)
}

func TestPostService_Delete_NotFound(t *testing.T) {
	svc := service.NewPostService(&mockPostRepo{
		delete: func(context.Context, uuid.UUID) (domain.Post, error) {
			return domain.Post{}, domain.ErrNotFound
		},
	})

	_, err := svc.Delete(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
