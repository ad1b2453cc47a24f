package news

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"
)

type fakeNewsRepo struct {
	posts map[string]*Post
}

func newFakeNewsRepo() *fakeNewsRepo {
	return &fakeNewsRepo{posts: map[string]*Post{}}
}

func (r *fakeNewsRepo) List(_ context.Context, filter ListFilter) ([]Post, int64, error) {
	var result []Post
	for _, post := range r.posts {
		if !post.Published && !filter.IncludeDrafts {
			continue
		}
		result = append(result, *post)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	total := int64(len(result))
	if filter.Offset < len(result) {
		result = result[filter.Offset:]
	} else {
		result = nil
	}
	if len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, total, nil
}

func (r *fakeNewsRepo) GetByID(_ context.Context, id string) (*Post, error) {
	post, ok := r.posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}
	copied := *post
	return &copied, nil
}

func (r *fakeNewsRepo) Create(_ context.Context, post *Post) error {
	copied := *post
	copied.CreatedAt = time.Now()
	r.posts[post.ID] = &copied
	return nil
}

func (r *fakeNewsRepo) Update(_ context.Context, post *Post) error {
	copied := *post
	r.posts[post.ID] = &copied
	return nil
}

func (r *fakeNewsRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := r.posts[id]; !ok {
		return false, nil
	}
	delete(r.posts, id)
	return true, nil
}

func TestCreateStampsPublishedAt(t *testing.T) {
	svc := NewService(newFakeNewsRepo())
	fixed := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	post, err := svc.Create(context.Background(), CreateInput{Title: "  Giỗ Tổ  ", Published: true, AuthorID: "acc-1"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if post.Title != "Giỗ Tổ" {
		t.Fatalf("expected trimmed title, got %q", post.Title)
	}
	if post.PublishedAt == nil || !post.PublishedAt.Equal(fixed) {
		t.Fatalf("expected published_at %v, got %v", fixed, post.PublishedAt)
	}
	if post.AuthorID == nil || *post.AuthorID != "acc-1" {
		t.Fatalf("expected author id")
	}
}

func TestPublishingStampsOnlyOnce(t *testing.T) {
	svc := NewService(newFakeNewsRepo())
	first := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return first }

	post, err := svc.Create(context.Background(), CreateInput{Title: "Draft"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if post.PublishedAt != nil {
		t.Fatalf("draft must not have published_at")
	}

	published := true
	post, err = svc.Update(context.Background(), post.ID, UpdateInput{Published: &published})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	svc.now = func() time.Time { return first.Add(48 * time.Hour) }
	unpublished := false
	if _, err := svc.Update(context.Background(), post.ID, UpdateInput{Published: &unpublished}); err != nil {
		t.Fatalf("unpublish: %v", err)
	}
	post, err = svc.Update(context.Background(), post.ID, UpdateInput{Published: &published})
	if err != nil {
		t.Fatalf("republish: %v", err)
	}
	if !post.PublishedAt.Equal(first) {
		t.Fatalf("expected original published_at, got %v", post.PublishedAt)
	}
}

func TestGetHidesDraftsFromPublic(t *testing.T) {
	svc := NewService(newFakeNewsRepo())
	post, err := svc.Create(context.Background(), CreateInput{Title: "Draft"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Get(context.Background(), post.ID, false); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
	if _, err := svc.Get(context.Background(), post.ID, true); err != nil {
		t.Fatalf("expected editors to see drafts, got %v", err)
	}
}

func TestListClampsAndFilters(t *testing.T) {
	svc := NewService(newFakeNewsRepo())
	for _, published := range []bool{true, true, false} {
		if _, err := svc.Create(context.Background(), CreateInput{Title: "Post", Published: published}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	posts, total, err := svc.List(context.Background(), ListFilter{Limit: 1000})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(posts) != 2 {
		t.Fatalf("expected two published posts, got total=%d len=%d", total, len(posts))
	}

	_, total, _ = svc.List(context.Background(), ListFilter{IncludeDrafts: true})
	if total != 3 {
		t.Fatalf("expected drafts included, got %d", total)
	}
}

func TestCreateRequiresTitle(t *testing.T) {
	svc := NewService(newFakeNewsRepo())
	if _, err := svc.Create(context.Background(), CreateInput{Title: "   "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDeleteMissingPost(t *testing.T) {
	svc := NewService(newFakeNewsRepo())
	if err := svc.Delete(context.Background(), "missing"); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}
