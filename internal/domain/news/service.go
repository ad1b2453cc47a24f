package news

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
	maxTitleLength   = 200
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// List returns posts newest first. Drafts are included only when the
// filter asks for them.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Post, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	filter.Query = strings.TrimSpace(filter.Query)
	return s.repo.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id string, includeDrafts bool) (*Post, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !post.Published && !includeDrafts {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*Post, error) {
	title, err := normalizeTitle(input.Title)
	if err != nil {
		return nil, err
	}

	post := Post{
		ID:       uuid.NewString(),
		Title:    title,
		Summary:  strings.TrimSpace(input.Summary),
		Content:  input.Content,
		CoverURL: strings.TrimSpace(input.CoverURL),
	}
	if input.AuthorID != "" {
		authorID := input.AuthorID
		post.AuthorID = &authorID
	}
	s.setPublished(&post, input.Published)

	if err := s.repo.Create(ctx, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*Post, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title, err := normalizeTitle(*input.Title)
		if err != nil {
			return nil, err
		}
		post.Title = title
	}
	if input.Summary != nil {
		post.Summary = strings.TrimSpace(*input.Summary)
	}
	if input.Content != nil {
		post.Content = *input.Content
	}
	if input.CoverURL != nil {
		post.CoverURL = strings.TrimSpace(*input.CoverURL)
	}
	if input.Published != nil {
		s.setPublished(post, *input.Published)
	}

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrPostNotFound
	}
	return nil
}

// setPublished stamps PublishedAt the first time a post goes live and keeps
// it through later unpublish/publish cycles.
func (s *Service) setPublished(post *Post, published bool) {
	post.Published = published
	if published && post.PublishedAt == nil {
		now := s.now().UTC()
		post.PublishedAt = &now
	}
}

func normalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return "", fmt.Errorf("%w: title is longer than %d characters", ErrInvalidInput, maxTitleLength)
	}
	return title, nil
}
