package settings

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

const maxValueLength = 20000

var keyPattern = regexp.MustCompile(`^[a-z0-9_]{1,64}$`)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) All(ctx context.Context) (map[string]string, error) {
	items, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	result := make(map[string]string, len(items))
	for _, item := range items {
		result[item.Key] = item.Value
	}
	return result, nil
}

func (s *Service) Get(ctx context.Context, key string) (string, error) {
	if !keyPattern.MatchString(key) {
		return "", ErrInvalidKey
	}
	item, err := s.repo.Get(ctx, key)
	if err != nil {
		return "", err
	}
	return item.Value, nil
}

// Put upserts every pair; nothing is written if any pair is invalid.
func (s *Service) Put(ctx context.Context, values map[string]string) (map[string]string, error) {
	keys := make([]string, 0, len(values))
	for key, value := range values {
		if !keyPattern.MatchString(key) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
		if utf8.RuneCountInString(value) > maxValueLength {
			return nil, fmt.Errorf("%w: %s", ErrValueTooLong, key)
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	items := make([]Setting, 0, len(keys))
	for _, key := range keys {
		items = append(items, Setting{Key: key, Value: strings.TrimSpace(values[key])})
	}
	if len(items) > 0 {
		if err := s.repo.Upsert(ctx, items); err != nil {
			return nil, err
		}
	}
	return s.All(ctx)
}
