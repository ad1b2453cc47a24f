package inmemory

import (
	"context"
	"sync"
	"time"
)

// InMemoryAttemptStore counts failed logins per key until the window set by
// the first failure runs out.
type InMemoryAttemptStore struct {
	mu    sync.Mutex
	items map[string]attemptItem
	now   func() time.Time
}

type attemptItem struct {
	count     int
	expiresAt time.Time
}

func NewInMemoryAttemptStore() *InMemoryAttemptStore {
	return &InMemoryAttemptStore{
		items: make(map[string]attemptItem),
		now:   time.Now,
	}
}

func (s *InMemoryAttemptStore) Failures(_ context.Context, key string) (int, time.Duration, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[key]
	if !ok {
		return 0, 0, nil
	}
	if !item.expiresAt.After(now) {
		delete(s.items, key)
		return 0, 0, nil
	}
	return item.count, item.expiresAt.Sub(now), nil
}

func (s *InMemoryAttemptStore) RecordFailure(_ context.Context, key string, window time.Duration) (int, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[key]
	if !ok || !item.expiresAt.After(now) {
		item = attemptItem{expiresAt: now.Add(window)}
	}
	item.count++
	s.items[key] = item
	return item.count, nil
}

func (s *InMemoryAttemptStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
	return nil
}
