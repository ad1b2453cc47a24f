package tree

import (
	"context"
	"time"

	"giapha-go/internal/domain/member"
)

type MemberSource interface {
	ListAll(ctx context.Context) ([]member.Member, error)
}

type Service struct {
	members MemberSource
	cache   Cache
	ttl     time.Duration
}

func NewService(members MemberSource) *Service {
	return NewServiceWithCache(members, nil, 0)
}

func NewServiceWithCache(members MemberSource, cache Cache, ttl time.Duration) *Service {
	if cache == nil || ttl <= 0 {
		cache = noopCache{}
	}
	return &Service{members: members, cache: cache, ttl: ttl}
}

func (s *Service) Tree(ctx context.Context) (*Node, error) {
	members, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return Build(members), nil
}

// TreeWithUnattached builds the tree and lists the ids it left out, both from
// the same snapshot.
func (s *Service) TreeWithUnattached(ctx context.Context) (*Node, []string, error) {
	members, err := s.snapshot(ctx)
	if err != nil {
		return nil, nil, err
	}
	return Build(members), Unattached(members), nil
}

func (s *Service) Subtree(ctx context.Context, rootID string) (*Node, error) {
	members, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	root := BuildFrom(members, rootID)
	if root == nil {
		return nil, member.ErrMemberNotFound
	}
	return root, nil
}

// MembersChanged drops the cached snapshot.
func (s *Service) MembersChanged(ctx context.Context) {
	s.cache.DeleteMembers(ctx)
}

func (s *Service) snapshot(ctx context.Context) ([]member.Member, error) {
	if members, ok := s.cache.GetMembers(ctx); ok {
		return members, nil
	}

	version := s.cache.Version(ctx)
	members, err := s.members.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetMembers(ctx, members, s.ttl, version)
	return members, nil
}
