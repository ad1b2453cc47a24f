package tree

import (
	"context"
	"time"

	"giapha-go/internal/domain/member"
)

// Cache holds the last member snapshot read for tree building. Every
// DeleteMembers bumps the version; SetMembers stores only when the version
// still equals the one read before the snapshot was loaded.
type Cache interface {
	GetMembers(ctx context.Context) ([]member.Member, bool)
	Version(ctx context.Context) int64
	SetMembers(ctx context.Context, members []member.Member, ttl time.Duration, version int64)
	DeleteMembers(ctx context.Context)
}

type noopCache struct{}

func (noopCache) GetMembers(context.Context) ([]member.Member, bool) {
	return nil, false
}

func (noopCache) Version(context.Context) int64 {
	return 0
}

func (noopCache) SetMembers(context.Context, []member.Member, time.Duration, int64) {}

func (noopCache) DeleteMembers(context.Context) {}
