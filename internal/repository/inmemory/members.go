package inmemory

import (
	"context"
	"sync"
	"time"

	memberdomain "giapha-go/internal/domain/member"
)

// InMemoryMembersCache keeps the last member snapshot used to build the tree.
type InMemoryMembersCache struct {
	mu      sync.RWMutex
	item    *membersItem
	version int64
}

type membersItem struct {
	value     []memberdomain.Member
	expiresAt time.Time
}

func NewInMemoryMembersCache() *InMemoryMembersCache {
	return &InMemoryMembersCache{}
}

func (c *InMemoryMembersCache) GetMembers(context.Context) ([]memberdomain.Member, bool) {
	now := time.Now()

	c.mu.RLock()
	item := c.item
	c.mu.RUnlock()
	if item == nil {
		return nil, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		if c.item == item {
			c.item = nil
		}
		c.mu.Unlock()
		return nil, false
	}

	return cloneMembers(item.value), true
}

func (c *InMemoryMembersCache) Version(context.Context) int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// SetMembers drops the snapshot when an invalidation happened after version
// was read.
func (c *InMemoryMembersCache) SetMembers(_ context.Context, members []memberdomain.Member, ttl time.Duration, version int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ttl <= 0 {
		c.item = nil
		return
	}
	if version != c.version {
		return
	}
	c.item = &membersItem{
		value:     cloneMembers(members),
		expiresAt: time.Now().Add(ttl),
	}
}

func (c *InMemoryMembersCache) DeleteMembers(context.Context) {
	c.mu.Lock()
	c.item = nil
	c.version++
	c.mu.Unlock()
}

func cloneMembers(members []memberdomain.Member) []memberdomain.Member {
	if members == nil {
		return nil
	}
	cloned := make([]memberdomain.Member, len(members))
	copy(cloned, members)
	return cloned
}
