package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giapha-go/internal/config"
	memberdomain "giapha-go/internal/domain/member"
	"giapha-go/pkg/logger"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return server, client
}

func TestNewClientPings(t *testing.T) {
	server := miniredis.RunT(t)
	addr := server.Addr()

	client, err := NewClient(context.Background(), config.RedisConfig{Addr: addr})
	require.NoError(t, err)
	require.NoError(t, client.Close())

	server.Close()
	_, err = NewClient(context.Background(), config.RedisConfig{Addr: addr})
	assert.Error(t, err)
}

func TestAttemptStoreWindow(t *testing.T) {
	server, client := newTestClient(t)
	store := NewAttemptStore(client, "giapha:")
	ctx := context.Background()

	count, _, err := store.Failures(ctx, "login:root")
	require.NoError(t, err)
	assert.Zero(t, count)

	for i := 1; i <= 3; i++ {
		got, err := store.RecordFailure(ctx, "login:root", 10*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, got)
	}

	count, retryAfter, err := store.Failures(ctx, "login:root")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, 10*time.Minute, retryAfter)
	assert.True(t, server.Exists("giapha:login:root"))

	server.FastForward(10 * time.Minute)
	count, _, err = store.Failures(ctx, "login:root")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestAttemptStoreReset(t *testing.T) {
	_, client := newTestClient(t)
	store := NewAttemptStore(client, "")
	ctx := context.Background()

	_, err := store.RecordFailure(ctx, "login:root", time.Minute)
	require.NoError(t, err)
	require.NoError(t, store.Reset(ctx, "login:root"))

	count, _, err := store.Failures(ctx, "login:root")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMembersCacheRoundTrip(t *testing.T) {
	server, client := newTestClient(t)
	cache := NewMembersCache(client, "giapha:", logger.NewNop())
	ctx := context.Background()

	_, ok := cache.GetMembers(ctx)
	assert.False(t, ok)

	birth := time.Date(1920, 3, 1, 0, 0, 0, 0, time.UTC)
	parent := "r"
	cache.SetMembers(ctx, []memberdomain.Member{
		{ID: "r", FullName: "Tổ", Generation: 1, BirthOrder: 1},
		{ID: "a", FullName: "Nhất", Generation: 2, BirthOrder: 1, ParentID: &parent, BirthDate: &birth, SpouseIDs: []string{"b"}},
	}, time.Minute, cache.Version(ctx))

	got, ok := cache.GetMembers(ctx)
	require.True(t, ok)
	require.Len(t, got, 2)
	assert.Equal(t, "Nhất", got[1].FullName)
	require.NotNil(t, got[1].ParentID)
	assert.Equal(t, "r", *got[1].ParentID)
	assert.True(t, birth.Equal(*got[1].BirthDate))
	assert.Equal(t, []string{"b"}, got[1].SpouseIDs)

	server.FastForward(2 * time.Minute)
	_, ok = cache.GetMembers(ctx)
	assert.False(t, ok)
}

func TestMembersCacheDeleteAndCorruptPayload(t *testing.T) {
	server, client := newTestClient(t)
	cache := NewMembersCache(client, "", logger.NewNop())
	ctx := context.Background()

	cache.SetMembers(ctx, []memberdomain.Member{{ID: "r"}}, time.Minute, cache.Version(ctx))
	cache.DeleteMembers(ctx)
	_, ok := cache.GetMembers(ctx)
	assert.False(t, ok)
	assert.Equal(t, "1", mustGet(t, server, membersVersionKey))

	require.NoError(t, server.Set(membersKey, "{not json"))
	_, ok = cache.GetMembers(ctx)
	assert.False(t, ok)
}

func TestMembersCacheSkipsWriteAfterInvalidation(t *testing.T) {
	server, client := newTestClient(t)
	cache := NewMembersCache(client, "giapha:", logger.NewNop())
	ctx := context.Background()

	version := cache.Version(ctx)
	assert.Zero(t, version)

	// A member write lands while the old snapshot is still being loaded.
	cache.DeleteMembers(ctx)
	cache.SetMembers(ctx, []memberdomain.Member{{ID: "old"}}, time.Minute, version)

	_, ok := cache.GetMembers(ctx)
	assert.False(t, ok, "snapshot read before the invalidation must not be stored")
	assert.False(t, server.Exists("giapha:"+membersKey))

	cache.SetMembers(ctx, []memberdomain.Member{{ID: "new"}}, time.Minute, cache.Version(ctx))
	got, ok := cache.GetMembers(ctx)
	require.True(t, ok)
	assert.Equal(t, "new", got[0].ID)
}

func TestMembersCacheVersionReadFailureSkipsWrite(t *testing.T) {
	server, client := newTestClient(t)
	cache := NewMembersCache(client, "", logger.NewNop())
	ctx := context.Background()

	require.NoError(t, server.Set(membersVersionKey, "not a number"))
	version := cache.Version(ctx)
	assert.Equal(t, int64(staleVersion), version)

	cache.SetMembers(ctx, []memberdomain.Member{{ID: "r"}}, time.Minute, version)
	_, ok := cache.GetMembers(ctx)
	assert.False(t, ok)
}

func mustGet(t *testing.T, server *miniredis.Miniredis, key string) string {
	t.Helper()
	value, err := server.Get(key)
	require.NoError(t, err)
	return value
}
