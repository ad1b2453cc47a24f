package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	memberdomain "giapha-go/internal/domain/member"
	"giapha-go/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const (
	membersKey        = "tree:members"
	membersVersionKey = "tree:members:version"
)

// staleVersion never matches a stored version, so a failed version read
// leaves the cache untouched.
const staleVersion = -1

// setIfVersion writes the snapshot only while the version key still holds
// the version read before the members were loaded.
var setIfVersion = redis.NewScript(`
local current = redis.call("GET", KEYS[2])
if not current then
	current = "0"
end
if current ~= ARGV[1] then
	return 0
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
return 1
`)

// MembersCache shares the tree member snapshot between instances. Failures
// are logged and treated as misses.
type MembersCache struct {
	client     redis.UniversalClient
	key        string
	versionKey string
	log        logger.Logger
}

func NewMembersCache(client redis.UniversalClient, prefix string, log logger.Logger) *MembersCache {
	return &MembersCache{
		client:     client,
		key:        prefix + membersKey,
		versionKey: prefix + membersVersionKey,
		log:        log,
	}
}

func (c *MembersCache) GetMembers(ctx context.Context) ([]memberdomain.Member, bool) {
	payload, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.log.Warn("tree cache read failed", "error", err)
		return nil, false
	}

	var members []memberdomain.Member
	if err := json.Unmarshal(payload, &members); err != nil {
		c.log.Warn("tree cache decode failed", "error", err)
		return nil, false
	}
	return members, true
}

func (c *MembersCache) Version(ctx context.Context) int64 {
	version, err := c.client.Get(ctx, c.versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0
	}
	if err != nil {
		c.log.Warn("tree cache version read failed", "error", err)
		return staleVersion
	}
	return version
}

func (c *MembersCache) SetMembers(ctx context.Context, members []memberdomain.Member, ttl time.Duration, version int64) {
	if ttl <= 0 {
		if err := c.client.Del(ctx, c.key).Err(); err != nil {
			c.log.Warn("tree cache delete failed", "error", err)
		}
		return
	}
	if version == staleVersion {
		return
	}

	payload, err := json.Marshal(members)
	if err != nil {
		c.log.Warn("tree cache encode failed", "error", err)
		return
	}
	keys := []string{c.key, c.versionKey}
	args := []any{strconv.FormatInt(version, 10), payload, ttl.Milliseconds()}
	if err := setIfVersion.Run(ctx, c.client, keys, args...).Err(); err != nil {
		c.log.Warn("tree cache write failed", "error", err)
	}
}

// DeleteMembers bumps the version so in-flight loads cannot write back a
// snapshot read before the change.
func (c *MembersCache) DeleteMembers(ctx context.Context) {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, c.versionKey)
		pipe.Del(ctx, c.key)
		return nil
	})
	if err != nil {
		c.log.Warn("tree cache delete failed", "error", err)
	}
}
