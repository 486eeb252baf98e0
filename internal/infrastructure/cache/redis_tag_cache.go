package cache

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/redis/go-redis/v9"
)

const defaultRedisKeyPrefix = "bilemo:cache:"

// RedisTagCache implements TagCache on Redis.
//
// Each tag has a generation counter. An entry is a hash holding the value and the
// generation of each of its tags at compute time. Invalidation increments the
// counters, so it is a single atomic INCR per tag and stale entries are
// recognised on read until their TTL removes them.
type RedisTagCache struct {
	client    *redis.Client
	keyPrefix string
	now       func() time.Time
}

// Fields of an entry hash
const (
	entryDataField      = "data"
	entryTagFieldPrefix = "tag:"
)

// NewRedisTagCache creates a tag cache on an existing Redis client
func NewRedisTagCache(client *redis.Client, keyPrefix string) *RedisTagCache {
	if keyPrefix == "" {
		keyPrefix = defaultRedisKeyPrefix
	}
	return &RedisTagCache{client: client, keyPrefix: keyPrefix, now: time.Now}
}

func (c *RedisTagCache) valueKey(key string) string {
	return c.keyPrefix + "value:" + key
}

func (c *RedisTagCache) versionKey(tag string) string {
	return c.keyPrefix + "version:" + tag
}

// Get returns the value stored under key, unless one of its tags was invalidated since it was computed
func (c *RedisTagCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	fields, err := c.client.HGetAll(ctx, c.valueKey(key)).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache key %q: %w", key, err)
	}
	data, ok := fields[entryDataField]
	if !ok {
		return nil, false, nil
	}

	var tags, recorded []string
	for field, version := range fields {
		if tag, isTag := strings.CutPrefix(field, entryTagFieldPrefix); isTag {
			tags = append(tags, c.versionKey(tag))
			recorded = append(recorded, version)
		}
	}
	if len(tags) == 0 {
		return []byte(data), true, nil
	}

	current, err := c.client.MGet(ctx, tags...).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to read tag versions of %q: %w", key, err)
	}
	for i, version := range current {
		// A missing counter was evicted, so the recorded generation proves nothing.
		if s, ok := version.(string); !ok || s != recorded[i] {
			return nil, false, nil
		}
	}
	return []byte(data), true, nil
}

// TagVersions returns the generation of each tag.
// A tag seen for the first time is seeded from the clock so that a counter lost
// to eviction never restarts at a generation an old entry recorded.
func (c *RedisTagCache) TagVersions(ctx context.Context, tags ...string) (TagVersions, error) {
	if len(tags) == 0 {
		return TagVersions{}, nil
	}
	keys := make([]string, len(tags))
	for i, tag := range tags {
		keys[i] = c.versionKey(tag)
	}

	var values *redis.SliceCmd
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		seed := c.now().UnixNano()
		for _, key := range keys {
			pipe.SetNX(ctx, key, seed, 0)
		}
		values = pipe.MGet(ctx, keys...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read tag versions: %w", err)
	}

	versions := make(TagVersions, len(tags))
	for i, raw := range values.Val() {
		s, _ := raw.(string)
		version, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("tag %q has a malformed version: %w", tags[i], err)
		}
		versions[tags[i]] = version
	}
	return versions, nil
}

// Set stores value with the generation of each tag in one transaction
func (c *RedisTagCache) Set(ctx context.Context, key string, value []byte, versions TagVersions, ttl time.Duration) error {
	fields := make([]any, 0, 2+2*len(versions))
	fields = append(fields, entryDataField, value)
	for tag, version := range versions {
		fields = append(fields, entryTagFieldPrefix+tag, strconv.FormatInt(version, 10))
	}

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, c.valueKey(key))
		pipe.HSet(ctx, c.valueKey(key), fields...)
		if ttl > 0 {
			pipe.Expire(ctx, c.valueKey(key), ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write cache key %q: %w", key, err)
	}
	return nil
}

// InvalidateTags moves the generation of every tag on. All tags are attempted and failures are combined.
func (c *RedisTagCache) InvalidateTags(ctx context.Context, tags ...string) error {
	cmds := make([]*redis.IntCmd, len(tags))
	_, _ = c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, tag := range tags {
			cmds[i] = pipe.Incr(ctx, c.versionKey(tag))
		}
		return nil
	})

	var errs *multierror.Error
	for i, cmd := range cmds {
		if err := cmd.Err(); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("invalidate tag %q: %w", tags[i], err))
		}
	}
	return errs.ErrorOrNil()
}

// Client returns the underlying Redis client so other components can share the pool
func (c *RedisTagCache) Client() *redis.Client {
	return c.client
}

// Close closes the Redis client
func (c *RedisTagCache) Close() error {
	return c.client.Close()
}

var _ TagCache = (*RedisTagCache)(nil)
