//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/bilemo/api/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) config.RedisConfig {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start Redis container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: Failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	return config.RedisConfig{Host: host, Port: port.Int()}
}

func newRedisTagCache(t *testing.T) *RedisTagCache {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	client, err := NewRedisClient(context.Background(), startRedis(t))
	require.NoError(t, err)
	c := NewRedisTagCache(client, "")
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func redisSet(t *testing.T, c *RedisTagCache, key, value string, ttl time.Duration, tags ...string) {
	t.Helper()
	ctx := context.Background()
	versions, err := c.TagVersions(ctx, tags...)
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, key, []byte(value), versions, ttl))
}

func TestRedisTagCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c := newRedisTagCache(t)

	_, found, err := c.Get(ctx, "getAllClients-1-5")
	require.NoError(t, err)
	assert.False(t, found)

	redisSet(t, c, "getAllClients-1-5", `{"items":[]}`, time.Minute, TagClients)
	got, found, err := c.Get(ctx, "getAllClients-1-5")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, `{"items":[]}`, string(got))

	redisSet(t, c, "untagged", "u", time.Minute)
	got, found, err = c.Get(ctx, "untagged")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "u", string(got))
}

func TestRedisTagCache_InvalidateTags(t *testing.T) {
	ctx := context.Background()
	c := newRedisTagCache(t)

	redisSet(t, c, "clients", "c", time.Minute, TagClients)
	redisSet(t, c, "customers", "u", time.Minute, TagCustomers)
	redisSet(t, c, "both", "b", time.Minute, TagClients, TagCustomers)

	require.NoError(t, c.InvalidateTags(ctx, TagClients, "unknown"))

	for key, want := range map[string]bool{"clients": false, "both": false, "customers": true} {
		_, found, err := c.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, want, found, key)
	}

	redisSet(t, c, "clients", "c2", time.Minute, TagClients)
	got, found, err := c.Get(ctx, "clients")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "c2", string(got))
}

func TestRedisTagCache_ValueComputedAcrossInvalidationIsNotServed(t *testing.T) {
	ctx := context.Background()
	c := newRedisTagCache(t)

	versions, err := c.TagVersions(ctx, TagProducts)
	require.NoError(t, err)
	require.NoError(t, c.InvalidateTags(ctx, TagProducts))
	require.NoError(t, c.Set(ctx, "getAllProducts-1-5", []byte("stale"), versions, time.Minute))

	_, found, err := c.Get(ctx, "getAllProducts-1-5")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisTagCache_LostVersionCounterIsAMiss(t *testing.T) {
	ctx := context.Background()
	c := newRedisTagCache(t)

	redisSet(t, c, "getAllCustomers-1-5", "v", time.Minute, TagCustomers)
	require.NoError(t, c.Client().Del(ctx, c.versionKey(TagCustomers)).Err())

	_, found, err := c.Get(ctx, "getAllCustomers-1-5")
	require.NoError(t, err)
	assert.False(t, found)

	versions, err := c.TagVersions(ctx, TagCustomers)
	require.NoError(t, err)
	assert.NotZero(t, versions[TagCustomers])
}

func TestRedisTagCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := newRedisTagCache(t)

	redisSet(t, c, "short", "v", time.Second, TagClients)

	ttl, err := c.Client().TTL(ctx, c.valueKey("short")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	assert.Eventually(t, func() bool {
		_, found, _ := c.Get(ctx, "short")
		return !found
	}, 5*time.Second, 100*time.Millisecond)
}

func TestRedisTagCache_ReadThrough(t *testing.T) {
	ctx := context.Background()
	rt := NewReadThrough(newRedisTagCache(t), time.Hour)

	source := "v1"
	first, err := GetOrCompute(ctx, rt, "getAllProducts-1-5", []string{TagProducts}, func(context.Context) (string, error) {
		read := source
		source = "v2"
		rt.Invalidate(ctx, TagProducts)
		return read, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "v1", first)

	calls := 0
	compute := func(context.Context) (string, error) {
		calls++
		return source, nil
	}
	for i := 0; i < 2; i++ {
		got, err := GetOrCompute(ctx, rt, "getAllProducts-1-5", []string{TagProducts}, compute)
		require.NoError(t, err)
		assert.Equal(t, "v2", got)
	}
	assert.Equal(t, 1, calls)
}
