//go:build integration

package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
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

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%d", host, port.Int())})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestRedisTokenRevoker(t *testing.T) {
	ctx := context.Background()
	revokedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	revoker := NewRedisTokenRevoker(startRedisClient(t))
	revoker.now = func() time.Time { return revokedAt }

	revoked, err := revoker.IsClientTokenRevoked(ctx, 7, revokedAt.Add(-time.Hour))
	require.NoError(t, err)
	assert.False(t, revoked, "no revocation recorded yet")

	require.NoError(t, revoker.RevokeClient(ctx, 7, time.Hour))

	tests := []struct {
		name     string
		clientID int64
		issuedAt time.Time
		want     bool
	}{
		{"issued before revocation", 7, revokedAt.Add(-time.Minute), true},
		{"issued in the revocation second", 7, revokedAt.Add(500 * time.Millisecond), false},
		{"issued after revocation", 7, revokedAt.Add(time.Minute), false},
		{"other client", 8, revokedAt.Add(-time.Minute), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := revoker.IsClientTokenRevoked(ctx, tt.clientID, tt.issuedAt)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRedisTokenRevoker_Expires(t *testing.T) {
	ctx := context.Background()
	revoker := NewRedisTokenRevoker(startRedisClient(t))

	require.NoError(t, revoker.RevokeClient(ctx, 1, time.Second))
	issued := time.Now().Add(-time.Hour)

	revoked, err := revoker.IsClientTokenRevoked(ctx, 1, issued)
	require.NoError(t, err)
	assert.True(t, revoked)

	assert.Eventually(t, func() bool {
		revoked, err := revoker.IsClientTokenRevoked(ctx, 1, issued)
		return err == nil && !revoked
	}, 5*time.Second, 100*time.Millisecond)
}
