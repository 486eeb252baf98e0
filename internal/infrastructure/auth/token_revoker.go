package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/redis/go-redis/v9"
)

// TokenRevoker invalidates every token of a client issued before a point in time.
// It backs the forced logout that follows a password change.
type TokenRevoker interface {
	// RevokeClient rejects tokens issued before now. ttl should cover the token lifetime.
	RevokeClient(ctx context.Context, clientID int64, ttl time.Duration) error

	// IsClientTokenRevoked reports whether a token issued at issuedAt was revoked
	IsClientTokenRevoked(ctx context.Context, clientID int64, issuedAt time.Time) (bool, error)
}

// revokedBefore compares at second precision, the resolution of the iat claim.
// A token minted in the same second as the revocation stays valid.
func revokedBefore(issuedAt time.Time, revokedAt int64) bool {
	return issuedAt.Unix() < revokedAt
}

// RedisTokenRevoker implements TokenRevoker using Redis
type RedisTokenRevoker struct {
	client    *redis.Client
	keyPrefix string
	now       func() time.Time
}

// NewRedisTokenRevoker creates a token revoker on an existing Redis client
func NewRedisTokenRevoker(client *redis.Client) *RedisTokenRevoker {
	return &RedisTokenRevoker{
		client:    client,
		keyPrefix: "token:revoked:client:",
		now:       time.Now,
	}
}

func (r *RedisTokenRevoker) key(clientID int64) string {
	return r.keyPrefix + strconv.FormatInt(clientID, 10)
}

// RevokeClient stores the revocation timestamp of the client
func (r *RedisTokenRevoker) RevokeClient(ctx context.Context, clientID int64, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.key(clientID), r.now().Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke client tokens: %w", err)
	}
	return nil
}

// IsClientTokenRevoked checks the token issue time against the stored revocation timestamp
func (r *RedisTokenRevoker) IsClientTokenRevoked(ctx context.Context, clientID int64, issuedAt time.Time) (bool, error) {
	revokedAt, err := r.client.Get(ctx, r.key(clientID)).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check client token revocation: %w", err)
	}
	return revokedBefore(issuedAt, revokedAt), nil
}

var _ TokenRevoker = (*RedisTokenRevoker)(nil)

// MemoryTokenRevoker keeps revocations in process memory.
// Revocations are not shared between instances.
type MemoryTokenRevoker struct {
	entries *ttlcache.Cache[int64, int64]
	now     func() time.Time
}

// NewMemoryTokenRevoker creates an in-memory revoker. Call Close to stop its expiry loop.
func NewMemoryTokenRevoker() *MemoryTokenRevoker {
	// Lookups must not extend the entry, or an active client is never released.
	entries := ttlcache.New(ttlcache.WithDisableTouchOnHit[int64, int64]())
	go entries.Start()
	return &MemoryTokenRevoker{entries: entries, now: time.Now}
}

// RevokeClient records the revocation timestamp of the client
func (r *MemoryTokenRevoker) RevokeClient(_ context.Context, clientID int64, ttl time.Duration) error {
	r.entries.Set(clientID, r.now().Unix(), ttl)
	return nil
}

// IsClientTokenRevoked checks the token issue time against the recorded revocation timestamp
func (r *MemoryTokenRevoker) IsClientTokenRevoked(_ context.Context, clientID int64, issuedAt time.Time) (bool, error) {
	item := r.entries.Get(clientID)
	if item == nil {
		return false, nil
	}
	return revokedBefore(issuedAt, item.Value()), nil
}

// Close stops the expiry loop
func (r *MemoryTokenRevoker) Close() {
	r.entries.Stop()
}

var _ TokenRevoker = (*MemoryTokenRevoker)(nil)
