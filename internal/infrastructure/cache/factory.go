package cache

import (
	"context"
	"fmt"

	"github.com/bilemo/api/internal/infrastructure/config"
	"go.uber.org/zap"
)

// TagCacheFactory creates the list cache selected by configuration
type TagCacheFactory struct {
	cacheConfig           config.CacheConfig
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	memoryCapacity        uint64
}

// TagCacheFactoryOption is a functional option for configuring the factory
type TagCacheFactoryOption func(*TagCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) TagCacheFactoryOption {
	return func(f *TagCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether the redis driver may fall back to memory
// when Redis is unavailable. The auto driver always falls back.
func WithInMemoryFallback(allow bool) TagCacheFactoryOption {
	return func(f *TagCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// WithMemoryCapacity bounds the number of entries of the in-memory cache
func WithMemoryCapacity(capacity uint64) TagCacheFactoryOption {
	return func(f *TagCacheFactory) {
		f.memoryCapacity = capacity
	}
}

// NewTagCacheFactory creates a new factory
func NewTagCacheFactory(cacheCfg config.CacheConfig, redisCfg config.RedisConfig, opts ...TagCacheFactoryOption) *TagCacheFactory {
	f := &TagCacheFactory{
		cacheConfig:           cacheCfg,
		redisConfig:           redisCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: cacheCfg.AllowFallback,
		memoryCapacity:        10_000,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisStore connects to Redis and returns a Redis-backed tag cache
func (f *TagCacheFactory) CreateRedisStore(ctx context.Context) (*RedisTagCache, error) {
	client, err := NewRedisClient(ctx, f.redisConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis tag cache: %w", err)
	}
	return NewRedisTagCache(client, ""), nil
}

// CreateInMemoryStore creates an in-memory tag cache.
// Invalidations are not shared between instances.
func (f *TagCacheFactory) CreateInMemoryStore() *MemoryTagCache {
	return NewMemoryTagCache(f.memoryCapacity)
}

// CreateStore builds the cache for the configured driver
func (f *TagCacheFactory) CreateStore(ctx context.Context) (TagCache, error) {
	switch f.cacheConfig.Driver {
	case config.CacheDriverRedis, config.CacheDriverAuto:
	default:
		f.logger.Info("using in-memory list cache")
		return f.CreateInMemoryStore(), nil
	}

	store, err := f.CreateRedisStore(ctx)
	if err == nil {
		f.logger.Info("using Redis list cache", zap.String("addr", f.redisConfig.Addr()))
		return store, nil
	}

	if f.cacheConfig.Driver == config.CacheDriverRedis && !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for list cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory list cache. "+
		"Invalidations will not reach other instances.",
		zap.Error(err),
	)
	return f.CreateInMemoryStore(), nil
}
