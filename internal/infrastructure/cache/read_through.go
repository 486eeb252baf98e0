package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bilemo/api/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Observer is notified of cache outcomes, typically to record metrics.
type Observer interface {
	Hit(ctx context.Context, key string)
	Miss(ctx context.Context, key string)
	Invalidated(ctx context.Context, tags []string)
}

type nopObserver struct{}

func (nopObserver) Hit(context.Context, string)           {}
func (nopObserver) Miss(context.Context, string)          {}
func (nopObserver) Invalidated(context.Context, []string) {}

// ReadThrough serves computed results from a TagCache.
// A failing backend never fails the request: the result is computed directly.
type ReadThrough struct {
	store    TagCache
	ttl      time.Duration
	observer Observer
}

// ReadThroughOption configures a ReadThrough
type ReadThroughOption func(*ReadThrough)

// WithObserver reports hits, misses and invalidations to o
func WithObserver(o Observer) ReadThroughOption {
	return func(r *ReadThrough) {
		if o != nil {
			r.observer = o
		}
	}
}

// NewReadThrough wraps store. ttl applies to every entry it writes.
func NewReadThrough(store TagCache, ttl time.Duration, opts ...ReadThroughOption) *ReadThrough {
	r := &ReadThrough{store: store, ttl: ttl, observer: nopObserver{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Invalidate drops every entry stored under the tags. Failures are logged, not returned.
func (r *ReadThrough) Invalidate(ctx context.Context, tags ...string) {
	if err := r.store.InvalidateTags(ctx, tags...); err != nil {
		logger.L(ctx).Error("cache invalidation failed", zap.Strings("tags", tags), zap.Error(err))
		return
	}
	r.observer.Invalidated(ctx, tags)
}

// GetOrCompute returns the cached value of key, or computes, stores and returns it.
// Errors from compute are returned and never cached. The tag generations are read
// before compute, so a result that races an invalidation is not served later.
func GetOrCompute[T any](ctx context.Context, r *ReadThrough, key string, tags []string, compute func(context.Context) (T, error)) (T, error) {
	log := logger.L(ctx)

	raw, found, err := r.store.Get(ctx, key)
	if err != nil {
		log.Warn("cache read failed, computing directly", zap.String("key", key), zap.Error(err))
	}
	if found {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			log.Debug("cache hit", zap.String("key", key))
			r.observer.Hit(ctx, key)
			return cached, nil
		}
		log.Warn("discarding undecodable cache entry", zap.String("key", key))
	}

	r.observer.Miss(ctx, key)
	versions, versionErr := r.store.TagVersions(ctx, tags...)
	if versionErr != nil {
		log.Warn("cache tag versions unavailable, result will not be stored", zap.String("key", key), zap.Error(versionErr))
	}

	value, err := compute(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if versionErr != nil {
		return value, nil
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		log.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return value, nil
	}
	if err := r.store.Set(ctx, key, encoded, versions, r.ttl); err != nil {
		log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
	return value, nil
}
