package telemetry

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// CacheMetrics counts list cache outcomes. It satisfies cache.Observer.
type CacheMetrics struct {
	hits          metric.Int64Counter
	misses        metric.Int64Counter
	invalidations metric.Int64Counter
}

// NewCacheMetrics registers the cache counters on meter.
func NewCacheMetrics(meter metric.Meter) (*CacheMetrics, error) {
	hits, err := meter.Int64Counter("bilemo_cache_hits_total",
		metric.WithDescription("List requests served from the cache"))
	if err != nil {
		return nil, fmt.Errorf("failed to create cache hits counter: %w", err)
	}
	misses, err := meter.Int64Counter("bilemo_cache_misses_total",
		metric.WithDescription("List requests computed from the database"))
	if err != nil {
		return nil, fmt.Errorf("failed to create cache misses counter: %w", err)
	}
	invalidations, err := meter.Int64Counter("bilemo_cache_invalidations_total",
		metric.WithDescription("Tags invalidated after a write"))
	if err != nil {
		return nil, fmt.Errorf("failed to create cache invalidations counter: %w", err)
	}
	return &CacheMetrics{hits: hits, misses: misses, invalidations: invalidations}, nil
}

// Hit records a cache hit for the list the key belongs to.
func (m *CacheMetrics) Hit(ctx context.Context, key string) {
	m.hits.Add(ctx, 1, metric.WithAttributes(listAttr(key)))
}

// Miss records a cache miss for the list the key belongs to.
func (m *CacheMetrics) Miss(ctx context.Context, key string) {
	m.misses.Add(ctx, 1, metric.WithAttributes(listAttr(key)))
}

// Invalidated records one invalidation per tag.
func (m *CacheMetrics) Invalidated(ctx context.Context, tags []string) {
	for _, tag := range tags {
		m.invalidations.Add(ctx, 1, metric.WithAttributes(attribute.String("tag", tag)))
	}
}

// listAttr keeps the list name and drops page numbers and client IDs, which would explode cardinality.
func listAttr(key string) attribute.KeyValue {
	name, _, _ := strings.Cut(key, "-")
	return attribute.String("list", name)
}
