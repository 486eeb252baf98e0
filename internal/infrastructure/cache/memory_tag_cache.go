package cache

import (
	"context"
	"slices"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/jellydator/ttlcache/v3"
)

// MemoryTagCache implements TagCache in process memory.
// Entries are not shared between instances.
type MemoryTagCache struct {
	mu      sync.Mutex
	entries *ttlcache.Cache[string, []byte]
	tags     map[string]mapset.Set[string]
	versions map[string]int64
	closed   bool
}

// NewMemoryTagCache creates an in-memory tag cache. capacity 0 means unbounded.
func NewMemoryTagCache(capacity uint64) *MemoryTagCache {
	opts := []ttlcache.Option[string, []byte]{
		ttlcache.WithDisableTouchOnHit[string, []byte](),
	}
	if capacity > 0 {
		opts = append(opts, ttlcache.WithCapacity[string, []byte](capacity))
	}

	c := &MemoryTagCache{
		entries:  ttlcache.New(opts...),
		tags:     make(map[string]mapset.Set[string]),
		versions: make(map[string]int64),
	}
	// Eviction callbacks run on their own goroutine, so they only drop keys
	// that were not stored again in the meantime.
	c.entries.OnEviction(func(_ context.Context, _ ttlcache.EvictionReason, item *ttlcache.Item[string, []byte]) {
		c.forget(item.Key())
	})
	go c.entries.Start()
	return c
}

// Get returns a copy of the value stored under key
func (c *MemoryTagCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	if c.isClosed() {
		return nil, false, ErrClosed
	}
	item := c.entries.Get(key)
	if item == nil {
		return nil, false, nil
	}
	return slices.Clone(item.Value()), true, nil
}

// TagVersions returns the current generation of each tag
func (c *MemoryTagCache) TagVersions(_ context.Context, tags ...string) (TagVersions, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}
	versions := make(TagVersions, len(tags))
	for _, tag := range tags {
		versions[tag] = c.versions[tag]
	}
	return versions, nil
}

// Set stores a copy of value and tags the key.
// Nothing is stored when a tag moved on since versions was read.
func (c *MemoryTagCache) Set(_ context.Context, key string, value []byte, versions TagVersions, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	for tag, version := range versions {
		if c.versions[tag] != version {
			return nil
		}
	}
	for tag := range versions {
		set, ok := c.tags[tag]
		if !ok {
			set = mapset.NewThreadUnsafeSet[string]()
			c.tags[tag] = set
		}
		set.Add(key)
	}
	c.entries.Set(key, slices.Clone(value), ttl)
	return nil
}

// InvalidateTags deletes every key recorded under the tags
func (c *MemoryTagCache) InvalidateTags(_ context.Context, tags ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	for _, tag := range tags {
		c.versions[tag]++
		set, ok := c.tags[tag]
		if !ok {
			continue
		}
		delete(c.tags, tag)
		for _, key := range set.ToSlice() {
			c.entries.Delete(key)
		}
	}
	return nil
}

// Close stops the expiry loop and drops every entry
func (c *MemoryTagCache) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.tags = make(map[string]mapset.Set[string])
	c.mu.Unlock()

	c.entries.Stop()
	c.entries.DeleteAll()
	return nil
}

// Len returns the number of live entries
func (c *MemoryTagCache) Len() int {
	return c.entries.Len()
}

func (c *MemoryTagCache) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *MemoryTagCache) forget(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries.Has(key) {
		return
	}
	for tag, set := range c.tags {
		set.Remove(key)
		if set.Cardinality() == 0 {
			delete(c.tags, tag)
		}
	}
}

var _ TagCache = (*MemoryTagCache)(nil)
