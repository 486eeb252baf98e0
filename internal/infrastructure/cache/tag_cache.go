package cache

import (
	"context"
	"errors"
	"time"
)

// Cache tags shared by the list endpoints
const (
	TagClients   = "clientsCache"
	TagCustomers = "customersCache"
	TagProducts  = "productsCache"
)

// ErrClosed is returned by a cache used after Close
var ErrClosed = errors.New("cache is closed")

// TagVersions holds the generation of each tag a value was computed under.
// Invalidating a tag moves its generation on.
type TagVersions map[string]int64

// TagCache stores serialized values under keys labelled with tags.
// Invalidating a tag drops every key stored with it.
//
// A value is written with the tag generations read before it was computed, so a
// value computed across an invalidation is never served.
type TagCache interface {
	// Get returns the value stored under key. found is false on a miss.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// TagVersions returns the current generation of each tag
	TagVersions(ctx context.Context, tags ...string) (TagVersions, error)

	// Set stores value under key for ttl and records key under each tag of versions.
	// Get never returns it once a tag was invalidated after versions was read.
	Set(ctx context.Context, key string, value []byte, versions TagVersions, ttl time.Duration) error

	// InvalidateTags drops every key recorded under any of the tags
	InvalidateTags(ctx context.Context, tags ...string) error

	Close() error
}
