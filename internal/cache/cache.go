// Package cache implements the cache-aside layer: read-through population of
// keyed query snapshots with a TTL, and explicit invalidation after store
// mutations. The cache is an optimization, never an authority: any cache
// failure degrades to the document store instead of failing the request.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Store.Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Store is the minimal key-value collaborator the accessor needs. The Redis
// client implements it in production; tests substitute an in-memory fake.
// Del of a non-existent key must be a no-op, not an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}
