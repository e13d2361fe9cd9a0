package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"
)

// Accessor wraps a Store with the cache-aside contract. Reads go through
// ReadThrough; every successful store mutation is followed by Invalidate with
// the keys whose content the mutation changed.
type Accessor struct {
	store  Store
	logger *slog.Logger
}

func NewAccessor(store Store, logger *slog.Logger) *Accessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Accessor{store: store, logger: logger}
}

// ReadThrough returns the value under key, falling back to load on a miss and
// populating the cache with the loaded value for ttl.
//
// On a hit the loader is never called. On a miss the loader runs exactly once
// and the result is written back before returning. When the cache collaborator
// itself fails (unreachable, corrupt payload), the error is logged and the
// request is served from the loader alone; a degraded cache never fails a read.
func ReadThrough[T any](ctx context.Context, a *Accessor, key string, ttl time.Duration, load func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	raw, err := a.store.Get(ctx, key)
	switch {
	case err == nil:
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, nil
		}
		// Undecodable entry: treat as a miss and let the write below replace it.
		a.logger.Warn("cache entry undecodable, reloading", "key", key)
	case !errors.Is(err, ErrMiss):
		a.logger.Warn("cache read failed, serving from store", "key", key, "err", err)
		return load(ctx)
	}

	v, err := load(ctx)
	if err != nil {
		return zero, err
	}
	raw, err = json.Marshal(v)
	if err != nil {
		a.logger.Warn("cache value not serializable", "key", key, "err", err)
		return v, nil
	}
	if err := a.store.Set(ctx, key, raw, ttl); err != nil {
		a.logger.Warn("cache write failed", "key", key, "err", err)
	}
	return v, nil
}

// Invalidate deletes the given keys. It must run only after the underlying
// store mutation is acknowledged; deleting first would let a racing reader
// repopulate the cache with pre-mutation data that outlives the write.
// Failures are logged and swallowed: the entries still expire at their TTL.
func (a *Accessor) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := a.store.Del(ctx, keys...); err != nil {
		a.logger.Warn("cache invalidation failed", "keys", keys, "err", err)
	}
}
