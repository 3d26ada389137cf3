package cache

import (
	"context"
	"time"

	"github.com/isogloss/tarkov-search/internal/platform/observability"
)

// Producer performs the upstream call for a cache miss.
type Producer func(ctx context.Context) (interface{}, error)

// Resolver coordinates reads through the cache store: a fresh entry is
// returned as-is, otherwise the producer is invoked and its result stored.
//
// There is no request coalescing and no per-key locking: two concurrent
// misses for the same key may both invoke the producer, and the later
// write wins. Accepted simplification, not an accident.
type Resolver struct {
	store   *Store
	logger  *observability.Logger
	metrics *observability.Metrics
}

// ResolverConfig holds resolver dependencies.
type ResolverConfig struct {
	Store   *Store
	Logger  *observability.Logger
	Metrics *observability.Metrics
}

// NewResolver creates a resolver backed by the given store.
func NewResolver(cfg ResolverConfig) *Resolver {
	return &Resolver{
		store:   cfg.Store,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
	}
}

// Resolve returns the cached value for key if fresh under ttl; otherwise it
// awaits the producer, stores the result, and returns it. Producer errors
// are returned to the caller and nothing is cached for them.
func (r *Resolver) Resolve(ctx context.Context, key string, ttl time.Duration, produce Producer) (interface{}, error) {
	if value, ok := r.store.Get(key, ttl); ok {
		if r.metrics != nil {
			r.metrics.RecordCacheHit(ctx, keyClass(key))
		}
		if r.logger != nil {
			r.logger.LogDebug(ctx, "cache hit", "key", key)
		}
		return value, nil
	}

	if r.metrics != nil {
		r.metrics.RecordCacheMiss(ctx, keyClass(key))
	}

	value, err := produce(ctx)
	if err != nil {
		return nil, err
	}

	r.store.Put(key, value)
	if r.metrics != nil {
		r.metrics.SetCacheSize(ctx, r.store.Len())
	}

	return value, nil
}

// Store exposes the underlying store, for admin invalidation wiring.
func (r *Resolver) Store() *Store {
	return r.store
}

// keyClass maps a cache key to its class label for metrics.
func keyClass(key string) string {
	for i := 0; i < len(key); i++ {
		if key[i] == ':' {
			return key[:i]
		}
	}
	return key
}
