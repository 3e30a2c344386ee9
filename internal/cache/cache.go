// Package cache provides a best-effort, read-through cache over a
// key-value store. Values are wrapped in a JSON envelope carrying the
// capture timestamp and TTL; expiry is checked at read time and stale
// entries are evicted on the way out.
//
// The cache never becomes a hard dependency: any store failure is treated
// as a miss on read and reported as a boolean on write, so the primary
// data path keeps working (slower) when the store is down.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tickerdeck/tickerdeck/internal/common"
)

// Store is the key-value backend contract. Implementations must be safe
// for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// envelope wraps a cached value with its capture time and TTL, both in
// epoch milliseconds. Expiry is Timestamp+TTL.
type envelope struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
	TTL       int64           `json:"ttl"`
}

// Cache is a read-through cache handle. Construct one and inject it;
// there is no package-level instance.
type Cache struct {
	store  Store
	logger *common.Logger
	now    func() time.Time
}

// Option configures the Cache.
type Option func(*Cache)

// WithClock overrides the time source, for expiry tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates a cache over the given store.
func New(store Store, logger *common.Logger, opts ...Option) *Cache {
	c := &Cache{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get loads the value for key into out. Returns false on miss, expiry, or
// any store failure. Expired entries are deleted before returning.
func (c *Cache) Get(ctx context.Context, key string, out interface{}) bool {
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		return false
	}

	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		c.logger.Debug().Str("key", key).Err(err).Msg("cache entry corrupt, evicting")
		c.Delete(ctx, key)
		return false
	}

	if c.now().UnixMilli() > env.Timestamp+env.TTL {
		c.Delete(ctx, key)
		return false
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		c.logger.Debug().Str("key", key).Err(err).Msg("cache entry unreadable, evicting")
		c.Delete(ctx, key)
		return false
	}

	return true
}

// Set stores a value under key with the given TTL. Returns false when the
// value cannot be stored; failures are never propagated.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) bool {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Debug().Str("key", key).Err(err).Msg("cache value not serializable")
		return false
	}

	env := envelope{
		Data:      data,
		Timestamp: c.now().UnixMilli(),
		TTL:       ttl.Milliseconds(),
	}

	raw, err := json.Marshal(env)
	if err != nil {
		return false
	}

	if err := c.store.Set(ctx, key, string(raw), ttl); err != nil {
		c.logger.Debug().Str("key", key).Err(err).Msg("cache set failed")
		return false
	}
	return true
}

// Delete removes a key. Returns false on store failure.
func (c *Cache) Delete(ctx context.Context, key string) bool {
	if err := c.store.Delete(ctx, key); err != nil {
		c.logger.Debug().Str("key", key).Err(err).Msg("cache delete failed")
		return false
	}
	return true
}
