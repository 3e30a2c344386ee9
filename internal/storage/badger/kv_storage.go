package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/tickerdeck/tickerdeck/internal/common"
)

// KVEntry represents an expiring key-value pair stored in BadgerDB.
type KVEntry struct {
	Key       string `badgerhold:"key"`
	Value     string
	ExpiresAt time.Time
}

// KVStorage implements the cache.Store contract on BadgerDB.
type KVStorage struct {
	db     *BadgerDB
	logger *common.Logger
}

// NewKVStorage creates a new key-value storage backed by BadgerDB.
func NewKVStorage(db *BadgerDB, logger *common.Logger) *KVStorage {
	return &KVStorage{
		db:     db,
		logger: logger,
	}
}

// Get retrieves a value by key. Returns badgerhold.ErrNotFound for both
// missing and expired keys; an expired entry is removed on the way out.
func (s *KVStorage) Get(ctx context.Context, key string) (string, error) {
	store, err := s.db.Store()
	if err != nil {
		return "", err
	}

	var entry KVEntry
	if err := store.Get(key, &entry); err != nil {
		if err == badgerhold.ErrNotFound {
			return "", err
		}
		return "", fmt.Errorf("failed to get key %s: %w", key, err)
	}

	if !entry.ExpiresAt.IsZero() && time.Now().After(entry.ExpiresAt) {
		_ = s.Delete(ctx, key)
		return "", badgerhold.ErrNotFound
	}

	return entry.Value, nil
}

// Set stores a key-value pair with an expiry window. A non-positive TTL
// stores the entry without expiry.
func (s *KVStorage) Set(_ context.Context, key, value string, ttl time.Duration) error {
	store, err := s.db.Store()
	if err != nil {
		return err
	}

	entry := KVEntry{
		Key:   key,
		Value: value,
	}
	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl)
	}

	if err := store.Upsert(key, &entry); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

// Delete removes a key-value pair.
func (s *KVStorage) Delete(_ context.Context, key string) error {
	store, err := s.db.Store()
	if err != nil {
		return err
	}

	if err := store.Delete(key, KVEntry{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

// SweepExpired removes all entries whose expiry has passed. Returns the
// number of entries removed.
func (s *KVStorage) SweepExpired(ctx context.Context) (int, error) {
	store, err := s.db.Store()
	if err != nil {
		return 0, err
	}

	var expired []KVEntry
	query := badgerhold.Where("ExpiresAt").Lt(time.Now()).And("ExpiresAt").Ne(time.Time{})
	if err := store.Find(&expired, query); err != nil {
		return 0, fmt.Errorf("failed to query expired entries: %w", err)
	}

	removed := 0
	for _, entry := range expired {
		if ctx.Err() != nil {
			return removed, ctx.Err()
		}
		if err := s.Delete(ctx, entry.Key); err != nil {
			s.logger.Warn().Str("key", entry.Key).Err(err).Msg("failed to sweep expired cache entry")
			continue
		}
		removed++
	}

	return removed, nil
}
