// Package badger implements the cache store on an embedded BadgerDB via
// badgerhold. The connection is lazy: nothing is opened until the first
// operation needs it, and a failed open is retried transparently on the
// next use.
package badger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/timshannon/badgerhold/v4"

	"github.com/tickerdeck/tickerdeck/internal/common"
	"github.com/tickerdeck/tickerdeck/internal/config"
)

// BadgerDB manages the Badger database connection.
type BadgerDB struct {
	mu     sync.Mutex
	store  *badgerhold.Store
	logger *common.Logger
	config *config.BadgerConfig
}

// NewBadgerDB creates a Badger connection handle. The database is not
// opened until the first call to Store.
func NewBadgerDB(logger *common.Logger, cfg *config.BadgerConfig) *BadgerDB {
	return &BadgerDB{
		logger: logger,
		config: cfg,
	}
}

// Store returns the underlying badgerhold store, opening it on first use.
func (b *BadgerDB) Store() (*badgerhold.Store, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.store != nil {
		return b.store, nil
	}

	dir := filepath.Dir(b.config.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	b.logger.Debug().Str("path", b.config.Path).Msg("opening Badger database")

	options := badgerhold.DefaultOptions
	options.Dir = b.config.Path
	options.ValueDir = b.config.Path
	options.Logger = nil // Disable default badger logger

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	b.logger.Debug().Str("path", b.config.Path).Msg("Badger database initialized")

	b.store = store
	return b.store, nil
}

// Close closes the database connection. A closed handle reopens on next use.
func (b *BadgerDB) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.store == nil {
		return nil
	}
	store := b.store
	b.store = nil
	return store.Close()
}
