package badger

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tickerdeck/tickerdeck/internal/common"
	"github.com/tickerdeck/tickerdeck/internal/config"
)

// Manager owns the Badger connection, the key-value storage built on it,
// and the scheduled sweep of expired entries.
type Manager struct {
	db     *BadgerDB
	kv     *KVStorage
	cron   *cron.Cron
	logger *common.Logger
}

// NewManager creates a new Badger storage manager.
func NewManager(logger *common.Logger, cfg *config.CacheConfig) *Manager {
	db := NewBadgerDB(logger, &cfg.Badger)

	m := &Manager{
		db:     db,
		kv:     NewKVStorage(db, logger),
		logger: logger,
	}

	if cfg.SweepSchedule != "" {
		m.cron = cron.New()
		_, err := m.cron.AddFunc(cfg.SweepSchedule, m.sweep)
		if err != nil {
			logger.Warn().
				Str("schedule", cfg.SweepSchedule).
				Err(err).
				Msg("invalid cache sweep schedule, sweeper disabled")
			m.cron = nil
		} else {
			m.cron.Start()
		}
	}

	logger.Debug().Msg("Badger storage manager initialized")

	return m
}

// KeyValueStorage returns the key-value storage.
func (m *Manager) KeyValueStorage() *KVStorage {
	return m.kv
}

// sweep removes expired cache entries. Failures are logged and ignored;
// expired entries are also dropped lazily on read, so a missed sweep only
// costs disk space.
func (m *Manager) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := m.kv.SweepExpired(ctx)
	if err != nil {
		m.logger.Debug().Err(err).Msg("cache sweep failed")
		return
	}
	if removed > 0 {
		m.logger.Debug().Int("removed", removed).Msg("swept expired cache entries")
	}
}

// Close stops the sweeper and closes the database connection.
func (m *Manager) Close() error {
	if m.cron != nil {
		m.cron.Stop()
	}
	return m.db.Close()
}
