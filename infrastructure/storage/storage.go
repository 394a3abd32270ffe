// Package storage opens the configured journal backend.
package storage

import (
	"fmt"

	"github.com/felixgeelhaar/agent-shell/domain/config"
	"github.com/felixgeelhaar/agent-shell/domain/journal"
	"github.com/felixgeelhaar/agent-shell/infrastructure/storage/badger"
	"github.com/felixgeelhaar/agent-shell/infrastructure/storage/memory"
	"github.com/felixgeelhaar/agent-shell/infrastructure/storage/redis"
	"github.com/felixgeelhaar/agent-shell/infrastructure/storage/sqlite"
)

// OpenJournal returns the journal store selected by cfg.Driver.
func OpenJournal(cfg config.JournalConfig) (journal.Store, error) {
	switch cfg.Driver {
	case config.JournalMemory, "":
		return memory.NewJournalStore(), nil

	case config.JournalSQLite:
		opts := []sqlite.Option{}
		if cfg.SQLite.DSN != "" {
			opts = append(opts, sqlite.WithDSN(cfg.SQLite.DSN))
		}
		store, err := sqlite.NewJournalStore(sqlite.DefaultConfig(), opts...)
		if err != nil {
			return nil, err
		}
		return store, nil

	case config.JournalRedis:
		opts := []redis.ConfigOption{
			redis.WithPassword(cfg.Redis.Password),
			redis.WithDB(cfg.Redis.DB),
		}
		if cfg.Redis.Address != "" {
			opts = append(opts, redis.WithAddress(cfg.Redis.Address))
		}
		if cfg.Redis.KeyPrefix != "" {
			opts = append(opts, redis.WithKeyPrefix(cfg.Redis.KeyPrefix))
		}
		store, err := redis.NewJournalStore(redis.DefaultConfig(), opts...)
		if err != nil {
			return nil, err
		}
		return store, nil

	case config.JournalBadger:
		opts := []badger.Option{}
		if cfg.Badger.Dir != "" {
			opts = append(opts, badger.WithDir(cfg.Badger.Dir))
		}
		store, err := badger.NewJournalStore(badger.DefaultConfig(), opts...)
		if err != nil {
			return nil, err
		}
		return store, nil

	default:
		return nil, fmt.Errorf("%w: %q", journal.ErrUnknownDriver, cfg.Driver)
	}
}
