// Package sqlite provides a SQLite-backed journal store.
package sqlite

import (
	"database/sql"
	"errors"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/felixgeelhaar/agent-shell/domain/journal"
)

// Config configures SQLite storage.
type Config struct {
	// DSN is the data source name (e.g., "file:agentshell.db?mode=rwc").
	DSN string

	// MaxOpenConns is the maximum number of open connections.
	MaxOpenConns int

	// ConnMaxLifetime is the maximum connection lifetime.
	ConnMaxLifetime time.Duration

	// AutoMigrate automatically creates tables if they don't exist.
	AutoMigrate bool

	// JournalMode sets the SQLite journal mode (e.g., "WAL").
	JournalMode string

	// BusyTimeout sets the busy timeout in milliseconds.
	BusyTimeout int
}

// Option configures SQLite storage.
type Option func(*Config)

// WithDSN sets the data source name.
func WithDSN(dsn string) Option {
	return func(c *Config) {
		c.DSN = dsn
	}
}

// WithJournalMode sets the SQLite journal mode.
func WithJournalMode(mode string) Option {
	return func(c *Config) {
		c.JournalMode = mode
	}
}

// WithBusyTimeout sets the busy timeout in milliseconds.
func WithBusyTimeout(ms int) Option {
	return func(c *Config) {
		c.BusyTimeout = ms
	}
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		DSN:             "file:agentshell.db?mode=rwc",
		MaxOpenConns:    1,
		ConnMaxLifetime: time.Hour,
		AutoMigrate:     true,
		JournalMode:     "WAL",
		BusyTimeout:     5000,
	}
}

// openDB opens a SQLite database with the given configuration.
func openDB(cfg Config) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", cfg.DSN)
	if err != nil {
		return nil, errors.Join(journal.ErrConnectionFailed, err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	var pragmas []string
	if cfg.JournalMode != "" {
		pragmas = append(pragmas, "PRAGMA journal_mode="+cfg.JournalMode)
	}
	if cfg.BusyTimeout > 0 {
		pragmas = append(pragmas, "PRAGMA busy_timeout="+strconv.Itoa(cfg.BusyTimeout))
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, errors.Join(journal.ErrMigrationFailed, err)
		}
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Join(journal.ErrConnectionFailed, err)
	}

	return db, nil
}
