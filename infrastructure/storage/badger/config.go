// Package badger provides a BadgerDB-backed journal store.
package badger

import (
	"errors"

	"github.com/dgraph-io/badger/v4"

	"github.com/felixgeelhaar/agent-shell/domain/journal"
)

// Config configures BadgerDB storage.
type Config struct {
	// Dir is the directory to store data in.
	Dir string

	// InMemory uses in-memory storage (useful for testing).
	InMemory bool

	// SyncWrites enables synchronous writes for durability.
	SyncWrites bool

	// NumVersionsToKeep sets the number of versions to keep per key.
	NumVersionsToKeep int

	// KeyPrefix is added to all keys.
	KeyPrefix string

	// Logger is the logger to use (nil for silent).
	Logger badger.Logger
}

// Option configures BadgerDB storage.
type Option func(*Config)

// WithDir sets the data directory.
func WithDir(dir string) Option {
	return func(c *Config) {
		c.Dir = dir
	}
}

// WithInMemory enables in-memory storage.
func WithInMemory() Option {
	return func(c *Config) {
		c.InMemory = true
	}
}

// WithSyncWrites enables synchronous writes.
func WithSyncWrites() Option {
	return func(c *Config) {
		c.SyncWrites = true
	}
}

// WithKeyPrefix sets the key prefix.
func WithKeyPrefix(prefix string) Option {
	return func(c *Config) {
		c.KeyPrefix = prefix
	}
}

// WithLogger sets the logger.
func WithLogger(logger badger.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Dir:               ".agentshell/journal",
		SyncWrites:        true,
		NumVersionsToKeep: 1,
	}
}

// openDB opens a BadgerDB database with the given configuration.
func openDB(cfg Config) (*badger.DB, error) {
	dir := cfg.Dir
	if cfg.InMemory {
		dir = ""
	}
	opts := badger.DefaultOptions(dir).
		WithInMemory(cfg.InMemory).
		WithSyncWrites(cfg.SyncWrites).
		WithLogger(cfg.Logger)

	if cfg.NumVersionsToKeep > 0 {
		opts = opts.WithNumVersionsToKeep(cfg.NumVersionsToKeep)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Join(journal.ErrConnectionFailed, err)
	}

	return db, nil
}
