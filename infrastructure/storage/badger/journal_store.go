package badger

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"slices"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/felixgeelhaar/agent-shell/domain/journal"
)

// JournalStore is a BadgerDB-backed implementation of journal.Store.
type JournalStore struct {
	db        *badger.DB
	keyPrefix string
	closed    atomic.Bool
}

// NewJournalStore creates a new BadgerDB journal store with the given configuration.
func NewJournalStore(cfg Config, opts ...Option) (*JournalStore, error) {
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	return NewJournalStoreFromDB(db, cfg.KeyPrefix), nil
}

// NewJournalStoreFromDB creates a journal store from an existing BadgerDB database.
func NewJournalStoreFromDB(db *badger.DB, keyPrefix string) *JournalStore {
	return &JournalStore{
		db:        db,
		keyPrefix: keyPrefix,
	}
}

// Key format: prefix journal:agent: sequence (8 bytes, big-endian)
func (s *JournalStore) entryPrefix(agentName string) []byte {
	return []byte(s.keyPrefix + "journal:" + agentName + ":")
}

func (s *JournalStore) entryKey(agentName string, seq uint64) []byte {
	return binary.BigEndian.AppendUint64(s.entryPrefix(agentName), seq)
}

// Key format: prefix seq:agent for storing the sequence counter
func (s *JournalStore) seqKey(agentName string) []byte {
	return []byte(s.keyPrefix + "seq:" + agentName)
}

// Append persists an entry.
func (s *JournalStore) Append(ctx context.Context, e journal.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.closed.Load() {
		return journal.ErrStoreClosed
	}
	if err := e.Validate(); err != nil {
		return err
	}

	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	return s.db.Update(func(txn *badger.Txn) error {
		var seq uint64
		seqKey := s.seqKey(e.Agent)

		item, err := txn.Get(seqKey)
		if err == nil {
			err = item.Value(func(val []byte) error {
				if len(val) == 8 {
					seq = binary.BigEndian.Uint64(val)
				}
				return nil
			})
			if err != nil {
				return err
			}
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		seq++
		e.Sequence = seq

		data, err := json.Marshal(e)
		if err != nil {
			return err
		}
		if err := txn.Set(s.entryKey(e.Agent, seq), data); err != nil {
			return err
		}
		return txn.Set(seqKey, binary.BigEndian.AppendUint64(nil, seq))
	})
}

// Recent returns up to limit of the newest entries for an agent, oldest first.
func (s *JournalStore) Recent(ctx context.Context, agentName string, limit int) ([]journal.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.closed.Load() {
		return nil, journal.ErrStoreClosed
	}
	if limit <= 0 {
		return nil, nil
	}

	prefix := s.entryPrefix(agentName)
	var entries []journal.Entry

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.Reverse = true

		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration starts at the last key under the prefix.
		seek := append(slices.Clone(prefix), 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)
		for it.Seek(seek); it.ValidForPrefix(prefix) && len(entries) < limit; it.Next() {
			var e journal.Entry
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			})
			if err != nil {
				continue // Skip malformed entries
			}
			entries = append(entries, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Reverse(entries)
	return entries, nil
}

// Close closes the database.
func (s *JournalStore) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}

var _ journal.Store = (*JournalStore)(nil)
