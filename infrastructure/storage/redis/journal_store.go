package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/agent-shell/domain/journal"
)

// JournalStore is a Redis-backed implementation of journal.Store. Each
// agent's entries live in a sorted set scored by sequence number.
type JournalStore struct {
	client    *redis.Client
	keyPrefix string
	closed    atomic.Bool
}

// NewJournalStore creates a new Redis journal store with the given configuration.
func NewJournalStore(cfg Config, opts ...ConfigOption) (*JournalStore, error) {
	for _, opt := range opts {
		opt(&cfg)
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolSize:     cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Join(journal.ErrConnectionFailed, err)
	}

	return NewJournalStoreFromClient(client, cfg.KeyPrefix), nil
}

// NewJournalStoreFromClient creates a journal store from an existing Redis client.
func NewJournalStoreFromClient(client *redis.Client, keyPrefix string) *JournalStore {
	return &JournalStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (s *JournalStore) entriesKey(agentName string) string {
	return s.keyPrefix + "journal:" + agentName
}

func (s *JournalStore) seqKey(agentName string) string {
	return s.keyPrefix + "journal:seq:" + agentName
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

	seq, err := s.client.Incr(ctx, s.seqKey(e.Agent)).Result()
	if err != nil {
		return wrapError(err)
	}
	e.Sequence = uint64(seq)

	data, err := json.Marshal(e)
	if err != nil {
		return err
	}

	err = s.client.ZAdd(ctx, s.entriesKey(e.Agent), redis.Z{
		Score:  float64(seq),
		Member: data,
	}).Err()
	return wrapError(err)
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

	raw, err := s.client.ZRange(ctx, s.entriesKey(agentName), int64(-limit), -1).Result()
	if err != nil {
		return nil, wrapError(err)
	}

	entries := make([]journal.Entry, 0, len(raw))
	for _, member := range raw {
		var e journal.Entry
		if err := json.Unmarshal([]byte(member), &e); err != nil {
			continue // Skip malformed entries
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Close closes the Redis connection.
func (s *JournalStore) Close() error {
	if s.closed.Swap(true) || s.client == nil {
		return nil
	}
	return s.client.Close()
}

func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, redis.ErrClosed) {
		return errors.Join(journal.ErrStoreClosed, err)
	}

	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return errors.Join(journal.ErrConnectionFailed, err)
	}

	return err
}

var _ journal.Store = (*JournalStore)(nil)
