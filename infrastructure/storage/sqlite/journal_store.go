package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"slices"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/agent-shell/domain/action"
	"github.com/felixgeelhaar/agent-shell/domain/agent"
	"github.com/felixgeelhaar/agent-shell/domain/journal"
)

// JournalStore is a SQLite-backed implementation of journal.Store.
type JournalStore struct {
	db     *sql.DB
	closed atomic.Bool
}

// NewJournalStore creates a new SQLite journal store with the given configuration.
func NewJournalStore(cfg Config, opts ...Option) (*JournalStore, error) {
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	s := &JournalStore{db: db}

	if cfg.AutoMigrate {
		if err := s.migrate(); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return s, nil
}

// NewJournalStoreFromDB creates a journal store from an existing database connection.
func NewJournalStoreFromDB(db *sql.DB) (*JournalStore, error) {
	s := &JournalStore{db: db}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *JournalStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS journal (
			id TEXT PRIMARY KEY,
			agent TEXT NOT NULL,
			sequence INTEGER NOT NULL,
			worker_id TEXT NOT NULL,
			action TEXT NOT NULL,
			args BLOB,
			status TEXT NOT NULL,
			message TEXT NOT NULL DEFAULT '',
			mode TEXT NOT NULL DEFAULT '',
			task TEXT NOT NULL DEFAULT '',
			timestamp INTEGER NOT NULL
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_journal_agent_seq ON journal(agent, sequence);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return errors.Join(journal.ErrMigrationFailed, err)
	}
	return nil
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

	args, err := json.Marshal(e.Args)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	var maxSeq sql.NullInt64
	err = tx.QueryRowContext(ctx,
		"SELECT MAX(sequence) FROM journal WHERE agent = ?",
		e.Agent,
	).Scan(&maxSeq)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	e.Sequence = uint64(maxSeq.Int64) + 1

	_, err = tx.ExecContext(ctx,
		`INSERT INTO journal (id, agent, sequence, worker_id, action, args, status, message, mode, task, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Agent, e.Sequence, e.WorkerID, e.Action, args,
		string(e.Status), e.Message, string(e.Mode), e.Task, e.Timestamp.UnixNano(),
	)
	if err != nil {
		return err
	}

	return tx.Commit()
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

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, agent, sequence, worker_id, action, args, status, message, mode, task, timestamp
		 FROM journal WHERE agent = ? ORDER BY sequence DESC LIMIT ?`,
		agentName, limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []journal.Entry
	for rows.Next() {
		var (
			e      journal.Entry
			args   []byte
			status string
			mode   string
			ts     int64
		)
		if err := rows.Scan(&e.ID, &e.Agent, &e.Sequence, &e.WorkerID, &e.Action,
			&args, &status, &e.Message, &mode, &e.Task, &ts); err != nil {
			return nil, err
		}
		if len(args) > 0 {
			if err := json.Unmarshal(args, &e.Args); err != nil {
				return nil, err
			}
		}
		e.Status = action.Status(status)
		e.Mode = agent.Mode(mode)
		e.Timestamp = time.Unix(0, ts)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	slices.Reverse(entries)
	return entries, nil
}

// Close closes the database connection.
func (s *JournalStore) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}

var _ journal.Store = (*JournalStore)(nil)
