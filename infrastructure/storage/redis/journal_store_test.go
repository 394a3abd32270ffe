package redis

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/agent-shell/domain/journal"
	"github.com/felixgeelhaar/agent-shell/infrastructure/storage/journaltest"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.Address != "localhost:6379" {
		t.Errorf("Address = %s, want localhost:6379", cfg.Address)
	}
	if cfg.KeyPrefix != "agentshell:" {
		t.Errorf("KeyPrefix = %s, want agentshell:", cfg.KeyPrefix)
	}
	if cfg.DialTimeout != 5*time.Second {
		t.Errorf("DialTimeout = %v", cfg.DialTimeout)
	}
}

func TestConfigOptions(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	for _, opt := range []ConfigOption{
		WithAddress("redis:6380"),
		WithPassword("secret"),
		WithDB(2),
		WithKeyPrefix("test:"),
		WithTimeouts(time.Second, 2*time.Second, 3*time.Second),
	} {
		opt(&cfg)
	}

	if cfg.Address != "redis:6380" || cfg.Password != "secret" || cfg.DB != 2 || cfg.KeyPrefix != "test:" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.DialTimeout != time.Second || cfg.ReadTimeout != 2*time.Second || cfg.WriteTimeout != 3*time.Second {
		t.Errorf("timeouts = %v %v %v", cfg.DialTimeout, cfg.ReadTimeout, cfg.WriteTimeout)
	}
}

func TestKeys(t *testing.T) {
	t.Parallel()

	s := NewJournalStoreFromClient(nil, "p:")
	if got := s.entriesKey("bot"); got != "p:journal:bot" {
		t.Errorf("entriesKey = %s", got)
	}
	if got := s.seqKey("bot"); got != "p:journal:seq:bot" {
		t.Errorf("seqKey = %s", got)
	}
}

func TestJournalStore_ValidationBeforeNetwork(t *testing.T) {
	t.Parallel()

	s := NewJournalStoreFromClient(nil, "p:")
	if err := s.Append(context.Background(), journal.Entry{}); !errors.Is(err, journal.ErrInvalidEntry) {
		t.Errorf("Append() error = %v, want ErrInvalidEntry", err)
	}
	if got, err := s.Recent(context.Background(), "bot", 0); err != nil || got != nil {
		t.Errorf("Recent(0) = %v, %v", got, err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := s.Append(context.Background(), journaltest.Entry("bot", "x")); !errors.Is(err, journal.ErrStoreClosed) {
		t.Errorf("Append() after Close error = %v", err)
	}
}

func TestNewJournalStore_ConnectionFailed(t *testing.T) {
	t.Parallel()

	_, err := NewJournalStore(DefaultConfig(),
		WithAddress("127.0.0.1:1"),
		WithTimeouts(200*time.Millisecond, 200*time.Millisecond, 200*time.Millisecond),
	)
	if !errors.Is(err, journal.ErrConnectionFailed) {
		t.Errorf("NewJournalStore() error = %v, want ErrConnectionFailed", err)
	}
}

// TestJournalStore_Redis runs the store contract against a live server when
// AGENTSHELL_TEST_REDIS is set, e.g. AGENTSHELL_TEST_REDIS=localhost:6379.
func TestJournalStore_Redis(t *testing.T) {
	addr := os.Getenv("AGENTSHELL_TEST_REDIS")
	if addr == "" {
		t.Skip("AGENTSHELL_TEST_REDIS not set")
	}

	journaltest.Run(t, func(t *testing.T) journal.Store {
		prefix := "agentshell-test:" + t.Name() + ":"
		store, err := NewJournalStore(DefaultConfig(), WithAddress(addr), WithKeyPrefix(prefix))
		if err != nil {
			t.Fatalf("NewJournalStore() error = %v", err)
		}
		t.Cleanup(func() {
			client := goredis.NewClient(&goredis.Options{Addr: addr})
			defer client.Close()
			ctx := context.Background()
			iter := client.Scan(ctx, 0, prefix+"*", 100).Iterator()
			for iter.Next(ctx) {
				client.Del(ctx, iter.Val())
			}
			_ = store.Close()
		})
		return store
	})
}
