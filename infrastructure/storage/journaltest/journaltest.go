// Package journaltest provides a behavioral test suite shared by every
// journal.Store backend.
package journaltest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/felixgeelhaar/agent-shell/domain/action"
	"github.com/felixgeelhaar/agent-shell/domain/agent"
	"github.com/felixgeelhaar/agent-shell/domain/journal"
)

// Factory opens a fresh, empty store.
type Factory func(t *testing.T) journal.Store

// Entry returns a valid entry for the agent.
func Entry(agentName, msg string) journal.Entry {
	return journal.Entry{
		Agent:    agentName,
		WorkerID: "greeting_worker",
		Action:   "greet",
		Args:     action.Args{"message": msg},
		Status:   action.StatusDone,
		Message:  "Greeting sent successfully",
		Mode:     agent.ModeTick,
	}
}

// Run exercises the store contract.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	t.Run("append assigns id sequence and timestamp", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		before := time.Now().Add(-time.Second)
		for i := range 3 {
			if err := store.Append(ctx, Entry("bot", fmt.Sprintf("hi %d", i))); err != nil {
				t.Fatalf("Append() error = %v", err)
			}
		}

		got, err := store.Recent(ctx, "bot", 10)
		if err != nil {
			t.Fatalf("Recent() error = %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("Recent() returned %d entries, want 3", len(got))
		}
		seen := make(map[string]bool)
		for i, e := range got {
			if e.ID == "" || seen[e.ID] {
				t.Errorf("entry %d has missing or duplicate id %q", i, e.ID)
			}
			seen[e.ID] = true
			if e.Sequence != uint64(i+1) {
				t.Errorf("entry %d sequence = %d, want %d", i, e.Sequence, i+1)
			}
			if e.Timestamp.Before(before) {
				t.Errorf("entry %d timestamp = %v, not assigned", i, e.Timestamp)
			}
			if want := fmt.Sprintf("hi %d", i); e.Args.String("message") != want {
				t.Errorf("entry %d message arg = %q, want %q", i, e.Args.String("message"), want)
			}
			if e.Status != action.StatusDone || e.Mode != agent.ModeTick {
				t.Errorf("entry %d = %+v", i, e)
			}
		}
	})

	t.Run("recent returns newest oldest first", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		for i := range 5 {
			if err := store.Append(ctx, Entry("bot", fmt.Sprintf("m%d", i))); err != nil {
				t.Fatal(err)
			}
		}

		got, err := store.Recent(ctx, "bot", 2)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 2 {
			t.Fatalf("Recent() returned %d entries, want 2", len(got))
		}
		if got[0].Args.String("message") != "m3" || got[1].Args.String("message") != "m4" {
			t.Errorf("Recent() = [%s %s], want [m3 m4]", got[0].Args.String("message"), got[1].Args.String("message"))
		}
	})

	t.Run("agents are isolated", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		if err := store.Append(ctx, Entry("a", "x")); err != nil {
			t.Fatal(err)
		}
		if err := store.Append(ctx, Entry("b", "y")); err != nil {
			t.Fatal(err)
		}

		got, err := store.Recent(ctx, "b", 10)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 || got[0].Agent != "b" || got[0].Sequence != 1 {
			t.Errorf("Recent(b) = %+v", got)
		}

		none, err := store.Recent(ctx, "nobody", 10)
		if err != nil {
			t.Fatal(err)
		}
		if len(none) != 0 {
			t.Errorf("Recent(nobody) = %d entries", len(none))
		}
	})

	t.Run("keeps caller id and timestamp", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		e := Entry("bot", "x")
		e.ID = "fixed-id"
		e.Timestamp = ts
		if err := store.Append(ctx, e); err != nil {
			t.Fatal(err)
		}

		got, err := store.Recent(ctx, "bot", 1)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 || got[0].ID != "fixed-id" || !got[0].Timestamp.Equal(ts) {
			t.Errorf("Recent() = %+v", got)
		}
	})

	t.Run("rejects invalid entry", func(t *testing.T) {
		store := newStore(t)
		if err := store.Append(context.Background(), journal.Entry{Agent: "bot"}); !errors.Is(err, journal.ErrInvalidEntry) {
			t.Errorf("Append() error = %v, want ErrInvalidEntry", err)
		}
	})

	t.Run("zero limit", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		if err := store.Append(ctx, Entry("bot", "x")); err != nil {
			t.Fatal(err)
		}
		got, err := store.Recent(ctx, "bot", 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 0 {
			t.Errorf("Recent(0) = %d entries", len(got))
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		store := newStore(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := store.Append(ctx, Entry("bot", "x")); !errors.Is(err, context.Canceled) {
			t.Errorf("Append() error = %v, want context.Canceled", err)
		}
	})

	t.Run("closed store", func(t *testing.T) {
		store := newStore(t)
		if err := store.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
		if err := store.Append(context.Background(), Entry("bot", "x")); !errors.Is(err, journal.ErrStoreClosed) {
			t.Errorf("Append() after Close error = %v, want ErrStoreClosed", err)
		}
		if _, err := store.Recent(context.Background(), "bot", 1); !errors.Is(err, journal.ErrStoreClosed) {
			t.Errorf("Recent() after Close error = %v, want ErrStoreClosed", err)
		}
	})
}
