package middleware_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/felixgeelhaar/agent-shell/domain/action"
	"github.com/felixgeelhaar/agent-shell/domain/agent"
	"github.com/felixgeelhaar/agent-shell/domain/journal"
	domainmw "github.com/felixgeelhaar/agent-shell/domain/middleware"
	mw "github.com/felixgeelhaar/agent-shell/infrastructure/middleware"
)

// panicAction panics without the Definition's own recovery.
type panicAction struct{}

func (panicAction) Name() string        { return "explode" }
func (panicAction) Description() string { return "panics" }
func (panicAction) Args() []action.Arg  { return nil }
func (panicAction) Execute(context.Context, action.Args, action.LogFunc) action.Result {
	panic("boom")
}

// fakeStore records appended entries.
type fakeStore struct {
	mu      sync.Mutex
	entries []journal.Entry
	err     error
}

func (s *fakeStore) Append(_ context.Context, e journal.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, e)
	return nil
}

func (s *fakeStore) Recent(context.Context, string, int) ([]journal.Entry, error) {
	return nil, nil
}

func (s *fakeStore) Close() error { return nil }

func greetAction(t *testing.T, calls *int) action.Action {
	t.Helper()
	return action.NewBuilder("greet").
		WithDescription("Sends a greeting").
		WithArg("message", action.TypeString, "The greeting message").
		WithHandler(func(_ context.Context, args action.Args, logf action.LogFunc) (action.Result, error) {
			*calls++
			logf("Greeting: " + args.String("message"))
			return action.Done("Greeting sent successfully"), nil
		}).
		MustBuild()
}

func newExecCtx(a action.Action, args action.Args) *domainmw.ExecutionContext {
	return &domainmw.ExecutionContext{
		AgentName: "Greeting Bot",
		WorkerID:  "greeting_worker",
		Action:    a,
		Args:      args,
		Mode:      agent.ModeTick,
		Log:       func(string) {},
	}
}

func TestRecover(t *testing.T) {
	t.Parallel()

	handler := mw.Recover()(domainmw.Execute)
	result, err := handler(context.Background(), newExecCtx(panicAction{}, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsFailed() {
		t.Fatalf("result = %+v, want Failed", result)
	}
	if !errors.Is(result.Err, action.ErrPanicked) {
		t.Errorf("result.Err = %v, want ErrPanicked", result.Err)
	}
}

func TestValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		args      action.Args
		wantDone  bool
		wantCalls int
	}{
		{"valid", action.Args{"message": "hi"}, true, 1},
		{"missing", nil, false, 0},
		{"wrong type", action.Args{"message": 42}, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var calls int
			handler := mw.Validation()(domainmw.Execute)
			result, err := handler(context.Background(), newExecCtx(greetAction(t, &calls), tt.args))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.IsDone() != tt.wantDone {
				t.Errorf("result = %+v, wantDone %v", result, tt.wantDone)
			}
			if calls != tt.wantCalls {
				t.Errorf("handler calls = %d, want %d", calls, tt.wantCalls)
			}
			if !tt.wantDone && !errors.Is(result.Err, action.ErrInvalidArgs) {
				t.Errorf("result.Err = %v, want ErrInvalidArgs", result.Err)
			}
		})
	}
}

func TestLogging(t *testing.T) {
	t.Parallel()

	var calls int
	handler := mw.Logging(mw.LoggingConfig{LogArgs: true})(domainmw.Execute)
	ec := newExecCtx(greetAction(t, &calls), action.Args{"message": "hi"})
	ec.Reason = "say hello"

	result, err := handler(context.Background(), ec)
	if err != nil || !result.IsDone() {
		t.Fatalf("result = %+v, err = %v", result, err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestJournalRecording(t *testing.T) {
	t.Parallel()

	t.Run("appends outcome", func(t *testing.T) {
		t.Parallel()

		store := &fakeStore{}
		var calls int
		handler := mw.JournalRecording(mw.JournalConfig{Store: store})(domainmw.Execute)
		ec := newExecCtx(greetAction(t, &calls), action.Args{"message": "hi"})
		ec.Mode = agent.ModeTask
		ec.Task = "say hi"

		if _, err := handler(context.Background(), ec); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(store.entries) != 1 {
			t.Fatalf("entries = %d, want 1", len(store.entries))
		}
		e := store.entries[0]
		if e.Action != "greet" || e.WorkerID != "greeting_worker" || e.Status != action.StatusDone {
			t.Errorf("entry = %+v", e)
		}
		if e.Mode != agent.ModeTask || e.Task != "say hi" {
			t.Errorf("entry mode/task = %s/%q", e.Mode, e.Task)
		}
	})

	t.Run("append failure keeps result", func(t *testing.T) {
		t.Parallel()

		store := &fakeStore{err: errors.New("disk full")}
		var calls int
		handler := mw.JournalRecording(mw.JournalConfig{Store: store})(domainmw.Execute)
		result, err := handler(context.Background(), newExecCtx(greetAction(t, &calls), action.Args{"message": "hi"}))
		if err != nil || !result.IsDone() {
			t.Errorf("result = %+v, err = %v", result, err)
		}
	})

	t.Run("nil store passes through", func(t *testing.T) {
		t.Parallel()

		var calls int
		handler := mw.JournalRecording(mw.JournalConfig{})(domainmw.Execute)
		if _, err := handler(context.Background(), newExecCtx(greetAction(t, &calls), action.Args{"message": "hi"})); err != nil {
			t.Fatal(err)
		}
		if calls != 1 {
			t.Errorf("calls = %d", calls)
		}
	})
}

func TestDryRun(t *testing.T) {
	t.Parallel()

	var calls int
	var logged []string
	ec := newExecCtx(greetAction(t, &calls), action.Args{"message": "hi"})
	ec.Log = func(msg string) { logged = append(logged, msg) }

	result, err := mw.DryRun()(domainmw.Execute)(context.Background(), ec)
	if err != nil || !result.IsDone() {
		t.Fatalf("result = %+v, err = %v", result, err)
	}
	if calls != 0 {
		t.Errorf("dry run called the handler %d times", calls)
	}
	if len(logged) != 1 || !strings.Contains(logged[0], "greeting_worker.greet") {
		t.Errorf("logged = %v", logged)
	}
}

func TestChainOrder(t *testing.T) {
	t.Parallel()

	// Validation sits inside journal recording so rejected args still
	// show up in the journal.
	store := &fakeStore{}
	var calls int
	chain := domainmw.Chain(
		mw.Recover(),
		mw.JournalRecording(mw.JournalConfig{Store: store}),
		mw.Validation(),
	)
	result, err := chain(domainmw.Execute)(context.Background(), newExecCtx(greetAction(t, &calls), nil))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsFailed() || calls != 0 {
		t.Errorf("result = %+v, calls = %d", result, calls)
	}
	if len(store.entries) != 1 || store.entries[0].Status != action.StatusFailed {
		t.Errorf("entries = %+v", store.entries)
	}
}
