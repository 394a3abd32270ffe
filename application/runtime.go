// Package application provides the local agent runtime.
package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/felixgeelhaar/agent-shell/domain/action"
	"github.com/felixgeelhaar/agent-shell/domain/agent"
	"github.com/felixgeelhaar/agent-shell/domain/journal"
	"github.com/felixgeelhaar/agent-shell/domain/middleware"
	"github.com/felixgeelhaar/agent-shell/domain/worker"
	"github.com/felixgeelhaar/agent-shell/infrastructure/auth"
	"github.com/felixgeelhaar/agent-shell/infrastructure/logging"
	inframw "github.com/felixgeelhaar/agent-shell/infrastructure/middleware"
	"github.com/felixgeelhaar/agent-shell/infrastructure/planner"
	"github.com/felixgeelhaar/agent-shell/infrastructure/resilience"
	"github.com/felixgeelhaar/agent-shell/infrastructure/storage/memory"
	"github.com/felixgeelhaar/agent-shell/infrastructure/telemetry"
)

// DefaultRecent is the number of journal entries handed to the planner.
const DefaultRecent = 20

// Runtime is the local implementation of agent.Agent.
type Runtime struct {
	credential    string
	cfg           agent.Config
	planner       planner.Planner
	authenticator auth.Authenticator
	journal       journal.Store
	ownsJournal   bool
	recent        int
	metrics       telemetry.Metrics
	tracer        trace.Tracer
	sink          action.LogFunc
	executor      *resilience.Executor
	handler       middleware.Handler
	workers       map[string]*worker.Worker

	mu          sync.Mutex
	initialized bool
	session     auth.Session
	ticks       atomic.Int64
	expiryOnce  sync.Once
}

var _ agent.Agent = (*Runtime)(nil)

// NewRuntime creates a runtime for the given agent configuration. The
// credential must be non-blank.
func NewRuntime(credential string, cfg agent.Config, opts ...Option) (*Runtime, error) {
	if strings.TrimSpace(credential) == "" {
		return nil, agent.ErrMissingCredential
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rc := RuntimeConfig{Recent: DefaultRecent}
	for _, opt := range opts {
		opt(&rc)
	}

	r := &Runtime{
		credential:    credential,
		cfg:           cfg,
		planner:       rc.Planner,
		authenticator: rc.Authenticator,
		journal:       rc.Journal,
		recent:        rc.Recent,
		metrics:       rc.Metrics,
		tracer:        rc.Tracer,
		sink:          rc.LogSink,
		executor:      rc.Executor,
		workers:       make(map[string]*worker.Worker, len(cfg.Workers)),
	}

	// Set defaults
	if r.planner == nil {
		r.planner = planner.NewRulePlanner()
	}
	if r.authenticator == nil {
		r.authenticator = auth.NewLocalAuthenticator()
	}
	if r.journal == nil {
		r.journal = memory.NewJournalStore()
		r.ownsJournal = true
	}
	if r.recent < 0 {
		r.recent = 0
	}
	if r.metrics == nil {
		r.metrics = telemetry.NoopMetrics{}
	}
	if r.tracer == nil {
		r.tracer = otel.Tracer("agentshell")
	}
	if r.sink == nil {
		r.sink = logging.Discard
	}
	if r.executor == nil {
		r.executor = resilience.NewExecutor(resilience.DefaultExecutorConfig())
	}

	for _, w := range cfg.Workers {
		r.workers[w.ID()] = w
	}

	pipeline := r.defaultPipeline()
	for i, m := range rc.Middleware {
		pipeline.Append(fmt.Sprintf("custom-%d", i+1), m)
	}
	r.handler = pipeline.Handler(middleware.Execute)

	logging.Debug().
		Add(logging.AgentName(cfg.Name)).
		Add(logging.Str("pipeline", strings.Join(pipeline.Names(), ","))).
		Msg("action pipeline built")

	return r, nil
}

// defaultPipeline wraps every action call. Journal recording sits outside
// validation so rejected calls are journaled too.
func (r *Runtime) defaultPipeline() *middleware.Pipeline {
	tracing := inframw.DefaultTracingConfig()
	tracing.Tracer = r.tracer

	return middleware.NewPipeline(
		middleware.Layer{Name: "recover", Middleware: inframw.Recover()},
		middleware.Layer{Name: "journal", Middleware: inframw.JournalRecording(inframw.JournalConfig{Store: r.journal})},
		middleware.Layer{Name: "logging", Middleware: inframw.Logging(inframw.LoggingConfig{})},
		middleware.Layer{Name: "tracing", Middleware: inframw.Tracing(tracing)},
		middleware.Layer{Name: "metrics", Middleware: inframw.Metrics(inframw.MetricsConfig{Provider: r.metrics})},
		middleware.Layer{Name: "validation", Middleware: inframw.Validation()},
	)
}

// Name returns the agent name.
func (r *Runtime) Name() string {
	return r.cfg.Name
}

// Init authenticates the credential. It succeeds at most once.
func (r *Runtime) Init(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		return agent.ErrAlreadyInitialized
	}

	var session auth.Session
	err := r.executor.Execute(ctx, func(ctx context.Context) error {
		s, err := r.authenticator.Authenticate(ctx, r.credential)
		session = s
		return err
	})
	if err != nil {
		logging.Error().
			Add(logging.AgentName(r.cfg.Name)).
			Add(logging.ErrorField(err)).
			Msg("agent init failed")
		return fmt.Errorf("init agent %s: %w", r.cfg.Name, err)
	}

	r.session = session
	r.initialized = true

	logging.Info().
		Add(logging.AgentName(r.cfg.Name)).
		Add(logging.Goal(r.cfg.Goal)).
		Add(logging.Int("workers", len(r.cfg.Workers))).
		Add(logging.Str("session_expires", expiryString(session))).
		Msg("agent initialized")
	return nil
}

// Session returns the session established by Init. It is the zero value
// before a successful Init.
func (r *Runtime) Session() auth.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session
}

func expiryString(s auth.Session) string {
	if s.ExpiresAt.IsZero() {
		return "never"
	}
	return s.ExpiresAt.Format(time.RFC3339)
}

// warnIfExpired logs once when the session outlives its expiry. Ticks keep
// running; the runtime does not re-authenticate.
func (r *Runtime) warnIfExpired(now time.Time) bool {
	if !r.Session().Expired(now) {
		return false
	}
	r.expiryOnce.Do(func() {
		logging.Warn().
			Add(logging.AgentName(r.cfg.Name)).
			Add(logging.Str("session_expires", expiryString(r.Session()))).
			Msg("agent session expired")
	})
	return true
}

func (r *Runtime) isInitialized() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.initialized
}

// Run ticks immediately and then once per interval until ctx is cancelled.
// Tick failures are logged and never end the loop.
func (r *Runtime) Run(ctx context.Context, interval time.Duration, opts agent.RunOptions) error {
	if !r.isInitialized() {
		return agent.ErrNotInitialized
	}
	if interval <= 0 {
		return agent.ErrInvalidInterval
	}

	logging.Info().
		Add(logging.AgentName(r.cfg.Name)).
		Add(logging.Duration(interval)).
		Msg("run started")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for ctx.Err() == nil {
		r.tick(ctx, opts)

		select {
		case <-ctx.Done():
		case <-ticker.C:
		}
	}

	logging.Info().
		Add(logging.AgentName(r.cfg.Name)).
		Add(logging.Tick(r.ticks.Load())).
		Msg("run stopped")
	return nil
}

func (r *Runtime) tick(ctx context.Context, opts agent.RunOptions) {
	n := r.ticks.Add(1)
	start := time.Now()
	r.warnIfExpired(start)

	ctx, span := r.tracer.Start(ctx, "agent.tick", trace.WithAttributes(
		attribute.String("agent.name", r.cfg.Name),
		attribute.Int64("agent.tick", n),
	))
	defer span.End()

	planSize := 0
	err := r.executor.Execute(ctx, func(ctx context.Context) error {
		req, err := r.request(ctx, agent.ModeTick, "", r.cfg.Workers)
		if err != nil {
			return err
		}
		if opts.Verbose {
			r.sink(fmt.Sprintf("Tick %d state: %v", n, map[string]any(req.State)))
		}

		plan, err := r.plan(ctx, req)
		if err != nil {
			return err
		}
		planSize = len(plan)
		if opts.Verbose && plan.IsIdle() {
			r.sink(fmt.Sprintf("Tick %d: nothing to do", n))
		}

		return r.execute(ctx, plan, executeParams{
			mode:    agent.ModeTick,
			workers: r.workers,
			verbose: opts.Verbose,
		})
	})

	duration := time.Since(start)
	r.metrics.RecordTick(ctx, r.cfg.Name, planSize, err, duration)

	if err != nil {
		if ctx.Err() != nil {
			return
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logging.Error().
			Add(logging.AgentName(r.cfg.Name)).
			Add(logging.Tick(n)).
			Add(logging.ErrorField(err)).
			Msg("tick failed")
		if opts.Verbose {
			r.sink(fmt.Sprintf("Tick %d failed: %v", n, err))
		}
		return
	}

	logging.Debug().
		Add(logging.AgentName(r.cfg.Name)).
		Add(logging.Tick(n)).
		Add(logging.PlanSize(planSize)).
		Add(logging.Duration(duration)).
		Msg("tick completed")
}

// request snapshots state, worker environments and history for the planner.
func (r *Runtime) request(ctx context.Context, mode agent.Mode, task string, workers []*worker.Worker) (planner.PlanRequest, error) {
	state, err := r.cfg.ReadState(ctx)
	if err != nil {
		return planner.PlanRequest{}, err
	}

	views := make([]planner.WorkerView, 0, len(workers))
	for _, w := range workers {
		env, err := w.Environment(ctx)
		if err != nil {
			return planner.PlanRequest{}, err
		}
		views = append(views, planner.NewWorkerView(w, env))
	}

	history, err := r.journal.Recent(ctx, r.cfg.Name, r.recent)
	if err != nil {
		return planner.PlanRequest{}, fmt.Errorf("read journal: %w", err)
	}

	return planner.PlanRequest{
		Mode:        mode,
		AgentName:   r.cfg.Name,
		Goal:        r.cfg.Goal,
		Description: r.cfg.Description,
		Task:        task,
		State:       state,
		Workers:     views,
		History:     history,
	}, nil
}

func (r *Runtime) plan(ctx context.Context, req planner.PlanRequest) (agent.Plan, error) {
	start := time.Now()
	plan, err := r.planner.Plan(ctx, req)
	r.metrics.RecordPlanning(ctx, r.cfg.Name, req.Mode.String(), time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("plan %s: %w", req.Mode, err)
	}
	return plan, nil
}

type executeParams struct {
	mode    agent.Mode
	task    string
	workers map[string]*worker.Worker
	verbose bool
}

// execute runs the decisions in order. A decision naming an unknown worker
// or action is skipped and reported; the remaining decisions still run.
func (r *Runtime) execute(ctx context.Context, plan agent.Plan, p executeParams) error {
	var errs []error
	for _, d := range plan {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		w, ok := p.workers[d.WorkerID]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s", agent.ErrWorkerNotFound, d.WorkerID))
			continue
		}
		a, ok := w.Action(d.Action)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s.%s", ErrActionNotFound, d.WorkerID, d.Action))
			continue
		}

		if p.verbose {
			r.sink(fmt.Sprintf("Executing %s.%s: %s", d.WorkerID, d.Action, d.Reason))
		}

		result, err := r.handler(ctx, &middleware.ExecutionContext{
			AgentName: r.cfg.Name,
			WorkerID:  d.WorkerID,
			Action:    a,
			Args:      d.Args,
			Mode:      p.mode,
			Task:      p.task,
			Reason:    d.Reason,
			Log:       r.sink,
			Vars:      make(map[string]any),
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("%s.%s: %w", d.WorkerID, d.Action, err))
			continue
		}

		if p.verbose {
			r.sink(fmt.Sprintf("%s.%s %s: %s", d.WorkerID, d.Action, result.Status, result.Message))
		}
	}
	return errors.Join(errs...)
}

// Worker returns the task runner for a worker.
func (r *Runtime) Worker(id string) (agent.TaskRunner, error) {
	w, ok := r.workers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", agent.ErrWorkerNotFound, id)
	}
	return &taskRunner{runtime: r, worker: w}, nil
}

// Close releases the journal when the runtime created it.
func (r *Runtime) Close() error {
	if r.ownsJournal {
		return r.journal.Close()
	}
	return nil
}

type taskRunner struct {
	runtime *Runtime
	worker  *worker.Worker
}

// RunTask plans the task against this worker only and runs the plan.
func (t *taskRunner) RunTask(ctx context.Context, task string) error {
	r := t.runtime
	if !r.isInitialized() {
		return agent.ErrNotInitialized
	}

	taskID := uuid.NewString()
	start := time.Now()

	ctx, span := r.tracer.Start(ctx, "agent.task", trace.WithAttributes(
		attribute.String("agent.name", r.cfg.Name),
		attribute.String("agent.worker_id", t.worker.ID()),
		attribute.String("agent.task_id", taskID),
	))
	defer span.End()

	logging.Debug().
		Add(logging.AgentName(r.cfg.Name)).
		Add(logging.WorkerID(t.worker.ID())).
		Add(logging.TaskID(taskID)).
		Msg("task received")

	err := r.executor.Execute(ctx, func(ctx context.Context) error {
		req, err := r.request(ctx, agent.ModeTask, task, []*worker.Worker{t.worker})
		if err != nil {
			return err
		}
		plan, err := r.plan(ctx, req)
		if err != nil {
			return err
		}
		return r.execute(ctx, plan, executeParams{
			mode:    agent.ModeTask,
			task:    task,
			workers: map[string]*worker.Worker{t.worker.ID(): t.worker},
		})
	})

	duration := time.Since(start)
	r.metrics.RecordTask(ctx, r.cfg.Name, t.worker.ID(), err, duration)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logging.Warn().
			Add(logging.AgentName(r.cfg.Name)).
			Add(logging.WorkerID(t.worker.ID())).
			Add(logging.TaskID(taskID)).
			Add(logging.ErrorField(err)).
			Msg("task failed")
		return err
	}

	logging.Debug().
		Add(logging.AgentName(r.cfg.Name)).
		Add(logging.TaskID(taskID)).
		Add(logging.Duration(duration)).
		Msg("task completed")
	return nil
}
