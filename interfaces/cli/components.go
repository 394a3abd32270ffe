package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/agent-shell/application"
	"github.com/felixgeelhaar/agent-shell/domain/action"
	"github.com/felixgeelhaar/agent-shell/domain/agent"
	"github.com/felixgeelhaar/agent-shell/domain/config"
	"github.com/felixgeelhaar/agent-shell/domain/journal"
	"github.com/felixgeelhaar/agent-shell/infrastructure/auth"
	infraconfig "github.com/felixgeelhaar/agent-shell/infrastructure/config"
	"github.com/felixgeelhaar/agent-shell/infrastructure/logging"
	"github.com/felixgeelhaar/agent-shell/infrastructure/planner"
	"github.com/felixgeelhaar/agent-shell/infrastructure/storage"
	"github.com/felixgeelhaar/agent-shell/infrastructure/telemetry"
)

// loadConfig loads .env, reads the file at path (or the defaults when path
// is empty) and installs the configured logger.
func (a *App) loadConfig(path string) (*config.ShellConfig, error) {
	if err := infraconfig.LoadDotEnv(); err != nil {
		return nil, err
	}

	cfg, err := infraconfig.NewLoader().LoadOrDefault(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: a.stderr,
	})
	return cfg, nil
}

// components are the runtime collaborators built from configuration.
type components struct {
	telemetry     *telemetry.Provider
	metrics       telemetry.Metrics
	journal       journal.Store
	planner       planner.Planner
	authenticator auth.Authenticator
}

func (a *App) newComponents(ctx context.Context, cfg *config.ShellConfig) (*components, error) {
	c := &components{}

	tp, err := telemetry.NewProvider(ctx, cfg.Telemetry,
		telemetry.WithServiceVersion(Version),
		telemetry.WithWriter(a.stderr),
		telemetry.WithGlobal())
	if err != nil {
		return nil, fmt.Errorf("failed to set up tracing: %w", err)
	}
	c.telemetry = tp

	metrics, err := telemetry.NewMetricsProvider(telemetry.DefaultMetricsConfig())
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to set up metrics: %w", err), c.close(ctx))
	}
	c.metrics = metrics

	if c.planner, err = planner.New(cfg.Planner); err != nil {
		return nil, errors.Join(err, c.close(ctx))
	}
	if c.authenticator, err = auth.New(cfg.Auth); err != nil {
		return nil, errors.Join(err, c.close(ctx))
	}
	if c.journal, err = storage.OpenJournal(cfg.Journal); err != nil {
		return nil, errors.Join(err, c.close(ctx))
	}

	return c, nil
}

// runtime assembles the agent runtime for a credential.
func (c *components) runtime(credential string, cfg *config.ShellConfig, agentCfg agent.Config, sink action.LogFunc, extra ...application.Option) (*application.Runtime, error) {
	opts := []application.Option{
		application.WithPlanner(c.planner),
		application.WithAuthenticator(c.authenticator),
		application.WithJournal(c.journal),
		application.WithRecent(cfg.Journal.Recent),
		application.WithMetrics(c.metrics),
		application.WithTracer(c.telemetry.Tracer("agentshell")),
		application.WithLogSink(sink),
	}
	return application.NewRuntime(credential, agentCfg, append(opts, extra...)...)
}

func (c *components) close(ctx context.Context) error {
	var errs []error
	if c.journal != nil {
		errs = append(errs, c.journal.Close())
	}
	if c.telemetry != nil {
		errs = append(errs, c.telemetry.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
