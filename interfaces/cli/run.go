package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/agent-shell/application"
	"github.com/felixgeelhaar/agent-shell/domain/action"
	"github.com/felixgeelhaar/agent-shell/domain/agent"
	"github.com/felixgeelhaar/agent-shell/domain/config"
	"github.com/felixgeelhaar/agent-shell/domain/worker"
	"github.com/felixgeelhaar/agent-shell/infrastructure/auth"
	"github.com/felixgeelhaar/agent-shell/infrastructure/logging"
	inframw "github.com/felixgeelhaar/agent-shell/infrastructure/middleware"
	"github.com/felixgeelhaar/agent-shell/interfaces/shell"
	"github.com/felixgeelhaar/agent-shell/pack/greeting"
)

// runOptions holds options for the run command.
type runOptions struct {
	configPath string
	interval   time.Duration
	verbose    bool
	dryRun     bool
}

// newRunCmd creates the run command.
func (a *App) newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the greeting agent on a fixed interval",
		Long: `Run the greeting agent autonomously. The first tick fires immediately,
then one tick per interval until the process is interrupted.

Examples:
  # Run with the built-in defaults (60s interval, verbose)
  agentshell run

  # Run from a config file with a faster tick
  agentshell run -c agentshell.yaml --interval 10s

  # Plan and log every action without executing it
  agentshell run --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAgent(cmd.Context(), opts, cmd.Flags().Changed("verbose"))
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().DurationVar(&opts.interval, "interval", 0, "Tick interval (overrides config)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Emit per-tick diagnostics (overrides config)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Log planned actions instead of executing them")

	return cmd
}

// runAgent bootstraps the agent and hands it to the timed driver.
func (a *App) runAgent(ctx context.Context, opts *runOptions, verboseSet bool) error {
	cfg, err := a.loadConfig(opts.configPath)
	if err != nil {
		return err
	}

	interval := cfg.Loop.Interval.Duration()
	if opts.interval > 0 {
		interval = opts.interval
	}
	verbose := cfg.Loop.Verbose
	if verboseSet {
		verbose = opts.verbose
	}

	var extra []application.Option
	if opts.dryRun {
		extra = append(extra, application.WithMiddleware(inframw.DryRun()))
	}

	sink := logging.BannerSink(a.stdout, cfg.Agent.Name)
	driver := shell.Timed{Out: a.stdout, Interval: interval, Verbose: verbose}

	return a.bootstrap(ctx, cfg, sink, driver, func(pc greeting.PackConfig) ([]*worker.Worker, error) {
		gw, err := greeting.GreetingWorker(pc)
		if err != nil {
			return nil, err
		}
		return []*worker.Worker{gw}, nil
	}, extra...)
}

// workersFunc builds the workers of an agent.
type workersFunc func(greeting.PackConfig) ([]*worker.Worker, error)

// bootstrap runs the shared startup sequence. Components and workers are
// built only once the credential has been read.
func (a *App) bootstrap(ctx context.Context, cfg *config.ShellConfig, sink action.LogFunc, driver shell.Driver, workers workersFunc, extra ...application.Option) error {
	var comps *components
	defer func() {
		if comps == nil {
			return
		}
		if err := comps.close(context.WithoutCancel(ctx)); err != nil {
			logging.Warn().Add(logging.ErrorField(err)).Msg("failed to release components")
		}
	}()

	b := shell.Bootstrap{
		Out:        a.stdout,
		Credential: auth.NewEnvSource(cfg.Agent.CredentialEnv),
		Build: func(credential string) (agent.Agent, error) {
			var err error
			if comps, err = a.newComponents(ctx, cfg); err != nil {
				return nil, err
			}

			tracker := greeting.NewTracker()
			ws, err := workers(greeting.PackConfig{Out: a.stdout, Tracker: tracker})
			if err != nil {
				return nil, err
			}
			return comps.runtime(credential, cfg, greeting.AgentConfig(cfg.Agent, tracker, ws...), sink, extra...)
		},
	}

	if err := b.Start(ctx, driver); err != nil {
		return fmt.Errorf("error running agent: %w", err)
	}
	return nil
}
