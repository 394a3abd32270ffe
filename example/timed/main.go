// Package main runs the greeting bot on a 60 second tick.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/felixgeelhaar/agent-shell/application"
	"github.com/felixgeelhaar/agent-shell/domain/agent"
	"github.com/felixgeelhaar/agent-shell/domain/config"
	"github.com/felixgeelhaar/agent-shell/infrastructure/auth"
	"github.com/felixgeelhaar/agent-shell/infrastructure/logging"
	"github.com/felixgeelhaar/agent-shell/interfaces/shell"
	"github.com/felixgeelhaar/agent-shell/pack/greeting"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	settings := config.Default().Agent

	b := shell.Bootstrap{
		Credential: auth.NewEnvSource(settings.CredentialEnv),
		Build: func(credential string) (agent.Agent, error) {
			// 1. Worker with the greet action
			tracker := greeting.NewTracker()
			gw, err := greeting.GreetingWorker(greeting.PackConfig{Out: os.Stdout, Tracker: tracker})
			if err != nil {
				return nil, err
			}

			// 2. Agent with its state and a banner logger
			cfg := greeting.AgentConfig(settings, tracker, gw)
			return application.NewRuntime(credential, cfg,
				application.WithLogSink(logging.BannerSink(os.Stdout, cfg.Name)))
		},
	}

	if err := b.Start(ctx, shell.Timed{Interval: 60 * time.Second, Verbose: true}); err != nil {
		fmt.Fprintln(os.Stderr, "Error running agent:", err)
		os.Exit(1)
	}
}
