// Package greeting provides the greeting bot's actions and workers.
package greeting

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/felixgeelhaar/agent-shell/domain/action"
	"github.com/felixgeelhaar/agent-shell/domain/agent"
	"github.com/felixgeelhaar/agent-shell/domain/config"
	"github.com/felixgeelhaar/agent-shell/domain/worker"
)

// Worker identifiers.
const (
	GreetingWorkerID = "greeting_worker"
	ChatWorkerID     = "chat_worker"
)

// DefaultMaxGreetings is the greeting capacity advertised by the greeting worker.
const DefaultMaxGreetings = 5

// PackConfig configures the greeting pack.
type PackConfig struct {
	// Out receives the user-facing lines. Defaults to os.Stdout.
	Out io.Writer

	// Tracker records sent greetings. A fresh tracker is used when nil.
	Tracker *Tracker

	// MaxGreetings is exposed in the greeting worker's environment.
	MaxGreetings int
}

// DefaultPackConfig returns default pack configuration.
func DefaultPackConfig() PackConfig {
	return PackConfig{
		Out:          os.Stdout,
		Tracker:      NewTracker(),
		MaxGreetings: DefaultMaxGreetings,
	}
}

func (c PackConfig) withDefaults() PackConfig {
	if c.Out == nil {
		c.Out = os.Stdout
	}
	if c.Tracker == nil {
		c.Tracker = NewTracker()
	}
	if c.MaxGreetings <= 0 {
		c.MaxGreetings = DefaultMaxGreetings
	}
	return c
}

// GreetAction prints a greeting and records it on the tracker.
func GreetAction(cfg PackConfig) action.Action {
	cfg = cfg.withDefaults()
	return action.NewBuilder("greet").
		WithDescription("Sends a greeting message").
		WithArg("message", action.TypeString, "The greeting message").
		WithFailureMessage("Failed to send greeting").
		WithHandler(func(_ context.Context, args action.Args, _ action.LogFunc) (action.Result, error) {
			msg := args.String("message")
			if _, err := fmt.Fprintf(cfg.Out, "Greeting: %s\n", msg); err != nil {
				return action.Result{}, err
			}
			cfg.Tracker.Record(msg)
			return action.Done("Greeting sent successfully"), nil
		}).
		MustBuild()
}

// RespondAction prints a reply to a user's message.
func RespondAction(cfg PackConfig) action.Action {
	cfg = cfg.withDefaults()
	return action.NewBuilder("respond").
		WithDescription("Responds to the user's message").
		WithArg("message", action.TypeString, "The message to respond to").
		WithFailureMessage("Failed to send response").
		WithHandler(func(_ context.Context, args action.Args, _ action.LogFunc) (action.Result, error) {
			msg := strings.TrimSpace(args.String("message"))
			reply := "I heard you, but you didn't say anything."
			if msg != "" {
				reply = fmt.Sprintf("You said: %s", msg)
			}
			if _, err := fmt.Fprintf(cfg.Out, "Agent: %s\n", reply); err != nil {
				return action.Result{}, err
			}
			return action.Done("Response sent successfully"), nil
		}).
		MustBuild()
}

// GreetingWorker creates the worker used by the timed loop.
func GreetingWorker(cfg PackConfig) (*worker.Worker, error) {
	cfg = cfg.withDefaults()
	return worker.New(worker.Config{
		ID:          GreetingWorkerID,
		Name:        "Greeting Worker",
		Description: "A worker that sends greetings",
		Actions:     []action.Action{GreetAction(cfg)},
		Environment: worker.StaticEnvironment(worker.Environment{
			"maxGreetings": cfg.MaxGreetings,
		}),
	})
}

// ChatWorker creates the worker used by the prompt loop.
func ChatWorker(cfg PackConfig) (*worker.Worker, error) {
	cfg = cfg.withDefaults()
	return worker.New(worker.Config{
		ID:          ChatWorkerID,
		Name:        "Chat Worker",
		Description: "A worker that responds to user messages and greets them",
		Actions:     []action.Action{RespondAction(cfg), GreetAction(cfg)},
		Environment: worker.StaticEnvironment(worker.Environment{
			"channel": "terminal",
		}),
	})
}

// AgentConfig assembles an agent from the configured identity, the tracker
// state and the given workers.
func AgentConfig(settings config.AgentSettings, tracker *Tracker, workers ...*worker.Worker) agent.Config {
	if tracker == nil {
		tracker = NewTracker()
	}
	return agent.Config{
		Name:        settings.Name,
		Goal:        settings.Goal,
		Description: settings.Description,
		State:       tracker.State,
		Workers:     workers,
	}
}
