// Package main forwards terminal input to the chat worker until "exit".
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/felixgeelhaar/agent-shell/application"
	"github.com/felixgeelhaar/agent-shell/domain/agent"
	"github.com/felixgeelhaar/agent-shell/domain/config"
	"github.com/felixgeelhaar/agent-shell/infrastructure/auth"
	"github.com/felixgeelhaar/agent-shell/interfaces/shell"
	"github.com/felixgeelhaar/agent-shell/pack/greeting"
)

func main() {
	defaults := config.Default()

	b := shell.Bootstrap{
		Credential: auth.NewEnvSource(defaults.Agent.CredentialEnv),
		Build: func(credential string) (agent.Agent, error) {
			tracker := greeting.NewTracker()
			cw, err := greeting.ChatWorker(greeting.PackConfig{Out: os.Stdout, Tracker: tracker})
			if err != nil {
				return nil, err
			}
			return application.NewRuntime(credential, greeting.AgentConfig(defaults.Agent, tracker, cw))
		},
	}

	driver := shell.NewPrompt(defaults.Prompt, os.Stdin, os.Stdout)
	if err := b.Start(context.Background(), driver); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
