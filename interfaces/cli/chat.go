package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/agent-shell/domain/worker"
	"github.com/felixgeelhaar/agent-shell/infrastructure/logging"
	"github.com/felixgeelhaar/agent-shell/interfaces/shell"
	"github.com/felixgeelhaar/agent-shell/pack/greeting"
)

// chatOptions holds options for the chat command.
type chatOptions struct {
	configPath string
	workerID   string
}

// newChatCmd creates the chat command.
func (a *App) newChatCmd() *cobra.Command {
	opts := &chatOptions{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Send each input line as a task to a worker",
		Long: `Start an interactive prompt. Every line is wrapped in the task template
and handed to the chat worker; type "exit" to quit.

Examples:
  agentshell chat
  agentshell chat -c agentshell.yaml --worker greeting_worker`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.chat(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().StringVar(&opts.workerID, "worker", "", "Worker receiving the tasks (overrides config)")

	return cmd
}

func (a *App) chat(ctx context.Context, opts *chatOptions) error {
	cfg, err := a.loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.workerID != "" {
		cfg.Prompt.Worker = opts.workerID
	}

	// Diagnostics stay off stdout so they do not interleave with the prompt.
	sink := logging.BoltSink(logging.Get(), cfg.Agent.Name)
	driver := shell.NewPrompt(cfg.Prompt, a.stdin, a.stdout)

	return a.bootstrap(ctx, cfg, sink, driver, func(pc greeting.PackConfig) ([]*worker.Worker, error) {
		cw, err := greeting.ChatWorker(pc)
		if err != nil {
			return nil, err
		}
		gw, err := greeting.GreetingWorker(pc)
		if err != nil {
			return nil, err
		}
		return []*worker.Worker{cw, gw}, nil
	})
}
