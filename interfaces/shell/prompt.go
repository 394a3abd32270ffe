package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/agent-shell/domain/agent"
	"github.com/felixgeelhaar/agent-shell/domain/config"
	"github.com/felixgeelhaar/agent-shell/domain/session"
	"github.com/felixgeelhaar/agent-shell/infrastructure/logging"
	"github.com/felixgeelhaar/agent-shell/infrastructure/statemachine"
)

// Prompt reads lines and forwards each one as a task to a single worker.
type Prompt struct {
	In  io.Reader
	Out io.Writer

	// WorkerID receives the tasks.
	WorkerID string

	// TaskTemplate wraps each line at config.InputPlaceholder.
	TaskTemplate string

	// Prompt is printed before every read.
	Prompt string

	// Farewell is printed when the user types exit.
	Farewell string
}

// NewPrompt creates a prompt driver from configuration.
func NewPrompt(cfg config.PromptConfig, in io.Reader, out io.Writer) Prompt {
	return Prompt{
		In:           in,
		Out:          out,
		WorkerID:     cfg.Worker,
		TaskTemplate: cfg.TaskTemplate,
		Prompt:       cfg.Prompt,
		Farewell:     cfg.Farewell,
	}
}

// Task renders the task text for an input line.
func Task(template, line string) string {
	if template == "" {
		return line
	}
	if !strings.Contains(template, config.InputPlaceholder) {
		return template + " " + line
	}
	return strings.ReplaceAll(template, config.InputPlaceholder, line)
}

// Drive implements Driver. It returns nil on exit or end of input. Task
// errors are printed and the loop continues.
func (d Prompt) Drive(ctx context.Context, a agent.Agent) error {
	in := d.In
	if in == nil {
		in = os.Stdin
	}
	out := d.Out
	if out == nil {
		out = os.Stdout
	}

	runner, err := a.Worker(d.WorkerID)
	if err != nil {
		return err
	}

	machine, err := statemachine.NewPromptMachine()
	if err != nil {
		return fmt.Errorf("build prompt machine: %w", err)
	}

	sess := session.New(uuid.NewString())
	interp := statemachine.NewInterpreter(machine, statemachine.NewContext(sess))
	interp.Start()
	defer interp.Stop()

	defer func() {
		logging.Debug().
			Add(logging.SessionID(sess.ID)).
			Add(logging.Int("turns", sess.Turns)).
			Add(logging.Int("failures", sess.Failures)).
			Msg("prompt session ended")
	}()

	reader := bufio.NewReader(in)
	for {
		if ctx.Err() != nil {
			return nil
		}

		fmt.Fprint(out, d.Prompt)
		line, ok, err := readLine(reader)
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		if !ok {
			if err := interp.EOF(); err != nil {
				return err
			}
			fmt.Fprintln(out)
			return nil
		}

		ev, err := interp.Line(line)
		if err != nil {
			return err
		}
		if ev == session.EventExit {
			if d.Farewell != "" {
				fmt.Fprintln(out, d.Farewell)
			}
			return nil
		}

		taskErr := runner.RunTask(ctx, Task(d.TaskTemplate, line))
		if taskErr != nil {
			fmt.Fprintf(out, "Error: %v\n", taskErr)
		}
		if err := interp.Settle(taskErr); err != nil {
			return err
		}
	}
}

// readLine reads one line of any length without its terminator. ok is false
// once input is exhausted; a final line without a newline is still returned.
func readLine(r *bufio.Reader) (line string, ok bool, err error) {
	line, err = r.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", false, err
		}
		if line == "" {
			return "", false, nil
		}
	}
	return strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r"), true, nil
}
