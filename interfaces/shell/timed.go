package shell

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/felixgeelhaar/agent-shell/domain/agent"
)

// MsgStarting is printed before the timed loop takes over.
const MsgStarting = "Starting agent..."

// Timed runs the agent autonomously on a fixed interval.
type Timed struct {
	Out      io.Writer
	Interval time.Duration
	Verbose  bool
}

// Drive implements Driver. It blocks until ctx is cancelled.
func (d Timed) Drive(ctx context.Context, a agent.Agent) error {
	out := d.Out
	if out == nil {
		out = os.Stdout
	}
	interval := d.Interval
	if interval == 0 {
		interval = agent.DefaultInterval
	}

	fmt.Fprintln(out, MsgStarting)
	return a.Run(ctx, interval, agent.RunOptions{Verbose: d.Verbose})
}
