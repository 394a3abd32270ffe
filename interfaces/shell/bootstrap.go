// Package shell provides the startup sequence and the interaction drivers
// that sit on top of an agent.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/felixgeelhaar/agent-shell/domain/agent"
	"github.com/felixgeelhaar/agent-shell/infrastructure/auth"
	"github.com/felixgeelhaar/agent-shell/infrastructure/config"
	"github.com/felixgeelhaar/agent-shell/infrastructure/logging"
)

// Startup messages.
const (
	MsgInitializing = "Initializing agent..."
	MsgInitialized  = "Agent initialized successfully"
)

// ErrNoBuilder is returned when the bootstrap has nothing to build.
var ErrNoBuilder = errors.New("no agent builder configured")

// BuildFunc constructs the agent once a credential is known. It is the
// only place workers are created.
type BuildFunc func(credential string) (agent.Agent, error)

// Driver runs the interaction loop of an initialized agent.
type Driver interface {
	Drive(ctx context.Context, a agent.Agent) error
}

// DriverFunc adapts a function to the Driver interface.
type DriverFunc func(ctx context.Context, a agent.Agent) error

// Drive implements Driver.
func (f DriverFunc) Drive(ctx context.Context, a agent.Agent) error {
	return f(ctx, a)
}

// Bootstrap is the startup sequence shared by every driver.
type Bootstrap struct {
	// Out receives the plain status lines. Defaults to os.Stdout.
	Out io.Writer

	// DotEnv lists the files loaded before the credential is read. Nil
	// loads .env from the working directory; an empty slice loads nothing.
	DotEnv []string

	// Credential supplies the API credential.
	Credential auth.CredentialSource

	// Build constructs the agent.
	Build BuildFunc
}

// Start loads the environment, reads the credential, builds and
// initializes the agent, then hands it to the driver. A missing credential
// fails before anything is built or printed.
func (b Bootstrap) Start(ctx context.Context, driver Driver) error {
	out := b.Out
	if out == nil {
		out = os.Stdout
	}
	if b.Build == nil {
		return ErrNoBuilder
	}

	if b.DotEnv == nil {
		if err := config.LoadDotEnv(); err != nil {
			return err
		}
	} else if len(b.DotEnv) > 0 {
		if err := config.LoadDotEnv(b.DotEnv...); err != nil {
			return err
		}
	}

	source := b.Credential
	if source == nil {
		source = auth.NewEnvSource("GAME_API_KEY")
	}
	credential, err := source.Credential(ctx)
	if err != nil {
		if env, ok := source.(*auth.EnvSource); ok {
			return fmt.Errorf("please set %s in your .env file: %w", env.Name(), err)
		}
		return err
	}

	a, err := b.Build(credential)
	if err != nil {
		return fmt.Errorf("build agent: %w", err)
	}
	if c, ok := a.(io.Closer); ok {
		defer func() {
			if cerr := c.Close(); cerr != nil {
				logging.Warn().Add(logging.ErrorField(cerr)).Msg("failed to close agent")
			}
		}()
	}

	fmt.Fprintln(out, MsgInitializing)
	if err := a.Init(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, MsgInitialized)

	return driver.Drive(ctx, a)
}
