// Package action provides the domain model for callable agent actions.
package action

import (
	"context"
	"fmt"
	"runtime/debug"
)

// Action is a named operation the agent runtime can invoke on behalf of a worker.
type Action interface {
	// Name returns the identifier, unique within a worker.
	Name() string

	// Description tells the planner what the action does.
	Description() string

	// Args returns the ordered argument schema.
	Args() []Arg

	// Execute runs the action. It never returns an error and never panics:
	// every failure is reported as a Failed result.
	Execute(ctx context.Context, args Args, logf LogFunc) Result
}

// LogFunc is the logging handle passed to action handlers.
type LogFunc func(msg string)

// Handler is the function signature for action bodies.
type Handler func(ctx context.Context, args Args, logf LogFunc) (Result, error)

// Definition is the concrete implementation of Action.
type Definition struct {
	name           string
	description    string
	args           []Arg
	handler        Handler
	failureMessage string
}

// Name returns the action name.
func (d *Definition) Name() string {
	return d.name
}

// Description returns the action description.
func (d *Definition) Description() string {
	return d.description
}

// Args returns a copy of the argument schema.
func (d *Definition) Args() []Arg {
	out := make([]Arg, len(d.args))
	copy(out, d.args)
	return out
}

// Execute runs the handler, converting errors and panics into Failed results.
func (d *Definition) Execute(ctx context.Context, args Args, logf LogFunc) (result Result) {
	if logf == nil {
		logf = func(string) {}
	}
	if d.handler == nil {
		return d.failed(ErrNoHandler)
	}

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: %v", ErrPanicked, r)
			logf(fmt.Sprintf("action %s panicked: %v\n%s", d.name, r, debug.Stack()))
			result = d.failed(err)
		}
	}()

	res, err := d.handler(ctx, args, logf)
	if err != nil {
		return d.failed(err)
	}
	if res.Status == "" {
		res.Status = StatusDone
	}
	return res
}

func (d *Definition) failed(err error) Result {
	msg := d.failureMessage
	if msg == "" {
		msg = fmt.Sprintf("action %s failed", d.name)
	}
	return Failed(fmt.Sprintf("%s: %v", msg, err)).WithErr(err)
}

// Builder provides a fluent API for constructing actions.
type Builder struct {
	def *Definition
	err error
}

// NewBuilder creates a new action builder with the given name.
func NewBuilder(name string) *Builder {
	return &Builder{
		def: &Definition{name: name},
	}
}

// WithDescription sets the action description.
func (b *Builder) WithDescription(desc string) *Builder {
	if b.err != nil {
		return b
	}
	b.def.description = desc
	return b
}

// WithArg appends a required argument to the schema.
func (b *Builder) WithArg(name string, typ ArgType, description string) *Builder {
	return b.addArg(Arg{Name: name, Type: typ, Description: description})
}

// WithOptionalArg appends an optional argument to the schema.
func (b *Builder) WithOptionalArg(name string, typ ArgType, description string) *Builder {
	return b.addArg(Arg{Name: name, Type: typ, Description: description, Optional: true})
}

func (b *Builder) addArg(arg Arg) *Builder {
	if b.err != nil {
		return b
	}
	if arg.Name == "" {
		b.err = ErrEmptyArgName
		return b
	}
	if !arg.Type.IsValid() {
		b.err = fmt.Errorf("%w: %q", ErrInvalidArgType, arg.Type)
		return b
	}
	for _, existing := range b.def.args {
		if existing.Name == arg.Name {
			b.err = fmt.Errorf("%w: %s", ErrDuplicateArg, arg.Name)
			return b
		}
	}
	b.def.args = append(b.def.args, arg)
	return b
}

// WithFailureMessage sets the message prefix used when the handler fails.
func (b *Builder) WithFailureMessage(msg string) *Builder {
	if b.err != nil {
		return b
	}
	b.def.failureMessage = msg
	return b
}

// WithHandler sets the action body.
func (b *Builder) WithHandler(handler Handler) *Builder {
	if b.err != nil {
		return b
	}
	b.def.handler = handler
	return b
}

// Build constructs the action definition.
func (b *Builder) Build() (Action, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.def.name == "" {
		return nil, ErrEmptyName
	}
	return b.def, nil
}

// MustBuild constructs the action definition or panics on error.
func (b *Builder) MustBuild() Action {
	a, err := b.Build()
	if err != nil {
		panic(err)
	}
	return a
}
