package action

import "errors"

// Domain errors for actions.
var (
	// ErrEmptyName indicates an action was created with an empty name.
	ErrEmptyName = errors.New("action name cannot be empty")

	// ErrNoHandler indicates an action was created without a handler.
	ErrNoHandler = errors.New("action has no handler")

	// ErrEmptyArgName indicates an argument was declared without a name.
	ErrEmptyArgName = errors.New("argument name cannot be empty")

	// ErrInvalidArgType indicates an argument was declared with an unknown type tag.
	ErrInvalidArgType = errors.New("invalid argument type")

	// ErrDuplicateArg indicates two arguments share a name.
	ErrDuplicateArg = errors.New("duplicate argument")

	// ErrInvalidArgs indicates args failed schema validation.
	ErrInvalidArgs = errors.New("invalid action arguments")

	// ErrPanicked indicates the handler panicked.
	ErrPanicked = errors.New("action panicked")
)
