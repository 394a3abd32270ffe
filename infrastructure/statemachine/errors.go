package statemachine

import "errors"

// ErrTransitionRejected is returned when an event is not accepted in the
// current state.
var ErrTransitionRejected = errors.New("transition rejected")
