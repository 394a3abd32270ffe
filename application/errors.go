package application

import "errors"

// ErrActionNotFound is returned when a plan names an action its worker lacks.
var ErrActionNotFound = errors.New("action not found")
