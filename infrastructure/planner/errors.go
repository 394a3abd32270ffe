package planner

import "errors"

// Planner errors.
var (
	// ErrNoChoices indicates the provider returned an empty completion.
	ErrNoChoices = errors.New("no choices in response")

	// ErrProviderStatus indicates the provider answered with a non-200 status.
	ErrProviderStatus = errors.New("provider returned an error status")

	// ErrInvalidPlan indicates the model answered with an unusable plan.
	ErrInvalidPlan = errors.New("invalid plan")

	// ErrUnknownProvider indicates the planner config names no usable planner.
	ErrUnknownProvider = errors.New("unknown planner provider")
)
