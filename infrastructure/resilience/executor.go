// Package resilience bounds how many runtime calls run at once using fortify.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/felixgeelhaar/fortify/bulkhead"
)

// ErrBusy is returned when a call is rejected because the executor is at
// capacity.
var ErrBusy = errors.New("executor busy")

// Executor runs calls behind a fortify bulkhead. It never retries and
// applies no timeout of its own.
type Executor struct {
	bulkhead bulkhead.Bulkhead[struct{}]
	limit    int
}

// ExecutorConfig configures the executor.
type ExecutorConfig struct {
	// MaxConcurrent limits concurrent calls.
	MaxConcurrent int
}

// DefaultExecutorConfig allows a single call in flight.
func DefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{MaxConcurrent: 1}
}

// NewExecutor creates a new executor.
func NewExecutor(config ExecutorConfig) *Executor {
	limit := config.MaxConcurrent
	if limit <= 0 {
		limit = 1
	}

	return &Executor{
		bulkhead: bulkhead.New[struct{}](bulkhead.Config{
			MaxConcurrent: limit,
		}),
		limit: limit,
	}
}

// Limit returns the configured concurrency limit.
func (e *Executor) Limit() int {
	return e.limit
}

// Execute runs fn once the bulkhead admits it. A rejection that happens
// before fn starts is reported as ErrBusy.
func (e *Executor) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	var ran atomic.Bool
	_, err := e.bulkhead.Execute(ctx, func(ctx context.Context) (struct{}, error) {
		ran.Store(true)
		return struct{}{}, fn(ctx)
	})
	if err == nil || ran.Load() {
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return fmt.Errorf("%w: %w", ErrBusy, err)
}
