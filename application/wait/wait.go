// Package wait turns eventually-consistent page state into bounded,
// synchronous operations by polling a condition against the driver.
package wait

import (
	"context"
	"fmt"
	"time"

	"storefront_automation/domain/entities"
	"storefront_automation/domain/interfaces"
)

const (
	DefaultTimeout      = 10 * time.Second
	DefaultPollInterval = 500 * time.Millisecond
	DefaultShortTimeout = 2 * time.Second
)

// Config holds the wait budgets. It is built once from settings and passed
// explicitly to every wait; zero fields fall back to the defaults.
type Config struct {
	Timeout      time.Duration
	PollInterval time.Duration
	// ShortTimeout bounds checks that treat a timeout as a negative answer
	ShortTimeout time.Duration
}

// DefaultConfig - 10s timeout, 500ms poll, 2s short timeout
func DefaultConfig() Config {
	return Config{
		Timeout:      DefaultTimeout,
		PollInterval: DefaultPollInterval,
		ShortTimeout: DefaultShortTimeout,
	}
}

func (c Config) normalized() Config {
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.ShortTimeout == 0 {
		c.ShortTimeout = DefaultShortTimeout
	}
	return c
}

// Option overrides the budget of a single wait
type Option func(*budget)

type budget struct {
	timeout    time.Duration
	poll       time.Duration
	hasTimeout bool
	short      bool
}

// WithTimeout - overrides the timeout for one call. Zero or negative means
// evaluate once and fail immediately if unmet.
func WithTimeout(d time.Duration) Option {
	return func(b *budget) {
		b.timeout = d
		b.hasTimeout = true
	}
}

// WithPollInterval - overrides the poll interval for one call
func WithPollInterval(d time.Duration) Option {
	return func(b *budget) {
		if d > 0 {
			b.poll = d
		}
	}
}

// Short - uses the configured short timeout unless WithTimeout is also given
func Short() Option {
	return func(b *budget) { b.short = true }
}

// Resolve - returns the effective timeout and poll interval for a call
func (c Config) Resolve(opts ...Option) (time.Duration, time.Duration) {
	c = c.normalized()
	b := budget{poll: c.PollInterval}
	for _, opt := range opts {
		opt(&b)
	}
	switch {
	case b.hasTimeout:
		return b.timeout, b.poll
	case b.short:
		return c.ShortTimeout, b.poll
	default:
		return c.Timeout, b.poll
	}
}

// Condition is a side-effect free predicate over the driver's current state.
// Check returns the resolved value and whether the condition holds; an error
// means "not yet" and is kept only for diagnostics.
type Condition[T any] struct {
	Description string
	Check       func(ctx context.Context, d interfaces.Driver) (T, bool, error)
}

// Until polls cond until it holds or the timeout elapses.
//
// Every evaluation error is treated as "condition not yet met". A timeout of
// zero or less evaluates exactly once. Between attempts the full poll interval
// is slept, so a failing wait ends between timeout and timeout+poll interval.
// Cancelling ctx stops the wait early with the context error.
func Until[T any](ctx context.Context, d interfaces.Driver, cfg Config, cond Condition[T], opts ...Option) (T, error) {
	var zero T
	timeout, poll := cfg.Resolve(opts...)

	start := time.Now()
	deadline := start.Add(timeout)

	var (
		attempts int
		resolved bool
		lastErr  error
	)

	for {
		attempts++
		value, ok, err := cond.Check(ctx, d)
		switch {
		case err != nil:
			lastErr = err
		case ok:
			return value, nil
		default:
			resolved = true
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, fmt.Errorf("wait for %s canceled: %w", cond.Description, ctxErr)
		}

		now := time.Now()
		if !now.Before(deadline) {
			return zero, &entities.TimeoutError{
				Condition: cond.Description,
				Timeout:   timeout,
				Elapsed:   now.Sub(start),
				Attempts:  attempts,
				Resolved:  resolved,
				LastErr:   lastErr,
			}
		}

		timer := time.NewTimer(poll)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, fmt.Errorf("wait for %s canceled: %w", cond.Description, ctx.Err())
		case <-timer.C:
		}
	}
}
