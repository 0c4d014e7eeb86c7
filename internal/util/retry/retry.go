package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Config holds retry configuration.
type Config struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	// RetryIf decides whether an error is worth another attempt. Errors
	// wrapped with Fatal are never retried regardless.
	RetryIf func(error) bool
}

// Option is a functional option for retry configuration.
type Option func(*Config)

// DefaultConfig suits lookups made while a user waits on the command line:
// two retries, backing off from half a second.
func DefaultConfig() Config {
	return Config{
		MaxRetries:   2,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     4 * time.Second,
		Multiplier:   2.0,
	}
}

// Do calls operation until it succeeds, returns a fatal error, runs out of
// retries or ctx is done. The delay between attempts grows exponentially.
func Do[T any](ctx context.Context, operation func(context.Context) (T, error), opts ...Option) (T, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	var zero T
	delay := cfg.InitialDelay
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		v, err := operation(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if IsFatal(err) {
			return zero, err
		}
		if cfg.RetryIf != nil && !cfg.RetryIf(err) {
			return zero, err
		}

		if attempt < cfg.MaxRetries {
			select {
			case <-ctx.Done():
				return zero, fmt.Errorf("context cancelled after %d attempts: %w", attempt+1, errors.Join(ctx.Err(), lastErr))
			case <-time.After(delay):
				delay = time.Duration(float64(delay) * cfg.Multiplier)
				if delay > cfg.MaxDelay {
					delay = cfg.MaxDelay
				}
			}
		}
	}

	return zero, fmt.Errorf("operation failed after %d attempts: %w", cfg.MaxRetries+1, lastErr)
}

// Run is Do for operations without a result.
func Run(ctx context.Context, operation func(context.Context) error, opts ...Option) error {
	_, err := Do(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, operation(ctx)
	}, opts...)
	return err
}

// WithMaxRetries sets the maximum number of retries after the first attempt.
func WithMaxRetries(n int) Option {
	return func(c *Config) {
		c.MaxRetries = n
	}
}

// WithInitialDelay sets the initial delay between retries.
func WithInitialDelay(d time.Duration) Option {
	return func(c *Config) {
		c.InitialDelay = d
	}
}

// WithMaxDelay sets the maximum delay between retries.
func WithMaxDelay(d time.Duration) Option {
	return func(c *Config) {
		c.MaxDelay = d
	}
}

// WithRetryIf restricts retries to errors for which fn returns true.
func WithRetryIf(fn func(error) bool) Option {
	return func(c *Config) {
		c.RetryIf = fn
	}
}

// FatalError wraps an error to mark it as fatal (non-retryable).
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Fatal marks an error as non-retryable.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Err: err}
}

// IsFatal checks if an error is fatal (non-retryable).
func IsFatal(err error) bool {
	var fatalErr *FatalError
	return errors.As(err, &fatalErr)
}
