package poll

import (
	"context"
	"fmt"
	"slices"
	"time"
)

const (
	// DefaultTimeout bounds a single wait.
	DefaultTimeout = 600 * time.Second

	// DefaultInterval is the pause between two state fetches.
	DefaultInterval = 5 * time.Second
)

// FetchFunc returns the current state of the awaited resource.
type FetchFunc func(ctx context.Context) (string, error)

// Clock abstracts time so waits can be driven by a fake clock in tests.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

// SystemClock is the wall clock used when no other clock is configured.
var SystemClock Clock = realClock{}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Config holds wait configuration.
type Config struct {
	Timeout       time.Duration
	Interval      time.Duration
	Clock         Clock
	FailureStates []string
	OnPoll        func(attempt int, state string)
}

// Option is a functional option for wait configuration.
type Option func(*Config)

// WithTimeout sets the overall wait timeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.Timeout = d
		}
	}
}

// WithInterval sets the pause between fetches. Non-positive values are ignored.
func WithInterval(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.Interval = d
		}
	}
}

// WithClock replaces the wall clock.
func WithClock(clock Clock) Option {
	return func(c *Config) {
		if clock != nil {
			c.Clock = clock
		}
	}
}

// WithFailureStates lists states that end the wait immediately with a *StateError.
func WithFailureStates(states ...string) Option {
	return func(c *Config) {
		c.FailureStates = append(c.FailureStates, states...)
	}
}

// WithOnPoll registers a callback invoked after every successful fetch.
func WithOnPoll(fn func(attempt int, state string)) Option {
	return func(c *Config) {
		c.OnPoll = fn
	}
}

// AwaitState blocks until fetch reports target.
//
// The first fetch happens immediately, so a resource that is already in the
// target state returns without waiting. A fetch error aborts the wait and is
// returned wrapped; it is never retried. Once the elapsed time reaches the
// timeout a *TimeoutError is returned, which bounds the wait to
// timeout+interval. Cancelling ctx stops polling and leaves the remote
// resource alone.
func AwaitState(ctx context.Context, resourceID string, fetch FetchFunc, target string, opts ...Option) error {
	cfg := &Config{
		Timeout:  DefaultTimeout,
		Interval: DefaultInterval,
		Clock:    SystemClock,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	start := cfg.Clock.Now()

	for attempt := 1; ; attempt++ {
		state, err := fetch(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch state of %s: %w", resourceID, err)
		}

		if cfg.OnPoll != nil {
			cfg.OnPoll(attempt, state)
		}

		if state == target {
			return nil
		}

		if slices.Contains(cfg.FailureStates, state) {
			return &StateError{ResourceID: resourceID, State: state, Target: target}
		}

		elapsed := cfg.Clock.Now().Sub(start)
		if elapsed >= cfg.Timeout {
			return &TimeoutError{
				ResourceID: resourceID,
				Target:     target,
				LastState:  state,
				Elapsed:    elapsed,
			}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("wait for %s cancelled after %d attempts: %w", resourceID, attempt, ctx.Err())
		case <-cfg.Clock.After(cfg.Interval):
		}
	}
}
