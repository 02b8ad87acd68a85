package poll

import (
	"context"
	"fmt"
	"io"
	"time"

	"k8s.io/utils/clock"
)

// Budget bounds a wait-for-completion loop.
type Budget struct {
	Interval time.Duration `yaml:"interval"`
	Timeout  time.Duration `yaml:"timeout"`
}

// NewBudget builds a Budget from second counts.
func NewBudget(intervalSeconds, timeoutSeconds int) Budget {
	return Budget{
		Interval: time.Duration(intervalSeconds) * time.Second,
		Timeout:  time.Duration(timeoutSeconds) * time.Second,
	}
}

// Validate rejects budgets that would never terminate or never sleep.
func (b Budget) Validate() error {
	if b.Interval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", b.Interval)
	}
	if b.Timeout < 0 {
		return fmt.Errorf("poll timeout must not be negative, got %s", b.Timeout)
	}
	return nil
}

// Predicate reports whether the awaited condition holds.
type Predicate func(ctx context.Context) (bool, error)

// Result describes a successful wait.
type Result struct {
	Elapsed  time.Duration
	Attempts int
}

// Poller runs wait loops.
type Poller struct {
	clock    clock.Clock
	status   io.Writer
	observer func(label string)
}

// Option configures a Poller.
type Option func(*Poller)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c clock.Clock) Option {
	return func(p *Poller) {
		p.clock = c
	}
}

// WithStatusWriter sets where progress lines go. Nil disables them.
func WithStatusWriter(w io.Writer) Option {
	return func(p *Poller) {
		p.status = w
	}
}

// WithObserver registers a callback invoked once per predicate call.
func WithObserver(fn func(label string)) Option {
	return func(p *Poller) {
		p.observer = fn
	}
}

// New creates a Poller using the real clock and no status output.
func New(opts ...Option) *Poller {
	p := &Poller{clock: clock.RealClock{}}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WaitFor calls pred every budget.Interval until it returns true or
// budget.Timeout has elapsed. On timeout it returns a *TimeoutError.
// An error returned by pred ends the wait and is returned wrapped with the label.
func (p *Poller) WaitFor(ctx context.Context, budget Budget, label string, pred Predicate) (Result, error) {
	if pred == nil {
		return Result{}, fmt.Errorf("wait for %s: predicate is required", label)
	}
	return p.wait(ctx, budget, label, pred)
}

// WaitFixed blocks for the whole budget, reporting progress, and always
// succeeds unless ctx is cancelled. It exists for remote operations that
// expose no usable completion signal.
func (p *Poller) WaitFixed(ctx context.Context, budget Budget, label string) (Result, error) {
	return p.wait(ctx, budget, label, nil)
}

func (p *Poller) wait(ctx context.Context, budget Budget, label string, pred Predicate) (Result, error) {
	if err := budget.Validate(); err != nil {
		return Result{}, fmt.Errorf("wait for %s: %w", label, err)
	}

	line := NewStatusLine(p.status)
	defer line.Finish()

	start := p.clock.Now()
	res := Result{}

	for {
		if pred != nil {
			res.Attempts++
			if p.observer != nil {
				p.observer(label)
			}
			done, err := pred(ctx)
			res.Elapsed = p.clock.Since(start)
			if err != nil {
				return res, fmt.Errorf("wait for %s: %w", label, err)
			}
			if done {
				return res, nil
			}
		}

		res.Elapsed = p.clock.Since(start)
		if res.Elapsed >= budget.Timeout {
			if pred == nil {
				return res, nil
			}
			return res, &TimeoutError{Label: label, Elapsed: res.Elapsed, Timeout: budget.Timeout}
		}

		line.Update(label, res.Elapsed, budget.Timeout)

		sleep := budget.Interval
		if remaining := budget.Timeout - res.Elapsed; remaining < sleep {
			sleep = remaining
		}
		p.clock.Sleep(sleep)

		if err := ctx.Err(); err != nil {
			res.Elapsed = p.clock.Since(start)
			return res, fmt.Errorf("wait for %s interrupted: %w", label, err)
		}
	}
}
