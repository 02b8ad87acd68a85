package async

import (
	"context"
	"fmt"
)

// Task is a unit of work started by Go.
type Task[T any] struct {
	Name string

	done  chan struct{}
	value T
	err   error
}

// Go starts fn in its own goroutine. fn receives a context that keeps the
// values of ctx but is never cancelled, so the work is not torn down when
// the caller stops waiting for it. Use this for remote submissions that must
// be allowed to finish on their own.
func Go[T any](ctx context.Context, name string, fn func(context.Context) (T, error)) *Task[T] {
	t := &Task[T]{Name: name, done: make(chan struct{})}
	detached := context.WithoutCancel(ctx)

	go func() {
		defer close(t.done)
		defer func() {
			if r := recover(); r != nil {
				t.err = fmt.Errorf("task %s panicked: %v", name, r)
			}
		}()
		t.value, t.err = fn(detached)
	}()
	return t
}

// Wait blocks until the task finishes or ctx is done. In the latter case the
// task keeps running and ctx's error is returned.
func (t *Task[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		if t.err != nil {
			var zero T
			return zero, fmt.Errorf("%s: %w", t.Name, t.err)
		}
		return t.value, nil
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("stopped waiting for %s: %w", t.Name, ctx.Err())
	}
}

// Done is closed once the task has finished.
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}
