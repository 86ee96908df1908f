// Package dispatch runs remote commands against a store. A dispatched command
// applies its Submitted transition immediately, performs its task exactly once
// on its own goroutine and applies exactly one of Resolved or Rejected.
//
// There is no cancellation: an outcome is always applied, even when a newer
// command of the same kind started in the meantime, so the last command to
// resolve wins.
package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atinyakov/subwaymap/internal/client/store"
)

// Task is the remote part of a command.
type Task[T any] func(ctx context.Context) (T, error)

// Reducer is the transition a command applies to its store for every phase.
type Reducer[S, T any] func(S, store.Outcome[T]) S

// Dispatcher tracks in-flight commands and reports their outcomes.
type Dispatcher struct {
	log     *zap.Logger
	metrics MetricsRecorder
	wg      sync.WaitGroup
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger failures are reported to.
func WithLogger(log *zap.Logger) Option {
	return func(d *Dispatcher) {
		if log != nil {
			d.log = log
		}
	}
}

// WithMetrics sets the recorder command outcomes are observed by.
func WithMetrics(m MetricsRecorder) Option {
	return func(d *Dispatcher) {
		if m != nil {
			d.metrics = m
		}
	}
}

// New returns a Dispatcher that logs nowhere and records nothing unless
// configured otherwise.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{log: zap.NewNop(), metrics: NopRecorder{}}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Wait blocks until every dispatched command has applied its outcome.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Pending is the handle of a dispatched command.
type Pending[T any] struct {
	// ID correlates the command with its log lines.
	ID      string
	Command string

	done  chan struct{}
	value T
	err   error
}

// Done is closed once the outcome has been applied to the store.
func (p *Pending[T]) Done() <-chan struct{} {
	return p.done
}

// Result waits for the outcome and returns it.
func (p *Pending[T]) Result() (T, error) {
	<-p.done
	return p.value, p.err
}

// Await is Result bounded by ctx. Giving up waiting does not cancel the
// command; its outcome is still applied.
func (p *Pending[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-p.done:
		return p.value, p.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Dispatch submits command to st. The task runs with ctx; a ctx cancelled
// before the task finishes surfaces as a Rejected outcome like any other
// failure.
func Dispatch[S, T any](ctx context.Context, d *Dispatcher, st *store.Store[S], command string, task Task[T], reduce Reducer[S, T]) *Pending[T] {
	p := &Pending[T]{
		ID:      uuid.NewString(),
		Command: command,
		done:    make(chan struct{}),
	}

	st.Apply(func(s S) S { return reduce(s, store.Submitted[T]{}) })

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer close(p.done)

		start := time.Now()
		value, err := task(ctx)
		d.metrics.Observe(ctx, command, err == nil, time.Since(start))

		if err != nil {
			d.log.Warn("command failed",
				zap.String("command", command),
				zap.String("id", p.ID),
				zap.Error(err),
			)
			st.Apply(func(s S) S { return reduce(s, store.Rejected[T]{Err: err}) })
			p.err = err
			return
		}

		d.log.Debug("command succeeded",
			zap.String("command", command),
			zap.String("id", p.ID),
			zap.Duration("duration", time.Since(start)),
		)
		st.Apply(func(s S) S { return reduce(s, store.Resolved[T]{Value: value}) })
		p.value = value
	}()

	return p
}
