package stream

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/zoobzio/clockz"

	"github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/logger"
)

type state uint8

const (
	stateOpen state = iota
	stateClosed
)

// Option configures a stream handle.
type Option func(*options)

type options struct {
	name     string
	log      *logger.Logger
	observer Observer
	clock    clockz.Clock
}

// WithName labels the stream in logs and terminal events.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithLogger sets the logger used for terminal debug lines.
// Defaults to logger.Get("stream").
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithObserver sets an observer notified after the terminal call.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}

// WithClock sets the clock used to time terminal calls.
func WithClock(c clockz.Clock) Option {
	return func(o *options) { o.clock = c }
}

// handle is the state shared by Stream and AsyncStream: the ordered pending
// operations and the open/closed guard. It is not safe for concurrent use.
type handle[T any] struct {
	id    string
	ops   []Op[T]
	state state
	err   error
	opts  options
}

func newHandle[T any]() handle[T] {
	return handle[T]{
		id:   uuid.NewString(),
		opts: options{clock: clockz.RealClock},
	}
}

// ID returns the stream's unique identifier.
func (h *handle[T]) ID() string { return h.id }

// Closed reports whether a terminal call already ran.
func (h *handle[T]) Closed() bool { return h.state == stateClosed }

// Err returns the error recorded by a chaining call made on a consumed stream.
func (h *handle[T]) Err() error { return h.err }

func (h *handle[T]) apply(opts []Option) {
	if h.state == stateClosed {
		h.fail("configure")
		return
	}
	for _, opt := range opts {
		opt(&h.opts)
	}
	if h.opts.clock == nil {
		h.opts.clock = clockz.RealClock
	}
}

func (h *handle[T]) push(op Op[T]) {
	if h.state == stateClosed {
		h.fail(op.Kind.String())
		return
	}
	h.ops = append(h.ops, op)
}

func (h *handle[T]) fail(operation string) {
	if h.err == nil {
		h.err = errors.StreamConsumed(operation)
	}
}

// begin closes the handle and hands out the pending operations. The handle
// is closed before anything is composed, so a failing terminal call still
// consumes the stream.
func (h *handle[T]) begin(terminal string) ([]Op[T], error) {
	if h.state == stateClosed {
		return nil, errors.StreamConsumed(terminal)
	}
	h.state = stateClosed
	ops := h.ops
	h.ops = nil
	return ops, nil
}

// inherit copies configuration into a handle derived from this one.
func (h *handle[T]) inherit(o *options) {
	*o = h.opts
}

func (h *handle[T]) log() *logger.Logger {
	if h.opts.log != nil {
		return h.opts.log
	}
	return logger.Get("stream")
}

func (h *handle[T]) finish(ctx context.Context, ev TerminalEvent) {
	ev.StreamID = h.id
	ev.Name = h.opts.name
	ev.Duration = h.opts.clock.Now().Sub(ev.Start)

	fields := logger.Fields(
		logger.FieldStreamID, ev.StreamID,
		logger.FieldVariant, string(ev.Variant),
		logger.FieldTerminal, ev.Terminal,
		logger.FieldOps, ev.Ops,
		logger.FieldPulled, ev.Pulled,
		logger.FieldEmitted, ev.Emitted,
		logger.FieldDuration, ev.Duration.Milliseconds(),
	)
	if ev.Name != "" {
		fields[logger.FieldStream] = ev.Name
	}
	if ev.Err != nil {
		fields[logger.FieldError] = ev.Err.Error()
	}
	h.log().Debug("stream terminal finished", fields)

	if h.opts.observer != nil {
		h.opts.observer.ObserveTerminal(ctx, ev)
	}
}

func (h *handle[T]) now() time.Time { return h.opts.clock.Now() }
