package stream

import (
	"context"
	"time"
)

// Variant names the engine that ran a terminal call.
type Variant string

const (
	VariantSync  Variant = "sync"
	VariantAsync Variant = "async"
)

// TerminalEvent describes one finished terminal call.
type TerminalEvent struct {
	StreamID string
	Name     string
	Variant  Variant
	Terminal string
	// Ops is the number of pending operations that were composed.
	Ops int
	// Pulled counts elements taken from the source.
	Pulled int
	// Emitted counts elements that reached the terminal after all operations.
	Emitted  int
	Start    time.Time
	Duration time.Duration
	Err      error
}

// Observer receives an event after every terminal call, successful or not.
type Observer interface {
	ObserveTerminal(ctx context.Context, ev TerminalEvent)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, ev TerminalEvent)

func (f ObserverFunc) ObserveTerminal(ctx context.Context, ev TerminalEvent) { f(ctx, ev) }
