package machine

import (
	"context"
	"time"
)

// Handler is a pure function from (context, event) to an Outcome. It
// receives an immutable snapshot of the context and must not capture or
// mutate the running actor. Returning nil from a per-state handler is
// treated as Stay (unchanged); returning nil from the global handler
// falls through to the per-state handler.
type Handler func(c Context, e Event) *Outcome

// EntryExitFunc runs as a forked, best-effort computation tied to a
// state's scope. Errors are caught and logged by the scheduler; they
// never transition the machine.
type EntryExitFunc func(ctx context.Context, c Context) error

// StreamFunc subscribes to a long-running sequence of events for as long
// as the owning state's scope is alive. Implementations should return
// promptly once ctx is cancelled.
type StreamFunc func(ctx context.Context, c Context) (<-chan Event, error)

// InvokeFunc runs once per state entry. On success it returns the
// Outcome to apply (provided the actor is still in the state that forked
// it); on error the scheduler synthesizes an internal $invoke.failure
// event, or $invoke.interrupt if the state's scope was cancelled. A panic
// inside the InvokeFunc becomes an $invoke.defect event.
type InvokeFunc func(ctx context.Context, c Context) (*Outcome, error)

// TaggedError lets an InvokeFunc failure carry a typed failure tag so
// states can declare per-tag $invoke.failure transitions.
type TaggedError interface {
	error
	FailureTag() Err
}

// RunConfig is a state's optional long-running computation: exactly one
// of Stream or Invoke should be set.
type RunConfig struct {
	Stream StreamFunc
	Invoke InvokeFunc
}

// AfterConfig schedules a delayed transition. Non-persistent delays are
// cancelled on state change; persistent delays are keyed by ID and
// survive transitions, replacing any prior delay sharing the same ID.
type AfterConfig struct {
	Delay       time.Duration
	MakeOutcome func(c Context) *Outcome
	Persistent  bool
	ID          string
}
