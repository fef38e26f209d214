package runtime

import (
	"context"
	"time"

	"github.com/cuemby/statemesh/pkg/machine"
)

// Handle represents one piece of forked work.
type Handle interface {
	// Done closes once the forked work has returned, whether normally,
	// on error, or after Interrupt.
	Done() <-chan struct{}
	// Interrupt cancels the forked work's context. Interrupt does not
	// block; callers that need to know the work has actually stopped
	// should select on Done.
	Interrupt()
	// Err returns the terminal error, if any, once Done has closed.
	// Interruption surfaces as context.Canceled.
	Err() error
}

// EffectRuntime is the pluggable async-execution collaborator: the only
// primitives the core depends on. ctx passed to Fork/StreamForEach
// is derived from the owning state scope; cancelling it is how the
// scheduler interrupts a state's run.
type EffectRuntime interface {
	// Fork runs fn on a background goroutine and returns a Handle tied
	// to ctx's cancellation.
	Fork(ctx context.Context, fn func(ctx context.Context) error) Handle

	// Sleep blocks until d elapses or ctx is cancelled, whichever first.
	Sleep(ctx context.Context, d time.Duration) error

	// StreamForEach consumes stream, invoking fn for each event, until
	// ctx is cancelled or stream closes. The returned Handle's Done
	// channel closes when consumption stops.
	StreamForEach(ctx context.Context, stream <-chan machine.Event, fn func(machine.Event)) Handle
}
