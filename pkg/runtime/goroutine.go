package runtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cuemby/statemesh/pkg/machine"
)

// Runtime is the default EffectRuntime: every Fork launches a goroutine
// derived from the caller's context, and Interrupt cancels it. It
// requires no external dependency and is suitable for tests and for
// hosts that don't already have their own structured-concurrency layer.
type Runtime struct{}

// New returns the default goroutine-backed EffectRuntime.
func New() *Runtime { return &Runtime{} }

type handle struct {
	cancel context.CancelFunc
	done   chan struct{}
	mu     sync.Mutex
	err    error
}

func newHandle() *handle {
	return &handle{done: make(chan struct{})}
}

func (h *handle) Done() <-chan struct{} { return h.done }

func (h *handle) Interrupt() {
	if h.cancel != nil {
		h.cancel()
	}
}

func (h *handle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

func (h *handle) finish(err error) {
	h.mu.Lock()
	h.err = err
	h.mu.Unlock()
	close(h.done)
}

func (r *Runtime) Fork(ctx context.Context, fn func(ctx context.Context) error) Handle {
	forkCtx, cancel := context.WithCancel(ctx)
	h := newHandle()
	h.cancel = cancel

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				h.finish(fmt.Errorf("runtime: forked work panicked: %v", rec))
				return
			}
		}()
		err := fn(forkCtx)
		h.finish(err)
	}()

	return h
}

func (r *Runtime) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Runtime) StreamForEach(ctx context.Context, stream <-chan machine.Event, fn func(machine.Event)) Handle {
	return r.Fork(ctx, func(ctx context.Context) error {
		for {
			select {
			case e, ok := <-stream:
				if !ok {
					return nil
				}
				fn(e)
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})
}
