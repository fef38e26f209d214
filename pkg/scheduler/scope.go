package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/cuemby/statemesh/pkg/runtime"
)

// closeGrace bounds how long Exit waits for tracked work to observe
// cancellation before giving up. Forked work is expected to be
// cooperative; this is a backstop against a misbehaving effect, not the
// normal path.
const closeGrace = 2 * time.Second

// scope is the structured-concurrency container for one state
// activation: every handle forked while the scope is alive is
// interrupted when the scope closes.
type scope struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	handles []runtime.Handle
}

func newScope(parent context.Context) *scope {
	ctx, cancel := context.WithCancel(parent)
	return &scope{ctx: ctx, cancel: cancel}
}

func (s *scope) track(h runtime.Handle) {
	s.mu.Lock()
	s.handles = append(s.handles, h)
	s.mu.Unlock()
}

// close cancels the scope and waits (bounded by closeGrace) for every
// tracked handle to reach its terminal: a run scope is interrupted and
// awaited to a cancelled terminal before the new state's entry is
// scheduled.
func (s *scope) close() {
	s.cancel()

	s.mu.Lock()
	handles := s.handles
	s.mu.Unlock()

	deadline := time.NewTimer(closeGrace)
	defer deadline.Stop()

	for _, h := range handles {
		select {
		case <-h.Done():
		case <-deadline.C:
			return
		}
	}
}
