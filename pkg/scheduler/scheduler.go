package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/cuemby/statemesh/pkg/machine"
	"github.com/cuemby/statemesh/pkg/metrics"
	"github.com/cuemby/statemesh/pkg/runtime"
	"github.com/rs/zerolog"
)

// Callbacks lets the scheduler re-enter the owning actor without
// depending on the actor package directly.
type Callbacks struct {
	// Enqueue delivers an event to the actor's mailbox (stream ticks,
	// $invoke.*, $after).
	Enqueue func(machine.Event)
}

// Scheduler forks and interrupts entry/exit effects, run streams/invokes,
// and after-delays on behalf of one actor.
type Scheduler struct {
	rt        runtime.EffectRuntime
	callbacks Callbacks
	logger    zerolog.Logger

	// name labels this scheduler's metrics with the owning machine's
	// name; empty is valid (label simply reads "").
	name string

	rootCtx    context.Context
	rootCancel context.CancelFunc

	mu         sync.Mutex
	cur        *scope
	curTag     machine.StateTag
	persistent map[string]runtime.Handle
}

// New creates a Scheduler. rt is the effect runtime used to fork/
// interrupt/sleep/stream; callbacks.Enqueue must deliver events back to
// the owning actor's mailbox.
func New(rt runtime.EffectRuntime, callbacks Callbacks, logger zerolog.Logger) *Scheduler {
	return NewNamed("", rt, callbacks, logger)
}

// NewNamed is New with an explicit machine name for metrics labels.
func NewNamed(name string, rt runtime.EffectRuntime, callbacks Callbacks, logger zerolog.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		rt:         rt,
		callbacks:  callbacks,
		logger:     logger,
		name:       name,
		rootCtx:    ctx,
		rootCancel: cancel,
		persistent: make(map[string]runtime.Handle),
	}
}

// Enter activates state tag's scope: forks its entry effect, starts its
// run (stream or invoke), and schedules its after-delay, if configured.
func (s *Scheduler) Enter(tag machine.StateTag, cfg *machine.StateConfig, ctx machine.Context) {
	sc := newScope(s.rootCtx)

	s.mu.Lock()
	s.cur = sc
	s.curTag = tag
	s.mu.Unlock()

	if cfg == nil {
		return
	}

	if cfg.Entry != nil {
		entry := cfg.Entry
		metrics.ForksTotal.WithLabelValues(s.name, "entry").Inc()
		h := s.rt.Fork(sc.ctx, func(fctx context.Context) error {
			if err := entry(fctx, ctx); err != nil {
				s.logger.Error().Err(err).Str("state", string(tag)).Msg("entry effect failed")
			}
			return nil
		})
		sc.track(h)
	}

	if cfg.Run != nil {
		s.startRun(sc, tag, cfg.Run, ctx)
	}

	if cfg.After != nil {
		s.scheduleAfter(sc, tag, cfg.After, ctx)
	}
}

func (s *Scheduler) startRun(sc *scope, tag machine.StateTag, run *machine.RunConfig, ctx machine.Context) {
	switch {
	case run.Stream != nil:
		stream, err := run.Stream(sc.ctx, ctx)
		if err != nil {
			metrics.StreamFailuresTotal.WithLabelValues(s.name).Inc()
			s.logger.Error().Err(err).Str("state", string(tag)).Msg("run stream failed to start")
			return
		}
		metrics.ForksTotal.WithLabelValues(s.name, "stream").Inc()
		h := s.rt.StreamForEach(sc.ctx, stream, func(e machine.Event) {
			s.callbacks.Enqueue(e)
		})
		sc.track(h)

	case run.Invoke != nil:
		invoke := run.Invoke
		metrics.ForksTotal.WithLabelValues(s.name, "invoke").Inc()
		h := s.rt.Fork(sc.ctx, func(fctx context.Context) (ferr error) {
			defer func() {
				if rec := recover(); rec != nil {
					metrics.InvokeOutcomesTotal.WithLabelValues(s.name, "defect").Inc()
					s.callbacks.Enqueue(machine.Event{Tag: machine.TagInvokeDefect, Payload: rec})
					ferr = fmt.Errorf("invoke defect: %v", rec)
				}
			}()

			out, err := invoke(fctx, ctx)
			if err != nil {
				if fctx.Err() != nil {
					metrics.InvokeOutcomesTotal.WithLabelValues(s.name, "interrupt").Inc()
					s.callbacks.Enqueue(machine.Event{Tag: machine.TagInvokeInterrupt})
					return err
				}
				metrics.InvokeOutcomesTotal.WithLabelValues(s.name, "failure").Inc()
				s.callbacks.Enqueue(machine.Event{
					Tag:     machine.TagInvokeFailure,
					Payload: invokeFailurePayload(err),
				})
				return err
			}
			metrics.InvokeOutcomesTotal.WithLabelValues(s.name, "success").Inc()
			s.callbacks.Enqueue(machine.Event{
				Tag: machine.TagInvokeSuccess,
				Payload: machine.DirectApply{
					Guard:   tag,
					Outcome: out,
				},
			})
			return nil
		})
		sc.track(h)
	}
}

func invokeFailurePayload(err error) machine.InvokeFailurePayload {
	if tagged, ok := err.(machine.TaggedError); ok {
		return machine.InvokeFailurePayload{Tag: tagged.FailureTag(), Err: err}
	}
	return machine.InvokeFailurePayload{Err: err}
}

func (s *Scheduler) scheduleAfter(sc *scope, tag machine.StateTag, after *machine.AfterConfig, ctx machine.Context) {
	id := after.ID
	if id == "" {
		id = string(tag)
	}

	fire := func(fctx context.Context) error {
		if err := s.rt.Sleep(fctx, after.Delay); err != nil {
			return err
		}
		out := after.MakeOutcome(ctx)
		s.callbacks.Enqueue(machine.Event{
			Tag:     machine.TagAfter,
			Payload: machine.DirectApply{Guard: tag, Unguarded: after.Persistent, Outcome: out},
		})
		return nil
	}

	if !after.Persistent {
		h := s.rt.Fork(sc.ctx, fire)
		sc.track(h)
		return
	}

	s.mu.Lock()
	if prior, ok := s.persistent[id]; ok {
		prior.Interrupt()
	}
	h := s.rt.Fork(s.rootCtx, fire)
	s.persistent[id] = h
	s.mu.Unlock()
}

// CancelPersistent interrupts a persistent after-timer by id, if one is
// scheduled.
func (s *Scheduler) CancelPersistent(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.persistent[id]; ok {
		h.Interrupt()
		delete(s.persistent, id)
	}
}

// Exit closes the current state's scope, interrupting and awaiting its
// run/entry/non-persistent-after work, then forks cfg.Exit detached.
// The scope closure is awaited; exit itself is never awaited.
func (s *Scheduler) Exit(tag machine.StateTag, cfg *machine.StateConfig, ctx machine.Context) {
	s.mu.Lock()
	sc := s.cur
	s.cur = nil
	s.mu.Unlock()

	if sc != nil {
		metrics.InterruptsTotal.WithLabelValues(s.name).Inc()
		sc.close()
	}

	if cfg == nil || cfg.Exit == nil {
		return
	}
	exit := cfg.Exit
	metrics.ForksTotal.WithLabelValues(s.name, "exit").Inc()
	s.rt.Fork(s.rootCtx, func(fctx context.Context) error {
		if err := exit(fctx, ctx); err != nil {
			s.logger.Error().Err(err).Str("state", string(tag)).Msg("exit effect failed")
		}
		return nil
	})
}

// Stop closes the current scope and cancels every persistent timer. It
// is idempotent.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	sc := s.cur
	s.cur = nil
	persistent := s.persistent
	s.persistent = make(map[string]runtime.Handle)
	s.mu.Unlock()

	if sc != nil {
		sc.close()
	}
	for _, h := range persistent {
		h.Interrupt()
	}
	s.rootCancel()
}

// CurrentTag reports the state tag the scheduler last entered. The
// fork-time "state hasn't changed" guard does not use it: that check
// compares a DirectApply's Guard with the actor's snapshot.
func (s *Scheduler) CurrentTag() machine.StateTag {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.curTag
}
