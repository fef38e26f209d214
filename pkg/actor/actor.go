package actor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cuemby/statemesh/pkg/events"
	"github.com/cuemby/statemesh/pkg/machine"
	"github.com/cuemby/statemesh/pkg/mailbox"
	"github.com/cuemby/statemesh/pkg/metrics"
	"github.com/cuemby/statemesh/pkg/persistence"
	"github.com/cuemby/statemesh/pkg/registry"
	"github.com/cuemby/statemesh/pkg/resolver"
	"github.com/cuemby/statemesh/pkg/runtime"
	"github.com/cuemby/statemesh/pkg/scheduler"
	"github.com/rs/zerolog"
)

// Options configures Interpret. A zero Options interprets definition
// fresh with a new default EffectRuntime and no parent.
type Options struct {
	// ID names this actor for persistence and metric labels. Defaults
	// to definition.Name when empty.
	ID string

	// Snapshot seeds the actor instead of definition.InitialSnapshot().
	Snapshot *machine.Snapshot

	// ChildSnapshots, if non-empty, is spawned before the actor's own
	// initial entry runs. ChildDefinitions supplies the definition to use
	// for each child id named in ChildSnapshots, since the restore
	// payload carries state, not which machine produced it.
	ChildSnapshots   map[string]*machine.Snapshot
	ChildDefinitions map[string]*machine.Definition

	// ParentSend, if set, is invoked by send_parent.
	ParentSend func(machine.Event)

	Runtime runtime.EffectRuntime
	Logger  zerolog.Logger
}

type waiter struct {
	predicate func(machine.Snapshot) bool
	ch        chan machine.Snapshot
}

// Actor is the running instance of a Definition.
type Actor struct {
	id     string
	def    *machine.Definition
	rt     runtime.EffectRuntime
	logger zerolog.Logger

	mailbox   *mailbox.Mailbox
	scheduler *scheduler.Scheduler
	registry  *registry.Registry
	observers *events.SnapshotObservers
	emitter   *events.Emitter

	mu       sync.Mutex
	snapshot machine.Snapshot
	stopped  bool

	waitersMu sync.Mutex
	waiters   []*waiter

	done chan struct{}
}

// Interpret constructs and starts an actor for definition: initialize
// snapshot, restore declared children, mark running, run the current
// state's entry sequence.
func Interpret(def *machine.Definition, opts Options) (*Actor, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	if opts.Runtime == nil {
		opts.Runtime = runtime.New()
	}

	id := opts.ID
	if id == "" {
		id = def.Name
	}

	a := &Actor{
		id:        id,
		def:       def,
		rt:        opts.Runtime,
		logger:    opts.Logger,
		observers: events.NewSnapshotObservers(opts.Logger),
		emitter:   events.NewEmitter(opts.Logger),
		done:      make(chan struct{}),
	}
	a.registry = registry.New(a.spawnChild, opts.ParentSend)
	a.registry.SetName(def.Name)
	a.scheduler = scheduler.NewNamed(def.Name, opts.Runtime, scheduler.Callbacks{Enqueue: a.enqueue}, opts.Logger)
	a.mailbox = mailbox.New(a.process)
	metrics.ActorsRunning.Inc()

	if opts.Snapshot != nil {
		a.snapshot = *opts.Snapshot
	} else {
		a.snapshot = *def.InitialSnapshot()
	}

	if len(opts.ChildSnapshots) > 0 {
		err := a.registry.RestoreAll(opts.ChildSnapshots, func(childID string) any {
			d, ok := opts.ChildDefinitions[childID]
			if !ok {
				return nil
			}
			return d
		}, nil, a.enqueue)
		if err != nil {
			return nil, err
		}
	}

	cfg := def.StateConfigFor(a.snapshot.State.Tag)
	a.scheduler.Enter(a.snapshot.State.Tag, cfg, a.snapshot.Context)

	return a, nil
}

// spawnChild is the registry.Spawner passed to this actor's Child
// Registry; definition is either a *machine.Definition (spawned
// directly) or a string naming one of this actor's ChildTypes.
func (a *Actor) spawnChild(childID string, definition any, restore *machine.Snapshot) (registry.Child, error) {
	childDef, err := a.resolveChildDefinition(definition)
	if err != nil {
		return nil, err
	}
	return Interpret(childDef, Options{
		Snapshot:   restore,
		ParentSend: a.enqueue,
		Runtime:    a.rt,
		Logger:     a.logger,
	})
}

func (a *Actor) resolveChildDefinition(definition any) (*machine.Definition, error) {
	switch d := definition.(type) {
	case *machine.Definition:
		return d, nil
	case string:
		ct, ok := a.def.ChildTypes[d]
		if !ok {
			return nil, fmt.Errorf("statemesh: unknown child type %q", d)
		}
		return ct.Definition, nil
	default:
		return nil, fmt.Errorf("statemesh: spawn: unsupported definition value %T", definition)
	}
}

func (a *Actor) enqueue(e machine.Event) {
	a.mailbox.Enqueue(e)
}

// Send enqueues event on the actor's mailbox. Non-blocking; silently
// dropped after Stop.
func (a *Actor) Send(e machine.Event) {
	a.mailbox.Enqueue(e)
}

// Snapshot returns the actor's latest snapshot. Never blocks.
func (a *Actor) Snapshot() machine.Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshot
}

// Subscribe registers observer and returns an unsubscribe func.
func (a *Actor) Subscribe(observer func(machine.Snapshot)) func() {
	return a.observers.Subscribe(observer)
}

// On registers listener for emissions tagged tag and returns an
// unsubscribe func.
func (a *Actor) On(tag machine.EventTag, listener events.Listener) func() {
	return a.emitter.On(tag, listener)
}

// WaitFor suspends until the next snapshot satisfying predicate, or
// returns the current snapshot immediately if it already does.
// Cancellable via ctx.
func (a *Actor) WaitFor(ctx context.Context, predicate func(machine.Snapshot) bool) (machine.Snapshot, error) {
	a.mu.Lock()
	cur := a.snapshot
	stopped := a.stopped
	a.mu.Unlock()

	if predicate(cur) {
		return cur, nil
	}
	if stopped {
		return machine.Snapshot{}, fmt.Errorf("statemesh: actor stopped")
	}

	w := &waiter{predicate: predicate, ch: make(chan machine.Snapshot, 1)}
	a.waitersMu.Lock()
	a.waiters = append(a.waiters, w)
	a.waitersMu.Unlock()
	defer a.removeWaiter(w)

	select {
	case snap := <-w.ch:
		return snap, nil
	case <-a.done:
		return machine.Snapshot{}, fmt.Errorf("statemesh: actor stopped")
	case <-ctx.Done():
		return machine.Snapshot{}, ctx.Err()
	}
}

func (a *Actor) removeWaiter(target *waiter) {
	a.waitersMu.Lock()
	defer a.waitersMu.Unlock()
	for i, w := range a.waiters {
		if w == target {
			a.waiters = append(a.waiters[:i], a.waiters[i+1:]...)
			return
		}
	}
}

func (a *Actor) notifyWaiters(snap machine.Snapshot) {
	a.waitersMu.Lock()
	var matched []*waiter
	remaining := a.waiters[:0]
	for _, w := range a.waiters {
		if w.predicate(snap) {
			matched = append(matched, w)
		} else {
			remaining = append(remaining, w)
		}
	}
	a.waiters = remaining
	a.waitersMu.Unlock()

	for _, w := range matched {
		w.ch <- snap
	}
}

// SyncSnapshot is the out-of-band replacement used for cross-process
// sync. If the state tag changed, the old state is exited and the new
// one entered; childSnapshots, if provided, is restored the same way
// Interpret restores children. Observers are notified with the new
// snapshot.
func (a *Actor) SyncSnapshot(newSnapshot machine.Snapshot, childSnapshots map[string]*machine.Snapshot, childDefinitions map[string]*machine.Definition) error {
	a.mu.Lock()
	cur := a.snapshot
	tagChanged := cur.State.Tag != newSnapshot.State.Tag
	a.snapshot = newSnapshot
	a.mu.Unlock()

	if tagChanged {
		oldCfg := a.def.StateConfigFor(cur.State.Tag)
		a.scheduler.Exit(cur.State.Tag, oldCfg, cur.Context)
		newCfg := a.def.StateConfigFor(newSnapshot.State.Tag)
		a.scheduler.Enter(newSnapshot.State.Tag, newCfg, newSnapshot.Context)
	}

	if len(childSnapshots) > 0 {
		err := a.registry.RestoreAll(childSnapshots, func(childID string) any {
			d, ok := childDefinitions[childID]
			if !ok {
				return nil
			}
			return d
		}, nil, a.enqueue)
		if err != nil {
			return err
		}
	}

	a.observers.Notify(newSnapshot)
	a.notifyWaiters(newSnapshot)
	return nil
}

// Stop is idempotent: it closes the current state scope, cascades stop
// depth-first to every child, clears observers and emission listeners,
// and drops pending mailbox entries. After Stop returns, no further
// observer callback or emission listener fires.
func (a *Actor) Stop() {
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return
	}
	a.stopped = true
	cur := a.snapshot
	a.mu.Unlock()

	a.mailbox.Stop()
	a.registry.StopAll()

	cfg := a.def.StateConfigFor(cur.State.Tag)
	a.scheduler.Exit(cur.State.Tag, cfg, cur.Context)
	a.scheduler.Stop()

	a.observers.Clear()
	a.emitter.Clear()
	close(a.done)
	metrics.ActorsRunning.Dec()
}

// Save persists this actor's current snapshot and every live child's
// snapshot through mgr, under this actor's ID.
func (a *Actor) Save(mgr *persistence.Manager) error {
	snap := a.Snapshot()
	children := a.registry.Snapshots()
	return mgr.Save(a.id, snap, children, time.Now().UnixMilli())
}

// Load fetches id's persisted row from mgr and builds the Options
// Interpret needs to restore it, resolving each child id's definition
// through childDefinitions. ok is false if nothing was ever saved under
// id.
func Load(mgr *persistence.Manager, id string, childDefinitions map[string]*machine.Definition) (Options, bool, error) {
	parent, children, ok, err := mgr.Load(id)
	if err != nil || !ok {
		return Options{}, ok, err
	}

	childSnapshots := make(map[string]*machine.Snapshot, len(children))
	for childID, snap := range children {
		snap := snap
		childSnapshots[childID] = &snap
	}

	return Options{
		ID:               id,
		Snapshot:         &parent,
		ChildSnapshots:   childSnapshots,
		ChildDefinitions: childDefinitions,
	}, true, nil
}

func (a *Actor) process(e machine.Event) {
	a.mu.Lock()
	cur := a.snapshot
	a.mu.Unlock()

	out := a.resolve(cur, e)
	if machine.IsNoMatch(out) {
		metrics.NoMatchTotal.WithLabelValues(a.def.Name, string(e.Tag)).Inc()
		return
	}
	a.apply(cur, e, out)
}

// resolve dispatches $invoke.success/$after DirectApply payloads
// straight past the resolver. A guarded DirectApply only applies if the
// actor is still in the state it was forked from; an unguarded one (a
// persistent after-delay) always applies, since it is meant to fire
// regardless of the actor's current state. Every other event, including
// $invoke.failure/defect/interrupt, goes through the normal resolver so
// user code can declare its own per-tag transitions.
func (a *Actor) resolve(cur machine.Snapshot, e machine.Event) *machine.Outcome {
	if e.Tag == machine.TagInvokeSuccess || e.Tag == machine.TagAfter {
		if da, ok := e.Payload.(machine.DirectApply); ok {
			if !da.Unguarded && da.Guard != cur.State.Tag {
				return machine.NoMatch()
			}
			return da.Outcome
		}
	}
	return a.resolveWithRecover(cur, e)
}

func (a *Actor) resolveWithRecover(cur machine.Snapshot, e machine.Event) (out *machine.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			metrics.HandlerPanicsTotal.WithLabelValues(a.def.Name).Inc()
			a.logger.Error().Interface("panic", r).Str("event", string(e.Tag)).Msg("handler panicked")
			out = machine.NoMatch()
		}
	}()
	return resolver.Resolve(a.def, cur.State, cur.Context, e)
}

// apply applies out's effects in a fixed order.
func (a *Actor) apply(cur machine.Snapshot, e machine.Event, out *machine.Outcome) {
	newContext := cur.Context.Merge(out.ContextPatch)

	newState := cur.State
	tagChanged := false
	if out.Kind == machine.KindGoto {
		newState = machine.State{Tag: out.Target}
		tagChanged = out.Target != cur.State.Tag
	}

	event := e
	newSnapshot := machine.Snapshot{State: newState, Context: newContext, LastEvent: &event}

	a.mu.Lock()
	a.snapshot = newSnapshot
	a.mu.Unlock()

	if out.Kind == machine.KindUpdate || out.Kind == machine.KindGoto {
		a.observers.Notify(newSnapshot)
		a.notifyWaiters(newSnapshot)
	}

	for _, id := range out.Despawns {
		a.registry.Despawn(id)
	}
	for _, sp := range out.Spawns {
		if err := a.registry.Spawn(sp.ChildID, sp.Definition, sp.RestoreSnapshot, sp.OnState, a.enqueue); err != nil {
			a.logger.Error().Err(err).Str("child_id", sp.ChildID).Msg("spawn failed")
		}
	}
	for _, s := range out.SendsToChildren {
		a.registry.SendTo(s.ChildID, s.Event)
	}

	for _, em := range out.Emissions {
		a.emitter.Emit(em)
	}

	for _, act := range out.Actions {
		a.runAction(act)
	}

	if tagChanged {
		metrics.TransitionsTotal.WithLabelValues(a.def.Name, string(newState.Tag)).Inc()
		oldCfg := a.def.StateConfigFor(cur.State.Tag)
		a.scheduler.Exit(cur.State.Tag, oldCfg, cur.Context)
		newCfg := a.def.StateConfigFor(newState.Tag)
		a.scheduler.Enter(newState.Tag, newCfg, newContext)
	}
}

func (a *Actor) runAction(act machine.Action) {
	defer func() {
		if r := recover(); r != nil {
			metrics.HandlerPanicsTotal.WithLabelValues(a.def.Name).Inc()
			a.logger.Error().Interface("panic", r).Msg("action panicked")
		}
	}()
	act()
}
