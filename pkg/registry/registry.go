package registry

import (
	"sync"

	"github.com/cuemby/statemesh/pkg/machine"
	"github.com/cuemby/statemesh/pkg/metrics"
)

// Child is the subset of actor behavior the registry needs to own a
// spawned child, satisfied by *actor.Actor.
type Child interface {
	Send(machine.Event)
	Stop()
	Snapshot() machine.Snapshot
	Subscribe(func(machine.Snapshot)) func()
}

// Spawner constructs a Child for a child definition, optionally seeded
// from a restore snapshot. definition is either a *machine.Definition or
// a string naming one of the parent's declared child types; it is
// opaque here to avoid an import cycle with pkg/actor.
type Spawner func(childID string, definition any, restore *machine.Snapshot) (Child, error)

type entry struct {
	child       Child
	unsubscribe func()
}

// Registry owns every child actor spawned by one parent actor.
type Registry struct {
	spawnFn    Spawner
	parentSend func(machine.Event)

	// name labels this registry's metrics with the owning machine's
	// name; empty is valid (label simply reads "").
	name string

	mu       sync.Mutex
	children map[string]*entry
}

// New creates an empty Registry. parentSend is nil when the owning actor
// has no parent (send_parent becomes a no-op); spawnFn constructs a
// Child for a given definition.
func New(spawnFn Spawner, parentSend func(machine.Event)) *Registry {
	return &Registry{
		spawnFn:    spawnFn,
		parentSend: parentSend,
		children:   make(map[string]*entry),
	}
}

// SetName labels this registry's metrics with the owning machine's name.
func (r *Registry) SetName(name string) {
	r.name = name
}

// Spawn creates childID if it is not already present (idempotent). onState,
// if non-nil, is invoked with every snapshot the child publishes; its
// non-nil result is delivered via enqueue.
func (r *Registry) Spawn(childID string, definition any, restore *machine.Snapshot, onState func(childID string, snap machine.Snapshot) *machine.Event, enqueue func(machine.Event)) error {
	r.mu.Lock()
	if _, ok := r.children[childID]; ok {
		r.mu.Unlock()
		return nil
	}
	r.mu.Unlock()

	child, err := r.spawnFn(childID, definition, restore)
	if err != nil {
		return err
	}

	var unsubscribe func()
	if onState != nil && enqueue != nil {
		unsubscribe = child.Subscribe(func(snap machine.Snapshot) {
			if e := onState(childID, snap); e != nil {
				enqueue(*e)
			}
		})
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.children[childID]; ok {
		// Lost a race with a concurrent Spawn for the same id: keep the
		// winner, discard what we just built.
		if unsubscribe != nil {
			unsubscribe()
		}
		child.Stop()
		return nil
	}
	r.children[childID] = &entry{child: child, unsubscribe: unsubscribe}
	metrics.ChildrenSpawnedTotal.WithLabelValues(r.name).Inc()
	return nil
}

// RestoreAll spawns every child in snapshots before the parent's own
// initial entry runs. A child id for which definitionFor returns nil is
// skipped.
func (r *Registry) RestoreAll(snapshots map[string]*machine.Snapshot, definitionFor func(childID string) any, onState func(childID string, snap machine.Snapshot) *machine.Event, enqueue func(machine.Event)) error {
	for childID, snap := range snapshots {
		def := definitionFor(childID)
		if def == nil {
			continue
		}
		if err := r.Spawn(childID, def, snap, onState, enqueue); err != nil {
			return err
		}
	}
	return nil
}

// Despawn stops childID, unsubscribes, and removes its record. No-op if
// childID is absent.
func (r *Registry) Despawn(childID string) {
	r.mu.Lock()
	e, ok := r.children[childID]
	if ok {
		delete(r.children, childID)
	}
	r.mu.Unlock()

	if !ok {
		return
	}
	if e.unsubscribe != nil {
		e.unsubscribe()
	}
	e.child.Stop()
	metrics.ChildrenDespawnedTotal.WithLabelValues(r.name).Inc()
}

// SendTo routes event to childID. No-op if childID is absent.
func (r *Registry) SendTo(childID string, event machine.Event) {
	r.mu.Lock()
	e, ok := r.children[childID]
	r.mu.Unlock()
	if !ok {
		return
	}
	e.child.Send(event)
}

// SendParent routes event to the parent actor, if one was configured at
// interpret time.
func (r *Registry) SendParent(event machine.Event) {
	if r.parentSend != nil {
		r.parentSend(event)
	}
}

// Forward routes the event currently being processed to childID, sugar
// for SendTo(childID, currentEvent).
func (r *Registry) Forward(childID string, currentEvent machine.Event) {
	r.SendTo(childID, currentEvent)
}

// Snapshots returns the current snapshot of every live child, keyed by
// id, used to build a parent's own persisted Row.ChildSnapshots.
func (r *Registry) Snapshots() map[string]machine.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]machine.Snapshot, len(r.children))
	for id, e := range r.children {
		out[id] = e.child.Snapshot()
	}
	return out
}

// StopAll stops every child depth-first (each child's own Stop cascades
// to its descendants) and clears the registry. Idempotent.
func (r *Registry) StopAll() {
	r.mu.Lock()
	children := r.children
	r.children = make(map[string]*entry)
	r.mu.Unlock()

	for _, e := range children {
		if e.unsubscribe != nil {
			e.unsubscribe()
		}
		e.child.Stop()
	}
}
