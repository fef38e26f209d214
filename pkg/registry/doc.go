/*
Package registry is an actor's Child Registry: it owns every child actor
spawned by its parent, routes events to them by id, and forwards the
currently-processing event on demand.

The registry never constructs a child itself: that would require
importing the actor package, which imports registry to build its own
child registry, an import cycle. Instead the owning actor supplies a
Spawner closure at construction time; the registry only tracks the
resulting handles and their unsubscribe functions.

	Registry
	  spawn(id, definition, restore?)   idempotent on id
	  despawn(id)                      stop + unsubscribe + remove
	  send_to(id, event)                no-op if id absent
	  send_parent(event)                no-op if no parent configured
	  forward(id)                      send_to(id, <event being processed>)

RestoreAll seeds every entry in a child_snapshots map before the owning
actor's own initial entry runs.
*/
package registry
