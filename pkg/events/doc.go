/*
Package events implements an actor's two independent fan-out channels:
snapshot observers and external emission listeners.

SnapshotObservers notifies every subscribed observer with the actor's new
snapshot after each Update/Goto and after sync_snapshot. Notification
iterates a copy of the observer set taken at call time, so a subscribe or
unsubscribe made from inside a callback never races the current pass and
only takes effect on the next one. An observer that panics is caught and
isolated; it never prevents the rest of the set from being notified.

Emitter dispatches to the listeners registered for one event tag,
synchronously, in the same pass that applies an Outcome's emissions
(after child-tree mutations, before actions). Unlike SnapshotObservers
it is a map keyed by tag, since listeners only care about emissions of
one kind.
*/
package events
