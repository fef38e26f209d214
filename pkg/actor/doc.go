/*
Package actor is the Actor Supervisor: it owns one actor's mailbox,
resolver dispatch, effect scheduler, child registry, and
observer/emission fan-out, and applies an Outcome's effects in a fixed
order:

 1. form the new context by merging the outcome's patch
 2. publish the new snapshot and notify observers
 3. apply child-tree mutations: despawns, then spawns, then sends
 4. dispatch emissions
 5. run actions, in registration order
 6. if the state tag changed, exit the old state and enter the new one

Interpret constructs an actor from a Definition and Options, optionally
seeded from a restored snapshot and a map of child snapshots (spawned
before the parent's own initial entry runs). The returned Actor is the
only handle a caller needs: Send, Snapshot, Subscribe, On, WaitFor,
SyncSnapshot and Stop cover the whole public contract.
*/
package actor
