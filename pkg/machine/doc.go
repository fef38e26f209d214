/*
Package machine defines the value types shared by every layer of the
statemesh runtime: states, events, context, transition outcomes,
snapshots, and machine definitions.

# Architecture

	┌─────────────────────── DATA MODEL ────────────────────────┐
	│                                                             │
	│   State{Tag, Data}         Event{Tag, Payload}             │
	│        │                        │                          │
	│        └───────────┬────────────┘                          │
	│                    ▼                                       │
	│              Handler(ctx, event) → *Outcome                │
	│                    │                                        │
	│        ┌───────────┼────────────┬─────────────┐            │
	│        ▼           ▼            ▼             ▼            │
	│     NoMatch       Stay        Update         Goto          │
	│                                                             │
	│   Outcome bundles: ContextPatch, Actions, Emissions,        │
	│   Spawns, SendsToChildren, Despawns                        │
	└─────────────────────────────────────────────────────────────┘

A State is a tagged value: two states are equal in identity iff their
tags are equal, regardless of payload. Context is copy-on-write: every
update produces a new value via Patch, never a mutation of a held
reference. Outcome is the pure result of resolving one event against
one (state, context) pair; it carries no side effects of its own, only
a description of what the supervisor should do.
*/
package machine
