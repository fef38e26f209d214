/*
Package codec defines the pluggable persistence boundary for statemesh
actors: encode/decode for State and Context, called only at save/load/
sync_snapshot time, never during normal event processing.

# Architecture

	┌───────────────────── CODEC BOUNDARY ──────────────────────┐
	│                                                             │
	│   Codec                                                    │
	│     EncodeState / DecodeState                              │
	│     EncodeContext / DecodeContext                          │
	│                                                             │
	│   FieldTransform chain (per state tag / context field)     │
	│     e.g. Date to/from integer millis                       │
	│                                                             │
	│   JSONCodec, the default implementation: encoding/json plus │
	│   a declared transform table                               │
	└─────────────────────────────────────────────────────────────┘

Unknown state tags or missing required fields during decode return a
DecodeError{Path, Reason}; the core never falls back to the initial
state on its own, the caller of Load/Restore decides.
*/
package codec
