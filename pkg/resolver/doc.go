/*
Package resolver implements the pure transition function at the heart of
a statemesh actor: Resolve(definition, state, context, event) returns an
Outcome.

Precedence is global-first: the definition's single global handler, if
set, is invoked for every event, and a non-nil result from it is final,
even a Stay, so the per-state handler is not consulted. When no global
handler is set, or it returns nil, the current state's own handler for
the event's tag runs. A nil result from the per-state handler is
treated as Stay; if the state declares no handler for the tag at all,
resolution yields NoMatch.

Resolve is pure: handlers receive an immutable Context/Event snapshot
and must not capture or mutate the running actor, so Resolve called
twice with equal inputs yields equal outputs.
*/
package resolver
