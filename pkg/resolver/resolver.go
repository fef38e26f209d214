package resolver

import "github.com/cuemby/statemesh/pkg/machine"

// Resolve computes the Outcome of applying event to the actor currently
// in state, with context ctx, per definition's handler tables.
//
// Precedence (global first; a null result falls through):
//  1. If def.Global is set, invoke it. A non-nil result is final.
//  2. Otherwise look up state.Tag's StateConfig and its handler for
//     event.Tag. A nil result from a present handler is Stay. No handler
//     at all is NoMatch.
func Resolve(def *machine.Definition, state machine.State, ctx machine.Context, event machine.Event) *machine.Outcome {
	if def.Global != nil {
		if out := def.Global(ctx, event); out != nil {
			return out
		}
	}

	cfg := def.StateConfigFor(state.Tag)
	if cfg == nil || cfg.Handlers == nil {
		return machine.NoMatch()
	}

	handler, ok := cfg.Handlers[event.Tag]
	if !ok {
		return machine.NoMatch()
	}

	out := handler(ctx, event)
	if out == nil {
		return machine.Stay()
	}
	return out
}
