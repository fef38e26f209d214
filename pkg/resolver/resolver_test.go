package resolver

import (
	"testing"

	"github.com/cuemby/statemesh/pkg/machine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func def(global machine.Handler, handlers map[machine.EventTag]machine.Handler) *machine.Definition {
	return &machine.Definition{
		Initial: machine.State{Tag: "Idle"},
		Global:  global,
		States: map[machine.StateTag]*machine.StateConfig{
			"Idle": {Handlers: handlers},
		},
	}
}

func TestResolveNoMatchWithoutHandler(t *testing.T) {
	d := def(nil, nil)
	out := Resolve(d, machine.State{Tag: "Idle"}, machine.Context{}, machine.Event{Tag: "Go"})
	require.NotNil(t, out)
	assert.True(t, machine.IsNoMatch(out))
}

func TestResolvePerStateHandlerNilIsStay(t *testing.T) {
	d := def(nil, map[machine.EventTag]machine.Handler{
		"Go": func(c machine.Context, e machine.Event) *machine.Outcome { return nil },
	})
	out := Resolve(d, machine.State{Tag: "Idle"}, machine.Context{}, machine.Event{Tag: "Go"})
	require.NotNil(t, out)
	assert.Equal(t, machine.KindStay, out.Kind)
}

func TestResolveGlobalHandlerIsFinalEvenOverPerState(t *testing.T) {
	d := def(
		func(c machine.Context, e machine.Event) *machine.Outcome {
			return machine.Goto("Done")
		},
		map[machine.EventTag]machine.Handler{
			"Go": func(c machine.Context, e machine.Event) *machine.Outcome { return machine.Goto("WrongTarget") },
		},
	)
	out := Resolve(d, machine.State{Tag: "Idle"}, machine.Context{}, machine.Event{Tag: "Go"})
	require.NotNil(t, out)
	assert.Equal(t, machine.StateTag("Done"), out.Target)
}

func TestResolveGlobalNilFallsThroughToPerState(t *testing.T) {
	d := def(
		func(c machine.Context, e machine.Event) *machine.Outcome { return nil },
		map[machine.EventTag]machine.Handler{
			"Go": func(c machine.Context, e machine.Event) *machine.Outcome { return machine.Goto("PerState") },
		},
	)
	out := Resolve(d, machine.State{Tag: "Idle"}, machine.Context{}, machine.Event{Tag: "Go"})
	require.NotNil(t, out)
	assert.Equal(t, machine.StateTag("PerState"), out.Target)
}
