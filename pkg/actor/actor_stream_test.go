package actor

import (
	"context"
	"testing"
	"time"

	"github.com/cuemby/statemesh/pkg/machine"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStreamDrivenAnimation exercises a run.stream state that ticks
// position upward until a terminal event moves the machine on, and
// asserts the stream is cancelled promptly once the state is left.
func TestStreamDrivenAnimation(t *testing.T) {
	stopped := make(chan struct{})

	def := &machine.Definition{
		Name:           "animation",
		Initial:        machine.State{Tag: "Opening"},
		InitialContext: machine.Context{"position": 0},
		States: map[machine.StateTag]*machine.StateConfig{
			"Opening": {
				Run: &machine.RunConfig{
					Stream: func(ctx context.Context, c machine.Context) (<-chan machine.Event, error) {
						out := make(chan machine.Event)
						go func() {
							defer close(out)
							defer close(stopped)
							t := time.NewTicker(time.Millisecond)
							defer t.Stop()
							for {
								select {
								case <-ctx.Done():
									return
								case <-t.C:
									select {
									case out <- machine.Event{Tag: "Tick", Payload: 10}:
									case <-ctx.Done():
										return
									}
								}
							}
						}()
						return out, nil
					},
				},
				Handlers: map[machine.EventTag]machine.Handler{
					"Tick": func(c machine.Context, e machine.Event) *machine.Outcome {
						pos, _ := c["position"].(int)
						delta, _ := e.Payload.(int)
						next := pos + delta
						if next > 100 {
							next = 100
						}
						return machine.Update(machine.WithPatch(machine.Patch{"position": next}))
					},
					"AnimationComplete": func(c machine.Context, e machine.Event) *machine.Outcome {
						return machine.Goto("Open")
					},
				},
			},
			"Open": {},
		},
	}

	a, err := Interpret(def, Options{Logger: zerolog.Nop()})
	require.NoError(t, err)
	defer a.Stop()

	snap, err := a.WaitFor(t.Context(), func(s machine.Snapshot) bool {
		pos, _ := s.Context["position"].(int)
		return pos >= 100
	})
	require.NoError(t, err)
	assert.Equal(t, 100, snap.Context["position"])

	a.Send(machine.Event{Tag: "AnimationComplete"})

	final, err := a.WaitFor(t.Context(), func(s machine.Snapshot) bool {
		return s.State.Tag == "Open"
	})
	require.NoError(t, err)
	assert.Equal(t, machine.StateTag("Open"), final.State.Tag)

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("tick stream was not cancelled on state exit")
	}
}
