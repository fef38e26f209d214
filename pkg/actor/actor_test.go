package actor

import (
	"testing"
	"time"

	"github.com/cuemby/statemesh/pkg/machine"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toggleDefinition() *machine.Definition {
	return &machine.Definition{
		Name:            "toggle",
		Initial:         machine.State{Tag: "Off"},
		InitialContext:  machine.Context{},
		EventVocabulary: []machine.EventTag{"Toggle"},
		States: map[machine.StateTag]*machine.StateConfig{
			"Off": {
				Handlers: map[machine.EventTag]machine.Handler{
					"Toggle": func(c machine.Context, e machine.Event) *machine.Outcome {
						return machine.Goto("On")
					},
				},
			},
			"On": {
				Handlers: map[machine.EventTag]machine.Handler{
					"Toggle": func(c machine.Context, e machine.Event) *machine.Outcome {
						return machine.Goto("Off")
					},
				},
			},
		},
	}
}

func waitForSnapshots(t *testing.T, ch chan machine.Snapshot, n int, timeout time.Duration) []machine.Snapshot {
	t.Helper()
	var got []machine.Snapshot
	deadline := time.After(timeout)
	for len(got) < n {
		select {
		case s := <-ch:
			got = append(got, s)
		case <-deadline:
			t.Fatalf("timed out waiting for %d snapshots, got %d", n, len(got))
		}
	}
	return got
}

func TestSimpleToggle(t *testing.T) {
	a, err := Interpret(toggleDefinition(), Options{Logger: zerolog.Nop()})
	require.NoError(t, err)
	defer a.Stop()

	notifications := make(chan machine.Snapshot, 8)
	a.Subscribe(func(s machine.Snapshot) { notifications <- s })

	a.Send(machine.Event{Tag: "Toggle"})
	a.Send(machine.Event{Tag: "Toggle"})

	snaps := waitForSnapshots(t, notifications, 2, time.Second)
	assert.Equal(t, machine.StateTag("On"), snaps[0].State.Tag)
	assert.Equal(t, machine.StateTag("Off"), snaps[1].State.Tag)
}

func TestUnhandledEventIsNoMatchAndDoesNotNotify(t *testing.T) {
	a, err := Interpret(toggleDefinition(), Options{Logger: zerolog.Nop()})
	require.NoError(t, err)
	defer a.Stop()

	notifications := make(chan machine.Snapshot, 4)
	a.Subscribe(func(s machine.Snapshot) { notifications <- s })

	a.Send(machine.Event{Tag: "NeverHandled"})
	time.Sleep(20 * time.Millisecond)

	select {
	case s := <-notifications:
		t.Fatalf("unexpected notification: %+v", s)
	default:
	}
}

func TestStopIsIdempotentAndSilencesObservers(t *testing.T) {
	a, err := Interpret(toggleDefinition(), Options{Logger: zerolog.Nop()})
	require.NoError(t, err)

	var calls int
	a.Subscribe(func(machine.Snapshot) { calls++ })

	a.Stop()
	assert.NotPanics(t, func() { a.Stop() })

	a.Send(machine.Event{Tag: "Toggle"})
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, calls)
}

func TestStrictStateMissingHandlerRejectedAtDefinitionTime(t *testing.T) {
	def := &machine.Definition{
		Name:            "strict-demo",
		Initial:         machine.State{Tag: "Idle"},
		EventVocabulary: []machine.EventTag{"A", "B", "C"},
		States: map[machine.StateTag]*machine.StateConfig{
			"Idle": {
				Strict: true,
				Handlers: map[machine.EventTag]machine.Handler{
					"A": func(machine.Context, machine.Event) *machine.Outcome { return machine.Stay() },
					"B": func(machine.Context, machine.Event) *machine.Outcome { return machine.Stay() },
				},
			},
		},
	}

	_, err := Interpret(def, Options{Logger: zerolog.Nop()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "C")
}

func TestWaitForReturnsImmediatelyWhenAlreadyMatching(t *testing.T) {
	a, err := Interpret(toggleDefinition(), Options{Logger: zerolog.Nop()})
	require.NoError(t, err)
	defer a.Stop()

	snap, err := a.WaitFor(t.Context(), func(s machine.Snapshot) bool {
		return s.State.Tag == "Off"
	})
	require.NoError(t, err)
	assert.Equal(t, machine.StateTag("Off"), snap.State.Tag)
}

func TestWaitForSuspendsUntilMatch(t *testing.T) {
	a, err := Interpret(toggleDefinition(), Options{Logger: zerolog.Nop()})
	require.NoError(t, err)
	defer a.Stop()

	done := make(chan machine.Snapshot, 1)
	go func() {
		snap, _ := a.WaitFor(t.Context(), func(s machine.Snapshot) bool {
			return s.State.Tag == "On"
		})
		done <- snap
	}()

	time.Sleep(10 * time.Millisecond)
	a.Send(machine.Event{Tag: "Toggle"})

	select {
	case snap := <-done:
		assert.Equal(t, machine.StateTag("On"), snap.State.Tag)
	case <-time.After(time.Second):
		t.Fatal("wait_for never resolved")
	}
}
