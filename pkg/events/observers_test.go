package events

import (
	"testing"

	"github.com/cuemby/statemesh/pkg/machine"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyReachesAllSubscribers(t *testing.T) {
	obs := NewSnapshotObservers(zerolog.Nop())
	var a, b int
	obs.Subscribe(func(machine.Snapshot) { a++ })
	obs.Subscribe(func(machine.Snapshot) { b++ })

	obs.Notify(machine.Snapshot{})

	assert.Equal(t, 1, a)
	assert.Equal(t, 1, b)
}

func TestUnsubscribeStopsFurtherNotifications(t *testing.T) {
	obs := NewSnapshotObservers(zerolog.Nop())
	var calls int
	unsubscribe := obs.Subscribe(func(machine.Snapshot) { calls++ })

	obs.Notify(machine.Snapshot{})
	unsubscribe()
	obs.Notify(machine.Snapshot{})

	assert.Equal(t, 1, calls)
}

func TestSubscribeDuringNotifyAppliesNextPass(t *testing.T) {
	obs := NewSnapshotObservers(zerolog.Nop())
	var later int

	obs.Subscribe(func(machine.Snapshot) {
		obs.Subscribe(func(machine.Snapshot) { later++ })
	})

	obs.Notify(machine.Snapshot{})
	assert.Equal(t, 0, later, "observer added mid-pass must not run in the same pass")

	obs.Notify(machine.Snapshot{})
	assert.Equal(t, 1, later)
}

func TestPanickingObserverIsIsolated(t *testing.T) {
	obs := NewSnapshotObservers(zerolog.Nop())
	var after bool
	obs.Subscribe(func(machine.Snapshot) { panic("boom") })
	obs.Subscribe(func(machine.Snapshot) { after = true })

	require.NotPanics(t, func() { obs.Notify(machine.Snapshot{}) })
	assert.True(t, after)
}

func TestObserversLen(t *testing.T) {
	obs := NewSnapshotObservers(zerolog.Nop())
	assert.Equal(t, 0, obs.Len())
	unsubscribe := obs.Subscribe(func(machine.Snapshot) {})
	assert.Equal(t, 1, obs.Len())
	unsubscribe()
	assert.Equal(t, 0, obs.Len())
}
