package persistence

import (
	"testing"

	"github.com/cuemby/statemesh/pkg/codec"
	"github.com/cuemby/statemesh/pkg/machine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerSaveLoadRoundTrip(t *testing.T) {
	store, err := NewBoltStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	mgr := NewManager(store, codec.NewJSONCodec(nil))

	parent := machine.Snapshot{
		State:   machine.State{Tag: "Running", Data: map[string]any{"speed": float64(3)}},
		Context: machine.Context{"attempts": float64(1)},
	}
	children := map[string]machine.Snapshot{
		"doorL": {
			State:   machine.State{Tag: "Open"},
			Context: machine.Context{},
		},
	}

	require.NoError(t, mgr.Save("hamster-1", parent, children, 1000))

	gotParent, gotChildren, ok, err := mgr.Load("hamster-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, machine.StateTag("Running"), gotParent.State.Tag)
	assert.Equal(t, float64(3), gotParent.State.Data["speed"])
	assert.Equal(t, float64(1), gotParent.Context["attempts"])
	require.Contains(t, gotChildren, "doorL")
	assert.Equal(t, machine.StateTag("Open"), gotChildren["doorL"].State.Tag)
}

func TestManagerLoadMissingIDReturnsNotFound(t *testing.T) {
	store, err := NewBoltStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	mgr := NewManager(store, codec.NewJSONCodec(nil))

	_, _, ok, err := mgr.Load("ghost")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestManagerLoadDecodeErrorIsReturnedNotSwallowed(t *testing.T) {
	store, err := NewBoltStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Save(Row{
		ID:          "broken",
		ParentValue: codec.SerializedState{}, // missing required "tag"
	}))

	mgr := NewManager(store, codec.NewJSONCodec(nil))
	_, _, ok, err := mgr.Load("broken")
	assert.True(t, ok)
	assert.Error(t, err)
}

func TestManagerDeleteRemovesRow(t *testing.T) {
	store, err := NewBoltStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	mgr := NewManager(store, codec.NewJSONCodec(nil))
	require.NoError(t, mgr.Save("x", machine.Snapshot{State: machine.State{Tag: "A"}, Context: machine.Context{}}, nil, 1))
	require.NoError(t, mgr.Delete("x"))

	_, _, ok, err := mgr.Load("x")
	require.NoError(t, err)
	assert.False(t, ok)
}
