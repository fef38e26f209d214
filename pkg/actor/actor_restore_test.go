package actor

import (
	"testing"

	"github.com/cuemby/statemesh/pkg/machine"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestoreWithChildren(t *testing.T) {
	door := doorDefinition()
	parent := hamsterDefinition()

	restore := &machine.Snapshot{State: machine.State{Tag: "Running"}, Context: machine.Context{}}
	childSnapshots := map[string]*machine.Snapshot{
		"doorL": {State: machine.State{Tag: "On"}},
		"doorR": {State: machine.State{Tag: "Off"}},
	}
	childDefs := map[string]*machine.Definition{
		"doorL": door,
		"doorR": door,
	}

	a, err := Interpret(parent, Options{
		Snapshot:         restore,
		ChildSnapshots:   childSnapshots,
		ChildDefinitions: childDefs,
		Logger:           zerolog.Nop(),
	})
	require.NoError(t, err)
	defer a.Stop()

	assert.Equal(t, machine.StateTag("Running"), a.Snapshot().State.Tag)

	snaps := a.registry.Snapshots()
	require.Contains(t, snaps, "doorL")
	require.Contains(t, snaps, "doorR")
	assert.Equal(t, machine.StateTag("On"), snaps["doorL"].State.Tag)
	assert.Equal(t, machine.StateTag("Off"), snaps["doorR"].State.Tag)
}
