package persistence

import (
	"github.com/cuemby/statemesh/pkg/codec"
	"github.com/cuemby/statemesh/pkg/machine"
	"github.com/cuemby/statemesh/pkg/metrics"
)

// Manager is the save/restore boundary a supervisor uses to persist and
// rehydrate an actor tree: it ties a Store to a Codec and times every
// round trip.
type Manager struct {
	store Store
	codec codec.Codec
}

// NewManager binds store and c together.
func NewManager(store Store, c codec.Codec) *Manager {
	return &Manager{store: store, codec: c}
}

// Save encodes the parent snapshot and every child snapshot and upserts
// the resulting Row, observing PersistenceSaveDuration.
func (m *Manager) Save(id string, parent machine.Snapshot, children map[string]machine.Snapshot, updatedAtMillis int64) error {
	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.PersistenceSaveDuration)

	row, err := EncodeRow(m.codec, id, parent, children, updatedAtMillis)
	if err != nil {
		return err
	}
	return m.store.Save(row)
}

// Load fetches id's row and decodes it. ok is false if nothing was ever
// saved under id; a decode failure is returned as an error (and counted
// in DecodeErrorsTotal by DecodeRow) rather than silently discarded, so
// the caller can choose whether to fall back to an initial snapshot.
func (m *Manager) Load(id string) (parent machine.Snapshot, children map[string]machine.Snapshot, ok bool, err error) {
	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.PersistenceLoadDuration)

	row, found, err := m.store.Load(id)
	if err != nil || !found {
		return machine.Snapshot{}, nil, found, err
	}
	parent, children, err = DecodeRow(m.codec, row)
	if err != nil {
		return machine.Snapshot{}, nil, true, err
	}
	return parent, children, true, nil
}

// Delete removes id's persisted row, if any.
func (m *Manager) Delete(id string) error {
	return m.store.Delete(id)
}
