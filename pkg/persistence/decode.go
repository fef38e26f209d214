package persistence

import (
	"fmt"

	"github.com/cuemby/statemesh/pkg/codec"
	"github.com/cuemby/statemesh/pkg/machine"
	"github.com/cuemby/statemesh/pkg/metrics"
)

// EncodeRow builds the persisted Row for one actor tree using c to
// serialize the parent snapshot and every child snapshot.
func EncodeRow(c codec.Codec, id string, parent machine.Snapshot, children map[string]machine.Snapshot, updatedAtMillis int64) (Row, error) {
	parentValue, err := c.EncodeState(parent.State)
	if err != nil {
		return Row{}, fmt.Errorf("statemesh: encode parent state for %q: %w", id, err)
	}
	parentContext, err := c.EncodeContext(parent.Context)
	if err != nil {
		return Row{}, fmt.Errorf("statemesh: encode parent context for %q: %w", id, err)
	}

	childRows := make(map[string]ChildRow, len(children))
	for childID, snap := range children {
		value, err := c.EncodeState(snap.State)
		if err != nil {
			return Row{}, fmt.Errorf("statemesh: encode child %q state: %w", childID, err)
		}
		ctx, err := c.EncodeContext(snap.Context)
		if err != nil {
			return Row{}, fmt.Errorf("statemesh: encode child %q context: %w", childID, err)
		}
		childRows[childID] = ChildRow{Value: value, Context: ctx}
	}

	return Row{
		ID:             id,
		ParentValue:    parentValue,
		ParentContext:  parentContext,
		ChildSnapshots: childRows,
		UpdatedAt:      updatedAtMillis,
	}, nil
}

// DecodeRow is the inverse of EncodeRow. A *codec.DecodeError here is
// never fatal to a running actor, the caller decides whether to fall
// back to the initial state; DecodeErrorsTotal is incremented either
// way so the failure is observable.
func DecodeRow(c codec.Codec, row Row) (machine.Snapshot, map[string]machine.Snapshot, error) {
	state, err := c.DecodeState(row.ParentValue)
	if err != nil {
		metrics.DecodeErrorsTotal.WithLabelValues(row.ID).Inc()
		return machine.Snapshot{}, nil, fmt.Errorf("statemesh: decode parent state for %q: %w", row.ID, err)
	}
	ctx, err := c.DecodeContext(state.Tag, row.ParentContext)
	if err != nil {
		metrics.DecodeErrorsTotal.WithLabelValues(row.ID).Inc()
		return machine.Snapshot{}, nil, fmt.Errorf("statemesh: decode parent context for %q: %w", row.ID, err)
	}

	children := make(map[string]machine.Snapshot, len(row.ChildSnapshots))
	for childID, childRow := range row.ChildSnapshots {
		childState, err := c.DecodeState(childRow.Value)
		if err != nil {
			metrics.DecodeErrorsTotal.WithLabelValues(row.ID).Inc()
			return machine.Snapshot{}, nil, fmt.Errorf("statemesh: decode child %q state: %w", childID, err)
		}
		childCtx, err := c.DecodeContext(childState.Tag, childRow.Context)
		if err != nil {
			metrics.DecodeErrorsTotal.WithLabelValues(row.ID).Inc()
			return machine.Snapshot{}, nil, fmt.Errorf("statemesh: decode child %q context: %w", childID, err)
		}
		children[childID] = machine.Snapshot{State: childState, Context: childCtx}
	}

	return machine.Snapshot{State: state, Context: ctx}, children, nil
}
