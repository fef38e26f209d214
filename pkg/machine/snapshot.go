package machine

// Snapshot is the (state, context) pair made visible to observers, plus
// the last event processed (nil before the first transition).
type Snapshot struct {
	State     State
	Context   Context
	LastEvent *Event
}

// Matches reports whether the snapshot's current state tag equals tag,
// a convenience for wait_for-style predicates.
func (s Snapshot) Matches(tag StateTag) bool {
	return s.State.Tag == tag
}
