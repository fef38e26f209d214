package events

import (
	"sync"

	"github.com/cuemby/statemesh/pkg/machine"
	"github.com/rs/zerolog"
)

// SnapshotObserver is called with an actor's new snapshot after every
// successful Update/Goto and after sync_snapshot.
type SnapshotObserver func(machine.Snapshot)

// SnapshotObservers is the set of snapshot subscribers for one actor.
type SnapshotObservers struct {
	logger zerolog.Logger

	mu        sync.Mutex
	nextID    uint64
	observers map[uint64]SnapshotObserver
}

// NewSnapshotObservers creates an empty observer set.
func NewSnapshotObservers(logger zerolog.Logger) *SnapshotObservers {
	return &SnapshotObservers{
		logger:    logger,
		observers: make(map[uint64]SnapshotObserver),
	}
}

// Subscribe registers observer and returns an unsubscribe func. Safe to
// call from inside a Notify pass; the new observer is not included in
// the pass currently in flight.
func (s *SnapshotObservers) Subscribe(observer SnapshotObserver) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = observer
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// Notify calls every currently-subscribed observer with snap. Observers
// are snapshotted into a slice before iteration (no reentrancy into a
// live map, and no observer ever blocks another). A panicking observer
// is recovered and logged; it does not stop the remaining observers
// from being notified.
func (s *SnapshotObservers) Notify(snap machine.Snapshot) {
	s.mu.Lock()
	observers := make([]SnapshotObserver, 0, len(s.observers))
	for _, o := range s.observers {
		observers = append(observers, o)
	}
	s.mu.Unlock()

	for _, o := range observers {
		s.callOne(o, snap)
	}
}

func (s *SnapshotObservers) callOne(o SnapshotObserver, snap machine.Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Interface("panic", r).Msg("snapshot observer panicked")
		}
	}()
	o(snap)
}

// Len reports the current number of subscribed observers.
func (s *SnapshotObservers) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.observers)
}

// Clear removes every subscribed observer, used by an actor's stop() to
// guarantee no further callback fires after stop returns.
func (s *SnapshotObservers) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = make(map[uint64]SnapshotObserver)
}
