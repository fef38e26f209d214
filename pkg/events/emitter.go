package events

import (
	"sync"

	"github.com/cuemby/statemesh/pkg/machine"
	"github.com/rs/zerolog"
)

// Listener receives emissions published under the tag it was registered
// for.
type Listener func(machine.Emission)

// Emitter is an actor's external emission channel: on(tag, listener) →
// unsubscribe, dispatched synchronously during outcome application.
type Emitter struct {
	logger zerolog.Logger

	mu        sync.Mutex
	nextID    uint64
	listeners map[machine.EventTag]map[uint64]Listener
}

// NewEmitter creates an empty Emitter.
func NewEmitter(logger zerolog.Logger) *Emitter {
	return &Emitter{
		logger:    logger,
		listeners: make(map[machine.EventTag]map[uint64]Listener),
	}
}

// On registers listener for every emission tagged tag and returns an
// unsubscribe func.
func (e *Emitter) On(tag machine.EventTag, listener Listener) func() {
	e.mu.Lock()
	id := e.nextID
	e.nextID++
	set, ok := e.listeners[tag]
	if !ok {
		set = make(map[uint64]Listener)
		e.listeners[tag] = set
	}
	set[id] = listener
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if set, ok := e.listeners[tag]; ok {
			delete(set, id)
			if len(set) == 0 {
				delete(e.listeners, tag)
			}
		}
	}
}

// Emit dispatches emission to every listener registered for its tag,
// synchronously and in the order declared on an Outcome. A panicking
// listener is recovered and logged; it does not block delivery to the
// remaining listeners.
func (e *Emitter) Emit(emission machine.Emission) {
	e.mu.Lock()
	set := e.listeners[emission.Tag]
	listeners := make([]Listener, 0, len(set))
	for _, l := range set {
		listeners = append(listeners, l)
	}
	e.mu.Unlock()

	for _, l := range listeners {
		e.callOne(l, emission)
	}
}

// Clear removes every registered listener, used by an actor's stop() to
// guarantee no further listener fires after stop returns.
func (e *Emitter) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = make(map[machine.EventTag]map[uint64]Listener)
}

func (e *Emitter) callOne(l Listener, emission machine.Emission) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().Interface("panic", r).Str("tag", string(emission.Tag)).Msg("emission listener panicked")
		}
	}()
	l(emission)
}
