package mailbox

import (
	"sync"

	"github.com/cuemby/statemesh/pkg/machine"
)

// Processor handles one dequeued event. It is invoked synchronously by
// the draining goroutine, never concurrently with itself.
type Processor func(machine.Event)

// Mailbox is a single-consumer FIFO queue with a reentrancy guard: a
// consumer already draining absorbs newly enqueued items into its own
// loop instead of recursing.
type Mailbox struct {
	mu       sync.Mutex
	queue    []machine.Event
	draining bool
	stopped  bool
	process  Processor
}

// New creates a Mailbox that invokes process for each dequeued event.
func New(process Processor) *Mailbox {
	return &Mailbox{process: process}
}

// Enqueue appends event to the queue. If no drain is currently in
// progress, Enqueue drains the queue itself (in the caller's goroutine)
// until empty. If a drain is already in progress, including when
// Enqueue is called from inside the processor (e.g. by an action or a
// stream tick), the event is appended and the in-flight drain picks it
// up; Enqueue returns immediately without recursing.
func (m *Mailbox) Enqueue(e machine.Event) {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.queue = append(m.queue, e)
	if m.draining {
		m.mu.Unlock()
		return
	}
	m.draining = true
	m.mu.Unlock()

	m.drain()
}

func (m *Mailbox) drain() {
	for {
		m.mu.Lock()
		if m.stopped || len(m.queue) == 0 {
			m.draining = false
			m.mu.Unlock()
			return
		}
		e := m.queue[0]
		m.queue = m.queue[1:]
		m.mu.Unlock()

		m.process(e)
	}
}

// Stop marks the mailbox stopped and drops any pending entries. Further
// Enqueue calls are silently ignored.
func (m *Mailbox) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
	m.queue = nil
}

// Len reports the number of events currently queued, for diagnostics.
func (m *Mailbox) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}
