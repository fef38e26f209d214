/*
Package mailbox implements the single-consumer FIFO queue that serializes
event processing for one actor.

Enqueue appends to a slice-backed FIFO; a single consumer
pulls items in arrival order and runs the owner's processor against
each. If Enqueue is called while the consumer is already draining (for
example, from inside the processor callback itself, an action sending a
further event, or a stream delivering its next tick), the new item is
appended but no new consumer goroutine or recursive call is started: the
in-flight drain loop picks it up on its next iteration. This guarantees
strict per-actor serialization without unbounded stack growth.

Enqueue after Stop is dropped silently.
*/
package mailbox
