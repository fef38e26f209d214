/*
Package runtime defines the pluggable async-execution boundary the
statemesh core depends on: fork, interrupt, sleep, and stream_for_each.
The core never assumes anything about how forked work is scheduled
beyond these four primitives, so a host application can substitute its
own EffectRuntime without touching the scheduler.

A default, goroutine-and-context.Context-backed implementation lives in
this package, generalizing the corpus's ticker/select/stopCh shutdown
idiom into a reusable Fork/Interrupt primitive.
*/
package runtime
