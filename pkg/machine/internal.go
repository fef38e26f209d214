package machine

import "fmt"

// Reserved internal event tags. These never appear in a machine's own
// event vocabulary; they flow through the same mailbox as user events.
// $invoke.success and $after carry a DirectApply that the supervisor
// applies without consulting the user's handler map (see StateConfig.Run
// and StateConfig.After); $invoke.failure, $invoke.defect and
// $invoke.interrupt are resolved through the handler map like any other
// event, so states declare their own transitions for them.
const (
	TagTick            EventTag = "$tick"
	TagInvokeSuccess   EventTag = "$invoke.success"
	TagInvokeFailure   EventTag = "$invoke.failure"
	TagInvokeDefect    EventTag = "$invoke.defect"
	TagInvokeInterrupt EventTag = "$invoke.interrupt"
	TagAfter           EventTag = "$after"
	TagInit            EventTag = "$init"
	TagResume          EventTag = "$resume"
	TagSync            EventTag = "$sync"
)

// InvokeFailurePayload is the payload of a $invoke.failure event. Tag
// carries the typed failure tag declared by the failing invoke effect, if
// any, so states can declare per-tag transitions.
type InvokeFailurePayload struct {
	Tag Err
	Err error
}

// Err is a typed failure tag attached to an InvokeFailurePayload.
type Err string

// AfterPayload is the payload of a synthetic $after(target) event.
type AfterPayload struct {
	Target StateTag
}

func (p AfterPayload) String() string {
	return fmt.Sprintf("$after(%s)", p.Target)
}

// DirectApply wraps an Outcome that must bypass the resolver and be
// applied to the running actor as-is, used for $invoke.success (the
// invoke effect already produced the Outcome to apply) and for $after
// (MakeOutcome already produced it). Guard is the state tag that was
// current when the Outcome was produced; the supervisor applies it only
// if the actor is still in that state, since the effect that produced
// it may have been forked from a state the actor has since left.
// Unguarded skips that check entirely: a persistent after-delay is
// meant to fire no matter what state the actor is in by the time it
// expires, so its DirectApply carries Unguarded true instead of a
// Guard tag that would almost certainly no longer match.
type DirectApply struct {
	Guard     StateTag
	Unguarded bool
	Outcome   *Outcome
}
