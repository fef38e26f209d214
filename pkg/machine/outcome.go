package machine

// OutcomeKind discriminates the variants of Outcome (Design Notes:
// discriminated unions model as a tagged variant, not a class hierarchy).
type OutcomeKind int

const (
	// KindNoMatch means no handler applied; treated as Stay with empty
	// fields.
	KindNoMatch OutcomeKind = iota
	KindStay
	KindUpdate
	KindGoto
)

func (k OutcomeKind) String() string {
	switch k {
	case KindStay:
		return "stay"
	case KindUpdate:
		return "update"
	case KindGoto:
		return "goto"
	default:
		return "no_match"
	}
}

// Action is a fire-and-forget side-effect computation, a closure over the
// context/event captured at resolution time. Actions never mutate the
// context directly; any context change must flow through ContextPatch.
type Action func()

// Emission is an event published to the actor's external emission
// listeners, distinct from events sent to self or to children.
type Emission struct {
	Tag     EventTag
	Payload any
}

// Spawn describes a child actor to create. Definition is opaque to this
// package and is resolved by the actor package: callers pass either a
// *Definition value or a string naming one of the parent Definition's
// ChildTypes.
//
// OnState, if set, is called with every snapshot the child publishes; a
// non-nil returned Event is enqueued on the parent's own mailbox.
type Spawn struct {
	ChildID         string
	Definition      any
	RestoreSnapshot *Snapshot
	OnState         func(childID string, snap Snapshot) *Event
}

// SendToChild routes an event to an already-spawned child.
type SendToChild struct {
	ChildID string
	Event   Event
}

// Outcome is the pure result of resolving one event against one
// (state, context) pair. The supervisor applies its fields in a fixed
// order: context patch, snapshot publish, child-tree mutation
// (despawns, spawns, sends), emissions, actions, then exit/entry if the
// state tag changed.
type Outcome struct {
	Kind   OutcomeKind
	Target StateTag

	ContextPatch    Patch
	Actions         []Action
	Emissions       []Emission
	Spawns          []Spawn
	SendsToChildren []SendToChild
	Despawns        []string
}

// Option configures the non-discriminating fields shared by Stay, Update
// and Goto outcomes.
type Option func(*Outcome)

// WithPatch sets the context patch applied before this outcome's other
// effects are processed.
func WithPatch(patch Patch) Option {
	return func(o *Outcome) { o.ContextPatch = patch }
}

// WithActions appends fire-and-forget actions, run in registration order.
func WithActions(actions ...Action) Option {
	return func(o *Outcome) { o.Actions = append(o.Actions, actions...) }
}

// WithEmissions appends external emissions, dispatched in declaration
// order.
func WithEmissions(emissions ...Emission) Option {
	return func(o *Outcome) { o.Emissions = append(o.Emissions, emissions...) }
}

// WithSpawns appends child spawns, applied after despawns and before
// sends in the fixed child-tree mutation order.
func WithSpawns(spawns ...Spawn) Option {
	return func(o *Outcome) { o.Spawns = append(o.Spawns, spawns...) }
}

// WithSends appends events routed to already-present children.
func WithSends(sends ...SendToChild) Option {
	return func(o *Outcome) { o.SendsToChildren = append(o.SendsToChildren, sends...) }
}

// WithDespawns appends child ids to stop, applied before spawns and sends.
func WithDespawns(ids ...string) Option {
	return func(o *Outcome) { o.Despawns = append(o.Despawns, ids...) }
}

func build(kind OutcomeKind, target StateTag, opts []Option) *Outcome {
	o := &Outcome{Kind: kind, Target: target}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Goto transitions to target, applying the bundled patch/actions/etc.
func Goto(target StateTag, opts ...Option) *Outcome {
	return build(KindGoto, target, opts)
}

// Update stays in the current state but applies a context patch (and/or
// other bundled effects).
func Update(opts ...Option) *Outcome {
	return build(KindUpdate, "", opts)
}

// Stay applies bundled effects (actions, emissions, child mutations)
// without changing context or state.
func Stay(opts ...Option) *Outcome {
	return build(KindStay, "", opts)
}

// NoMatch reports that no handler applied. The supervisor treats it as a
// Stay with empty fields.
func NoMatch() *Outcome {
	return &Outcome{Kind: KindNoMatch}
}

// IsNoMatch reports whether o is nil or represents the NoMatch variant.
func IsNoMatch(o *Outcome) bool {
	return o == nil || o.Kind == KindNoMatch
}
