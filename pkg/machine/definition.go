package machine

import "fmt"

// StateConfig describes one state's entry/exit effects, long-running run
// scope, delayed transition, and event handler table.
type StateConfig struct {
	Entry    EntryExitFunc
	Exit     EntryExitFunc
	Run      *RunConfig
	After    *AfterConfig
	Handlers map[EventTag]Handler

	// Strict requires an explicit handler for every tag in the owning
	// Definition's EventVocabulary; checked by Definition.Validate.
	Strict bool
}

// ChildType names a reusable child machine definition that can be
// spawned by tag (e.g. from a Spawn.Definition supplied as a string key
// into this registry rather than a definition value).
type ChildType struct {
	Name       string
	Definition *Definition
}

// Definition is an immutable description of a machine: its initial
// state/context, per-state configuration, an optional cross-state
// global handler, and the closed event vocabulary used by strict state
// validation.
type Definition struct {
	Name            string
	Initial         State
	InitialContext  Context
	States          map[StateTag]*StateConfig
	Global          Handler
	EventVocabulary []EventTag
	ChildTypes      map[string]*ChildType
}

// InitialSnapshot returns the Snapshot an Interpret call seeds from when
// no restore snapshot is supplied.
func (d *Definition) InitialSnapshot() *Snapshot {
	return &Snapshot{State: d.Initial, Context: d.InitialContext}
}

// StateConfigFor returns the StateConfig for tag, or nil if undeclared.
func (d *Definition) StateConfigFor(tag StateTag) *StateConfig {
	return d.States[tag]
}

// Validate checks definition-time invariants, in particular the
// strict-state exhaustiveness rule: every strict state must declare a
// handler for every tag in EventVocabulary.
func (d *Definition) Validate() error {
	if d.Initial.Tag == "" {
		return fmt.Errorf("statemesh: definition %q has no initial state", d.Name)
	}
	if _, ok := d.States[d.Initial.Tag]; !ok {
		return fmt.Errorf("statemesh: definition %q initial state %q is not declared", d.Name, d.Initial.Tag)
	}
	for tag, cfg := range d.States {
		if !cfg.Strict {
			continue
		}
		var missing []EventTag
		for _, ev := range d.EventVocabulary {
			if _, ok := cfg.Handlers[ev]; !ok {
				missing = append(missing, ev)
			}
		}
		if len(missing) > 0 {
			return fmt.Errorf("statemesh: strict state %q is missing handlers for %v", tag, missing)
		}
	}
	return nil
}
