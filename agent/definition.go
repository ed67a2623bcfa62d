// Package agent defines the static conversational roles that participate in
// a planning session and the generation capability they speak through.
// Definitions are immutable after construction and shared read-only across
// all sessions; only transcripts are per-session state.
package agent

import (
	"fmt"
	"slices"
)

// Definition pairs a named role with its instructions and bound tool names.
type Definition struct {
	// Name uniquely identifies the agent within a roster. It is the author
	// label attached to the agent's transcript turns.
	Name string

	// Instructions is the role prompt sent as the system message on every
	// generation call for this agent.
	Instructions string

	// Tools lists the names of registry tools this agent may call, in the
	// order they are offered to the model.
	Tools []string
}

// Roster is an ordered, immutable set of agent definitions. Order is the
// speaking priority: the head speaks first in every round, specialists
// follow, an optional synthesizer last.
type Roster struct {
	defs   []Definition
	byName map[string]int
}

// NewRoster creates a Roster from definitions in priority order.
// Names must be non-empty and unique.
func NewRoster(defs ...Definition) (*Roster, error) {
	if len(defs) == 0 {
		return nil, ErrEmptyRoster
	}

	byName := make(map[string]int, len(defs))
	for i, def := range defs {
		if def.Name == "" {
			return nil, ErrEmptyAgentName
		}
		if _, exists := byName[def.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAgent, def.Name)
		}
		byName[def.Name] = i
	}

	return &Roster{defs: slices.Clone(defs), byName: byName}, nil
}

// Head returns the highest-priority definition (the coordinator role).
func (r *Roster) Head() Definition {
	return r.defs[0]
}

// Get retrieves a definition by name.
func (r *Roster) Get(name string) (Definition, bool) {
	i, exists := r.byName[name]
	if !exists {
		return Definition{}, false
	}
	return r.defs[i], true
}

// Definitions returns the definitions in priority order.
func (r *Roster) Definitions() []Definition {
	return slices.Clone(r.defs)
}

// Names returns the agent names in priority order.
func (r *Roster) Names() []string {
	names := make([]string, len(r.defs))
	for i, def := range r.defs {
		names[i] = def.Name
	}
	return names
}

// Len returns the number of agents in the roster.
func (r *Roster) Len() int {
	return len(r.defs)
}
