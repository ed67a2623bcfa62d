package agent

import "errors"

// Sentinel errors for roster construction.
var (
	ErrEmptyRoster    = errors.New("roster has no agents")
	ErrEmptyAgentName = errors.New("agent name is empty")
	ErrDuplicateAgent = errors.New("duplicate agent name")
)
