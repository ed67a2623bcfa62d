package orchestrate

import "github.com/tripdesk/tripdesk/observability"

// Orchestrator event types emitted during round execution.
const (
	EventRoundStart    observability.EventType = "round.start"
	EventRoundComplete observability.EventType = "round.complete"
	EventAgentSpeak    observability.EventType = "round.agent.speak"
	EventAgentSilent   observability.EventType = "round.agent.silent"
	EventRoundError    observability.EventType = "round.error"
)
