package extract

import "github.com/tripdesk/tripdesk/core/protocol"

// Config selects and cleans the user-facing reply from a round.
type Config struct {
	// FinalAuthority is the agent whose output is preferred as the reply
	// when present (the coordinator, or a synthesizer if configured).
	FinalAuthority string

	// AgentNames lists known agent names so bracketed name tags can be
	// stripped during sanitization.
	AgentNames []string
}

// Select picks the candidate reply text from a round's turns: the latest
// turn authored by the final authority when present, otherwise the last
// turn regardless of author. A round with zero turns yields the empty string.
func Select(turns []protocol.Turn, finalAuthority string) string {
	if len(turns) == 0 {
		return ""
	}

	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Author == finalAuthority {
			return turns[i].Text
		}
	}
	return turns[len(turns)-1].Text
}

// Reply selects the authoritative turn and sanitizes its text.
func Reply(turns []protocol.Turn, cfg Config) string {
	return Sanitize(Select(turns, cfg.FinalAuthority), cfg.AgentNames)
}
