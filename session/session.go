// Package session manages per-conversation transcripts and the registry that
// maps session identifiers to isolated conversation state.
package session

import (
	"github.com/tripdesk/tripdesk/core/protocol"
)

// Session holds an ordered, append-only transcript of turns. Implementations
// must be safe for concurrent use.
type Session interface {
	// ID returns the unique session identifier.
	ID() string
	// Append adds a turn authored by the given participant and returns it
	// with its assigned sequence position.
	Append(author, text string) protocol.Turn
	// Turns returns a defensive copy of the transcript.
	Turns() []protocol.Turn
	// Len returns the number of turns in the transcript.
	Len() int
	// Clear resets the transcript.
	Clear()
}
