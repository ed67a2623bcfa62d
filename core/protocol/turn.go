// Package protocol defines the shared conversation types: transcript turns
// exchanged between the user and agents, and the wire-level message and tool
// shapes used to talk to generation backends.
package protocol

// UserAuthor is the reserved author name for turns written by the end user.
const UserAuthor = "user"

// Turn is a single authored entry in a session transcript. Turns are
// immutable once appended; Seq is strictly increasing within a session.
type Turn struct {
	Author string `json:"author"`
	Text   string `json:"text"`
	Seq    int    `json:"seq"`
}

// IsUser reports whether the turn was authored by the end user.
func (t Turn) IsUser() bool {
	return t.Author == UserAuthor
}
