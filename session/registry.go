package session

import "sync"

// Handle is a registered session plus the round serialization state that
// guarantees at most one round executes against its transcript at a time.
type Handle struct {
	Session

	runMu  sync.Mutex
	rounds int
}

// StartRound marks the beginning of an exclusive round for this session,
// blocking while another round is in flight. The returned function ends the
// round; callers must invoke it exactly once, typically via defer.
func (h *Handle) StartRound() (end func()) {
	h.runMu.Lock()
	h.rounds++
	return h.runMu.Unlock
}

// Rounds returns the number of rounds started against this session.
func (h *Handle) Rounds() int {
	h.runMu.Lock()
	defer h.runMu.Unlock()
	return h.rounds
}

// Registry maps session identifiers to isolated conversation state. The
// internal map is guarded by a narrow lock covering lookup, insert, and
// delete only; round execution happens against the Handle outside that lock,
// so sessions make progress independently.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Handle
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Handle)}
}

// Resolve returns the session registered under id, creating and registering
// a fresh one if the id is unknown. Creation is exactly-once per id:
// concurrent callers racing on the same unseen id receive the same Handle.
func (r *Registry) Resolve(id string) *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	if h, exists := r.sessions[id]; exists {
		return h
	}

	h := &Handle{Session: NewMemorySession(id)}
	r.sessions[id] = h
	return h
}

// Reset removes the session registered under id entirely; the next Resolve
// creates a fresh one. Unknown ids are a no-op, not an error.
func (r *Registry) Reset(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
