package session

import (
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/tripdesk/tripdesk/core/protocol"
)

type memorySession struct {
	id      string
	turns   []protocol.Turn
	nextSeq int
	mu      sync.RWMutex
}

// NewMemorySession creates a Session backed by an in-memory slice.
// When id is empty a UUIDv7 identifier is assigned.
func NewMemorySession(id string) Session {
	if id == "" {
		id = uuid.Must(uuid.NewV7()).String()
	}
	return &memorySession{id: id}
}

func (s *memorySession) ID() string {
	return s.id
}

func (s *memorySession) Append(author, text string) protocol.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	turn := protocol.Turn{Author: author, Text: text, Seq: s.nextSeq}
	s.nextSeq++
	s.turns = append(s.turns, turn)
	return turn
}

func (s *memorySession) Turns() []protocol.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.turns)
}

func (s *memorySession) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.turns)
}

func (s *memorySession) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = nil
	s.nextSeq = 0
}
