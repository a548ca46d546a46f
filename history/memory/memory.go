package memory

import (
	"context"
	"sync"

	"github.com/smallnest/runnablego/history"
)

// Store keeps conversation turns in process memory. It is safe for
// concurrent use and is the default backend for tests and short-lived
// programs.
type Store struct {
	mu       sync.RWMutex
	sessions map[string][]history.Message
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string][]history.Message),
	}
}

// AddMessage appends one turn to a session.
func (s *Store) AddMessage(_ context.Context, sessionID string, msg history.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = append(s.sessions[sessionID], msg)
	return nil
}

// AddMessages appends several turns to a session in order.
func (s *Store) AddMessages(_ context.Context, sessionID string, msgs []history.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = append(s.sessions[sessionID], msgs...)
	return nil
}

// Messages returns a copy of a session's turns in insertion order.
func (s *Store) Messages(_ context.Context, sessionID string) ([]history.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.sessions[sessionID]
	out := make([]history.Message, len(stored))
	copy(out, stored)
	return out, nil
}

// Clear removes a session's turns.
func (s *Store) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

var _ history.Store = (*Store)(nil)
