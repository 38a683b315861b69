package session

import "sync"

// Store owns the current State. Events may arrive from several goroutines
// (network completions); they are applied one at a time.
type Store struct {
	mu    sync.Mutex
	state State
}

// NewStore creates a store holding initial.
func NewStore(initial State) *Store {
	return &Store{state: initial}
}

// State returns a snapshot of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies ev and returns the resulting state.
func (s *Store) Dispatch(ev Event) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, ev)
	return s.state
}
