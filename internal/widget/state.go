package widget

import (
	"sync"

	"elderease/internal/model"
	"elderease/internal/prompt"
)

// State is the conversation shown in the UI. The system-instruction pair never lives here.
type State struct {
	mu       sync.Mutex
	turns    model.History
	onAppend func(model.Turn)
}

// NewState creates an empty conversation. onAppend is called for every Append,
// outside the lock; it may be nil.
func NewState(onAppend func(model.Turn)) *State {
	return &State{onAppend: onAppend}
}

// Append adds a turn, renders it and returns its position.
func (s *State) Append(t model.Turn) int {
	i := s.AppendSilent(t)
	if s.onAppend != nil {
		s.onAppend(t)
	}
	return i
}

// AppendSilent adds a turn without rendering it.
func (s *State) AppendSilent(t model.Turn) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, t)
	return len(s.turns) - 1
}

// MarkLocal flags the turn at i as local, provided it is still t.
// A Reset or Replace in between makes this a no-op.
func (s *State) MarkLocal(i int, t model.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.turns) || s.turns[i] != t {
		return
	}
	t.Local = true
	s.turns[i] = t
}

// History returns a copy of every turn, local ones included.
func (s *State) History() model.History {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(model.History, len(s.turns))
	copy(out, s.turns)
	return out
}

// Persistable returns the turns that may be saved or sent as context.
func (s *State) Persistable() model.History {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.turns.Persistable()
}

// Reset empties the conversation.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = nil
}

// Replace swaps in a loaded history with system-instruction turns removed.
// Nothing is rendered; the caller draws the result in bulk.
func (s *State) Replace(h model.History) {
	clean := prompt.Strip(h)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = clean
}

// Len is the number of turns.
func (s *State) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.turns)
}
