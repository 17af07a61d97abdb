package persona

import (
	"context"
	"sync"
)

// #region memory-store

// MemoryStore is the in-process Store implementation. State is lost on
// restart; durability is the SQLite implementation's job.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]State
}

// NewMemoryStore returns an empty in-memory persona store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]State)}
}

// Get returns the stored state, or DefaultState for an unknown user.
func (m *MemoryStore) Get(_ context.Context, userID string) (State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.states[userID]; ok {
		return s, nil
	}
	return DefaultState(userID), nil
}

// Put upserts the user's state.
func (m *MemoryStore) Put(_ context.Context, s State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[s.UserID] = s
	return nil
}

// #endregion memory-store
