package patterns

import (
	"context"
	"sync"
)

// #region memory-repository

// MemoryRepository is the in-process Repository implementation. History is
// lost on restart; durability is an external concern layered underneath.
type MemoryRepository struct {
	mu       sync.RWMutex
	records  map[string][]PatternRecord
	profiles map[string]UserProfile
}

// NewMemoryRepository returns an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records:  make(map[string][]PatternRecord),
		profiles: make(map[string]UserProfile),
	}
}

// Append adds a record to the user's history.
func (m *MemoryRepository) Append(_ context.Context, rec PatternRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.UserID] = append(m.records[rec.UserID], rec)
	return nil
}

// Recent returns up to n of the newest records, oldest first.
func (m *MemoryRepository) Recent(_ context.Context, userID string, n int) ([]PatternRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := m.records[userID]
	if len(all) > n {
		all = all[len(all)-n:]
	}
	out := make([]PatternRecord, len(all))
	copy(out, all)
	return out, nil
}

// Profile returns the user's profile, if one has been saved.
func (m *MemoryRepository) Profile(_ context.Context, userID string) (UserProfile, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[userID]
	return p, ok, nil
}

// SaveProfile upserts the user's profile.
func (m *MemoryRepository) SaveProfile(_ context.Context, p UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.UserID] = p
	return nil
}

// #endregion memory-repository
