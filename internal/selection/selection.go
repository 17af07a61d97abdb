// Package selection provides the injectable choice strategy used wherever
// the engine must pick one entry from a configured list (crisis responses,
// onboarding responses, closing lines, paradox lines). Keeping selection
// behind an interface makes every such choice seedable and testable.
package selection

import (
	"math/rand"
	"sync"
)

// #region interface

// Selector picks an index in [0, n) for the list identified by key.
// Implementations must be safe for concurrent use.
type Selector interface {
	Pick(key string, n int) int
}

// #endregion interface

// #region round-robin

// RoundRobin cycles through each keyed list in order. The first call for a
// key returns 0, the next 1, wrapping at n.
type RoundRobin struct {
	mu   sync.Mutex
	next map[string]int
}

// NewRoundRobin returns a per-key round-robin selector.
func NewRoundRobin() *RoundRobin {
	return &RoundRobin{next: make(map[string]int)}
}

// Pick returns the next index for key, advancing the cursor.
func (r *RoundRobin) Pick(key string, n int) int {
	if n <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.next[key] % n
	r.next[key] = idx + 1
	return idx
}

// #endregion round-robin

// #region seeded

// Seeded picks pseudo-randomly from a fixed seed, so a given seed always
// produces the same sequence of choices.
type Seeded struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeeded returns a selector backed by a seeded PRNG.
func NewSeeded(seed int64) *Seeded {
	return &Seeded{rng: rand.New(rand.NewSource(seed))}
}

// Pick returns a pseudo-random index in [0, n).
func (s *Seeded) Pick(_ string, n int) int {
	if n <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// #endregion seeded

// #region fixed

// Fixed always returns the same index (clamped to the list). Used in tests
// to pin which canned entry is chosen.
type Fixed int

// Pick returns the fixed index, clamped to [0, n).
func (f Fixed) Pick(_ string, n int) int {
	if n <= 0 {
		return 0
	}
	if int(f) >= n {
		return n - 1
	}
	return int(f)
}

// #endregion fixed
