package persona

import "context"

// #region state

// State holds the per-user relational parameters consulted by the decision
// layer. The four float parameters live in [0, 1]; Integration is a level
// in [0, 10].
type State struct {
	UserID                string  `json:"user_id"`
	Trust                 float64 `json:"trust"`
	ChallengeComfort      float64 `json:"challenge_comfort"`
	HumorAppreciation     float64 `json:"humor_appreciation"`
	MetaphysicsConfidence float64 `json:"metaphysics_confidence"`
	Integration           int     `json:"integration"`
}

// DefaultState is the starting point for a user with no stored state.
func DefaultState(userID string) State {
	return State{
		UserID:                userID,
		Trust:                 0.3,
		ChallengeComfort:      0.3,
		HumorAppreciation:     0.5,
		MetaphysicsConfidence: 0.4,
		Integration:           0,
	}
}

// #endregion state

// #region bias-delta

// BiasDelta is a small adjustment applied to persona parameters when a
// behavioral filter fires (e.g. detected onboarding tone).
type BiasDelta struct {
	Trust                 float64 `json:"trust" yaml:"trust"`
	ChallengeComfort      float64 `json:"challenge_comfort" yaml:"challenge_comfort"`
	HumorAppreciation     float64 `json:"humor_appreciation" yaml:"humor_appreciation"`
	MetaphysicsConfidence float64 `json:"metaphysics_confidence" yaml:"metaphysics_confidence"`
}

// IsZero reports whether the delta would leave state unchanged.
func (d BiasDelta) IsZero() bool {
	return d.Trust == 0 && d.ChallengeComfort == 0 &&
		d.HumorAppreciation == 0 && d.MetaphysicsConfidence == 0
}

// Add accumulates another delta into this one.
func (d BiasDelta) Add(o BiasDelta) BiasDelta {
	return BiasDelta{
		Trust:                 d.Trust + o.Trust,
		ChallengeComfort:      d.ChallengeComfort + o.ChallengeComfort,
		HumorAppreciation:     d.HumorAppreciation + o.HumorAppreciation,
		MetaphysicsConfidence: d.MetaphysicsConfidence + o.MetaphysicsConfidence,
	}
}

// Apply returns the state after the delta, clamping each parameter to [0, 1].
func Apply(s State, d BiasDelta) State {
	s.Trust = clamp01(s.Trust + d.Trust)
	s.ChallengeComfort = clamp01(s.ChallengeComfort + d.ChallengeComfort)
	s.HumorAppreciation = clamp01(s.HumorAppreciation + d.HumorAppreciation)
	s.MetaphysicsConfidence = clamp01(s.MetaphysicsConfidence + d.MetaphysicsConfidence)
	return s
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// #endregion bias-delta

// #region store-interface

// Store is the persona-state collaborator boundary. Get never fails for an
// unknown user: it returns DefaultState.
type Store interface {
	Get(ctx context.Context, userID string) (State, error)
	Put(ctx context.Context, s State) error
}

// #endregion store-interface
