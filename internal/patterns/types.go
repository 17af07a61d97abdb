package patterns

import (
	"context"
	"time"
)

// #region focal-point

// FocalPoint is the reflective lens a turn addresses.
type FocalPoint string

const (
	FocalIdeal     FocalPoint = "ideal"
	FocalShadow    FocalPoint = "shadow"
	FocalResources FocalPoint = "resources"
	FocalOutcome   FocalPoint = "outcome"
)

// focalOrder is the canonical iteration order for focal points. Dominance
// ties, imbalance reporting, and the approach-shift cycle all follow it.
var focalOrder = []FocalPoint{FocalIdeal, FocalShadow, FocalResources, FocalOutcome}

// NextFocal returns the cyclic successor used by approach-shift
// suggestions: ideal→shadow→resources→outcome→ideal.
func NextFocal(f FocalPoint) FocalPoint {
	for i, fp := range focalOrder {
		if fp == f {
			return focalOrder[(i+1)%len(focalOrder)]
		}
	}
	return FocalIdeal
}

// #endregion focal-point

// #region resolution

// Resolution tags describe how a turn's theme relates to the user's recent
// history.
const (
	ResolutionResolved  = "resolved"
	ResolutionRecurring = "recurring"
	ResolutionEvolving  = "evolving"
	ResolutionStuck     = "stuck"
)

// #endregion resolution

// #region trajectory

// Evolution trajectories computed over the sliding window.
const (
	TrajectoryExpanding   = "expanding"
	TrajectoryDeepening   = "deepening"
	TrajectoryIntegrating = "integrating"
	TrajectoryCycling     = "cycling"
)

// #endregion trajectory

// #region record

// RelatedPattern references an earlier record sharing themes with the
// current input. Derived per turn, never persisted.
type RelatedPattern struct {
	Focal   FocalPoint `json:"focal"`
	Element string     `json:"element"`
	Shared  []string   `json:"shared"`
}

// PatternRecord is one tracked turn. Append-only: the core never mutates
// or deletes records once written.
type PatternRecord struct {
	ID         string           `json:"id"`
	UserID     string           `json:"user_id"`
	CreatedAt  time.Time        `json:"created_at"`
	Focal      FocalPoint       `json:"focal"`
	Element    string           `json:"element"`
	Confidence float64          `json:"confidence"`
	Keywords   []string         `json:"keywords"`
	Resolution string           `json:"resolution"`
	Response   string           `json:"response,omitempty"` // what was said back, for audit and inspection
	Related    []RelatedPattern `json:"related,omitempty"`
}

// #endregion record

// #region profile

// UserProfile is the rolling longitudinal summary, upserted every turn.
// Dominant focal point and trajectory are computed over the last 10
// records only, never the full history.
type UserProfile struct {
	UserID        string         `json:"user_id"`
	DominantFocal FocalPoint     `json:"dominant_focal"`
	Themes        map[string]int `json:"themes"` // recurring keywords over the last 20 records
	Trajectory    string         `json:"trajectory"`
	StuckPoints   []string       `json:"stuck_points"`
	Breakthroughs []string       `json:"breakthroughs"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// #endregion profile

// #region repository

// Repository is the injectable storage boundary for records and profiles.
// Recent returns up to n of the user's newest records, ordered oldest to
// newest. Implementations must be safe for concurrent use across users;
// per-user serialization is the Tracker's job.
type Repository interface {
	Append(ctx context.Context, rec PatternRecord) error
	Recent(ctx context.Context, userID string, n int) ([]PatternRecord, error)
	Profile(ctx context.Context, userID string) (UserProfile, bool, error)
	SaveProfile(ctx context.Context, p UserProfile) error
}

// #endregion repository
