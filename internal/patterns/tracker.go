package patterns

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// #region window-constants

const (
	// profileWindow is the fixed sliding-window capacity over which the
	// dominant focal point, trajectory, and stuck points are computed.
	profileWindow = 10

	// historyScan is how far back related-pattern and insight scans look.
	historyScan = 20

	// cyclingRatio: a window whose distinct-signature count falls below
	// this fraction of the window capacity is cycling.
	cyclingRatio = 0.3

	// stuckThreshold is how many times a signature must repeat within the
	// profile window to count as a stuck point.
	stuckThreshold = 3
)

// #endregion window-constants

// #region tracker

// Tracker owns the per-user longitudinal state. Concurrent turns for the
// same user are serialized with a per-user lock; different users never
// contend.
type Tracker struct {
	repo Repository

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewTracker wraps a repository in a tracker.
func NewTracker(repo Repository) *Tracker {
	return &Tracker{repo: repo, locks: make(map[string]*sync.Mutex)}
}

func (t *Tracker) userLock(userID string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	l, ok := t.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		t.locks[userID] = l
	}
	return l
}

// #endregion tracker

// #region track-result

// TrackResult is everything one tracked turn produced.
type TrackResult struct {
	Record          PatternRecord
	Profile         UserProfile
	Insights        []string
	Recommendations []string
}

// #endregion track-result

// #region track

// Track records one interaction, including the response text spoken back,
// and recomputes the user's profile. It
// never fails on malformed input: empty text yields an empty keyword set
// and base 0.5 confidence. Repository errors are logged and swallowed;
// the turn's result is still returned.
func (t *Tracker) Track(ctx context.Context, userID, input string, focal FocalPoint, element, response string) TrackResult {
	lock := t.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	history, err := t.repo.Recent(ctx, userID, historyScan)
	if err != nil {
		log.Printf("[TRACK] history read for %s failed: %v", userID, err)
	}

	keywords := ExtractKeywords(input)
	rec := PatternRecord{
		ID:         uuid.New().String(),
		UserID:     userID,
		CreatedAt:  time.Now().UTC(),
		Focal:      focal,
		Element:    element,
		Confidence: Confidence(input, focal),
		Keywords:   keywords,
		Resolution: resolutionTag(history, keywords),
		Response:   response,
		Related:    relatedPatterns(history, keywords),
	}

	if err := t.repo.Append(ctx, rec); err != nil {
		log.Printf("[TRACK] append for %s failed: %v", userID, err)
	}

	prev, hadProfile, err := t.repo.Profile(ctx, userID)
	if err != nil {
		log.Printf("[TRACK] profile read for %s failed: %v", userID, err)
	}

	full := append(history, rec)
	profile := buildProfile(userID, full, prev, hadProfile, rec)
	if err := t.repo.SaveProfile(ctx, profile); err != nil {
		log.Printf("[TRACK] profile save for %s failed: %v", userID, err)
	}

	return TrackResult{
		Record:          rec,
		Profile:         profile,
		Insights:        buildInsights(full, profile),
		Recommendations: buildRecommendations(full),
	}
}

// #endregion track

// #region summary

// Summary is the side-effect-free profile read. Calling it repeatedly with
// no intervening Track returns identical results.
func (t *Tracker) Summary(ctx context.Context, userID string) (UserProfile, bool, error) {
	p, ok, err := t.repo.Profile(ctx, userID)
	if err != nil {
		return UserProfile{}, false, fmt.Errorf("profile summary %s: %w", userID, err)
	}
	return p, ok, nil
}

// #endregion summary

// #region resolution-tag

// resolutionTag relates the current keyword set to recent history:
// same signature seen stuckThreshold or more times in the profile window
// (counting this turn) → stuck; seen before at all → recurring; shares two
// or more keywords with anything scanned → evolving; otherwise the topic
// stands alone → resolved.
func resolutionTag(history []PatternRecord, keywords []string) string {
	sig := Signature(keywords)
	window := lastN(history, profileWindow)

	sigCount := 1 // current turn
	for _, r := range window {
		if Signature(r.Keywords) == sig {
			sigCount++
		}
	}
	if sigCount >= stuckThreshold {
		return ResolutionStuck
	}
	if sigCount >= 2 {
		return ResolutionRecurring
	}
	for _, r := range history {
		if len(sharedKeywords(r.Keywords, keywords)) >= 2 {
			return ResolutionEvolving
		}
	}
	return ResolutionResolved
}

// #endregion resolution-tag

// #region related-patterns

// relatedPatterns scans the supplied history (newest first) for records
// sharing at least 2 keywords with the current input, returning up to 3.
func relatedPatterns(history []PatternRecord, keywords []string) []RelatedPattern {
	var related []RelatedPattern
	for i := len(history) - 1; i >= 0 && len(related) < 3; i-- {
		shared := sharedKeywords(history[i].Keywords, keywords)
		if len(shared) >= 2 {
			related = append(related, RelatedPattern{
				Focal:   history[i].Focal,
				Element: history[i].Element,
				Shared:  shared,
			})
		}
	}
	return related
}

// #endregion related-patterns

// #region profile-build

func buildProfile(userID string, full []PatternRecord, prev UserProfile, hadProfile bool, current PatternRecord) UserProfile {
	window := lastN(full, profileWindow)

	profile := UserProfile{
		UserID:        userID,
		DominantFocal: dominantFocal(window),
		Themes:        recurringThemes(lastN(full, historyScan)),
		Trajectory:    computeTrajectory(window),
		StuckPoints:   stuckPoints(window),
		UpdatedAt:     time.Now().UTC(),
	}

	profile.Breakthroughs = prev.Breakthroughs
	// A high-confidence turn through a lens other than the previous
	// dominant one marks a breakthrough moment.
	if hadProfile && current.Confidence >= 0.9 && current.Focal != prev.DominantFocal {
		note := fmt.Sprintf("%s: breakthrough in %s (confidence %.2f)",
			current.CreatedAt.Format("2006-01-02"), current.Focal, current.Confidence)
		profile.Breakthroughs = append(profile.Breakthroughs, note)
		if len(profile.Breakthroughs) > 10 {
			profile.Breakthroughs = profile.Breakthroughs[len(profile.Breakthroughs)-10:]
		}
	}

	return profile
}

// dominantFocal returns the most frequent focal point in the window, ties
// resolved by first-seen order within the window.
func dominantFocal(window []PatternRecord) FocalPoint {
	if len(window) == 0 {
		return FocalIdeal
	}
	counts := make(map[FocalPoint]int)
	firstSeen := make(map[FocalPoint]int)
	for i, r := range window {
		counts[r.Focal]++
		if _, ok := firstSeen[r.Focal]; !ok {
			firstSeen[r.Focal] = i
		}
	}
	best := window[0].Focal
	for focal, count := range counts {
		if count > counts[best] || (count == counts[best] && firstSeen[focal] < firstSeen[best]) {
			best = focal
		}
	}
	return best
}

// computeTrajectory applies the trajectory ladder in fixed order. The
// cycling check measures distinct signatures against the window capacity
// (10), not the number of records present.
func computeTrajectory(window []PatternRecord) string {
	if len(window) < 5 {
		return TrajectoryExpanding
	}

	sigs := make(map[string]bool)
	focals := make(map[FocalPoint]bool)
	for _, r := range window {
		sigs[Signature(r.Keywords)] = true
		focals[r.Focal] = true
	}

	if float64(len(sigs)) < cyclingRatio*float64(profileWindow) {
		return TrajectoryCycling
	}
	switch {
	case len(focals) == 1:
		return TrajectoryDeepening
	case len(focals) >= 3:
		return TrajectoryIntegrating
	default:
		return TrajectoryExpanding
	}
}

// stuckPoints groups the window by exact keyword signature; any signature
// occurring stuckThreshold or more times is stuck.
func stuckPoints(window []PatternRecord) []string {
	counts := make(map[string]int)
	var order []string
	for _, r := range window {
		sig := Signature(r.Keywords)
		if sig == "" {
			continue
		}
		if counts[sig] == 0 {
			order = append(order, sig)
		}
		counts[sig]++
	}
	var stuck []string
	for _, sig := range order {
		if counts[sig] >= stuckThreshold {
			stuck = append(stuck, sig)
		}
	}
	return stuck
}

// recurringThemes counts keyword occurrences across the scan window,
// keeping only keywords that appear in two or more records.
func recurringThemes(records []PatternRecord) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		for _, kw := range r.Keywords {
			counts[kw]++
		}
	}
	themes := make(map[string]int)
	for kw, c := range counts {
		if c >= 2 {
			themes[kw] = c
		}
	}
	return themes
}

func lastN(records []PatternRecord, n int) []PatternRecord {
	if len(records) > n {
		return records[len(records)-n:]
	}
	return records
}

// #endregion profile-build
