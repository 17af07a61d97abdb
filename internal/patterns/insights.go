package patterns

import (
	"fmt"
	"strings"
)

// #region insights

// maxInsights caps how many insight strings one turn may surface.
const maxInsights = 2

// buildInsights generates at most two insight strings from the scan window
// (up to the last 20 records) and the freshly computed profile. Checks run
// in fixed priority order and stop once two insights are collected.
func buildInsights(records []PatternRecord, profile UserProfile) []string {
	scan := lastN(records, historyScan)
	var insights []string

	add := func(s string) bool {
		insights = append(insights, s)
		return len(insights) >= maxInsights
	}

	// 1. Stuck point exists.
	if len(profile.StuckPoints) > 0 {
		sig := strings.ReplaceAll(profile.StuckPoints[0], "+", ", ")
		if add(fmt.Sprintf("You've circled the same ground several times (%s). A stuck point often marks where something wants to change.", sig)) {
			return insights
		}
	}

	// 2. Imbalance: a lens with fewer than 2 appearances in the scan window.
	counts := make(map[FocalPoint]int)
	for _, r := range scan {
		counts[r.Focal]++
	}
	for _, focal := range focalOrder {
		if counts[focal] < 2 {
			if add(fmt.Sprintf("The %s lens has barely appeared lately — there may be something waiting there.", focal)) {
				return insights
			}
			break
		}
	}

	// 3. Trajectory-specific phrasing for cycling and integrating.
	switch profile.Trajectory {
	case TrajectoryCycling:
		if add("You're returning to the same themes. Repetition can be a request from within: what hasn't been heard yet?") {
			return insights
		}
	case TrajectoryIntegrating:
		if add("You're weaving several lenses together — that's usually a sign of integration in progress.") {
			return insights
		}
	}

	// 4. Resources lens underrepresented across the scan window.
	if len(scan) > 0 && float64(counts[FocalResources]) < 0.2*float64(len(scan)) {
		if add("You rarely pause on what's working. Naming your resources is as useful as naming your struggles.") {
			return insights
		}
	}

	// 5. Shadow–ideal connection within the last 5 records.
	recent := lastN(scan, 5)
	var shadowKw, idealKw []string
	for _, r := range recent {
		switch r.Focal {
		case FocalShadow:
			shadowKw = append(shadowKw, r.Keywords...)
		case FocalIdeal:
			idealKw = append(idealKw, r.Keywords...)
		}
	}
	if shared := sharedKeywords(shadowKw, idealKw); len(shared) > 0 {
		add(fmt.Sprintf("What you avoid and what you long for share a thread: %s.", shared[0]))
	}

	return insights
}

// #endregion insights

// #region recommendations

// buildRecommendations produces the approach-shift suggestion: five turns
// running through one lens suggests the cyclic-next lens; otherwise a low
// recent average confidence suggests re-centering. At most one is returned.
func buildRecommendations(records []PatternRecord) []string {
	recent := lastN(records, 5)
	if len(recent) == 0 {
		return nil
	}

	if len(recent) == 5 {
		same := true
		for _, r := range recent[1:] {
			if r.Focal != recent[0].Focal {
				same = false
				break
			}
		}
		if same {
			next := NextFocal(recent[0].Focal)
			return []string{fmt.Sprintf("You've viewed this through the %s lens five times running — try the %s lens next.", recent[0].Focal, next)}
		}
	}

	var sum float64
	for _, r := range recent {
		sum += r.Confidence
	}
	if sum/float64(len(recent)) < 0.6 {
		return []string{"The signal has been faint lately. What matters most to you right now, in one sentence?"}
	}
	return nil
}

// #endregion recommendations
