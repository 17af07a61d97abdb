package patterns

import "strings"

// #region markers

// focalMarkers are the per-lens marker word lists used for confidence
// scoring and focal-point detection. Matching is case-insensitive
// substring containment against the raw input.
var focalMarkers = map[FocalPoint][]string{
	FocalIdeal: {
		"wish", "hope", "dream", "want to be", "vision", "aspire",
		"imagine myself", "ideal", "long for", "if only", "someday",
	},
	FocalShadow: {
		"afraid", "fear", "avoid", "ashamed", "guilt", "angry",
		"resent", "jealous", "keep hiding", "hate that i", "my worst",
	},
	FocalResources: {
		"strength", "support", "skill", "friend", "helped me", "capable",
		"grateful", "learned", "good at", "proud of", "rely on",
	},
	FocalOutcome: {
		"goal", "result", "plan", "achieve", "finish", "complete",
		"next step", "action", "deadline", "decide", "commit",
	},
}

// #endregion markers

// #region confidence

// Confidence scores how strongly the input expresses the given focal
// point: base 0.5, plus 0.1 per matched marker, hard-capped at 1.0.
// Monotonic non-decreasing in the number of matches.
func Confidence(text string, focal FocalPoint) float64 {
	lower := strings.ToLower(text)
	conf := 0.5
	for _, marker := range focalMarkers[focal] {
		if strings.Contains(lower, marker) {
			conf += 0.1
		}
	}
	if conf > 1.0 {
		conf = 1.0
	}
	return conf
}

// #endregion confidence

// #region detect-focal

// DetectFocal picks the lens with the most marker matches, ties broken by
// canonical order (ideal, shadow, resources, outcome). With no matches at
// all it defaults to the first lens, ideal.
func DetectFocal(text string) FocalPoint {
	lower := strings.ToLower(text)
	best := FocalIdeal
	bestCount := 0
	for _, focal := range focalOrder {
		count := 0
		for _, marker := range focalMarkers[focal] {
			if strings.Contains(lower, marker) {
				count++
			}
		}
		if count > bestCount {
			best = focal
			bestCount = count
		}
	}
	return best
}

// #endregion detect-focal
