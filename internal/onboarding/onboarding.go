// Package onboarding classifies the free-text tone of early-relationship
// messages against a stage's declared tone rules.
package onboarding

import (
	"strings"

	"github.com/nightjarlabs/companion-core/internal/persona"
	"github.com/nightjarlabs/companion-core/internal/selection"
	"github.com/nightjarlabs/companion-core/internal/stage"
)

// #region result

// ToneNeutral is returned when no rule matches.
const ToneNeutral = "neutral"

// Match is the outcome of classifying one message.
type Match struct {
	Tone     string
	Response string
	Bias     persona.BiasDelta
}

// #endregion result

// #region classify

// Classify walks the stage's tone rules strictly in declared order and
// returns the tone of the first rule with a matching keyword, or
// ToneNeutral. A keyword matches as a case-insensitive substring, or as an
// exact-case substring of the raw input.
func Classify(text string, cfg *stage.OnboardingConfig) string {
	if cfg == nil {
		return ToneNeutral
	}
	lower := strings.ToLower(text)
	for _, rule := range cfg.Rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) || strings.Contains(text, kw) {
				return rule.Tone
			}
		}
	}
	return ToneNeutral
}

// #endregion classify

// #region evaluate

// Evaluate classifies the message and, on a match, selects one canned
// response via the injected selector and returns the rule's bias deltas.
// The second return is false when the tone is neutral.
func Evaluate(text string, cfg *stage.OnboardingConfig, sel selection.Selector) (Match, bool) {
	tone := Classify(text, cfg)
	if tone == ToneNeutral {
		return Match{Tone: ToneNeutral}, false
	}
	for _, rule := range cfg.Rules {
		if rule.Tone != tone {
			continue
		}
		m := Match{Tone: tone, Bias: rule.Bias}
		if len(rule.Responses) > 0 {
			m.Response = rule.Responses[sel.Pick("onboarding/"+tone, len(rule.Responses))]
		}
		return m, true
	}
	return Match{Tone: ToneNeutral}, false
}

// #endregion evaluate
