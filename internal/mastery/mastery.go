// Package mastery implements the terse post-processing voice applied to
// generated text once a user's trust and integration clear a stage's
// configured thresholds.
package mastery

import (
	"strings"
	"unicode"

	"github.com/nightjarlabs/companion-core/internal/persona"
	"github.com/nightjarlabs/companion-core/internal/selection"
	"github.com/nightjarlabs/companion-core/internal/stage"
)

// SilenceMarker is inserted between sentences to cue the voice layer to
// leave space.
const SilenceMarker = "…"

// #region eligibility

// Eligible reports whether the mastery voice activates for this stage and
// persona state.
func Eligible(cfg *stage.MasteryConfig, p persona.State) bool {
	if cfg == nil || !cfg.Enabled {
		return false
	}
	if p.Trust < cfg.MinTrust {
		return false
	}
	if cfg.MinIntegration != nil && p.Integration < *cfg.MinIntegration {
		return false
	}
	return true
}

// #endregion eligibility

// #region apply

// Apply shapes generated text into the mastery voice. When the gate does
// not clear, the input is returned unchanged. When it does: jargon terms
// are replaced with plain language, each sentence is truncated at the
// configured word cap, a micro-silence marker is inserted after every
// configured interval of sentences, and one closing line is appended. Text
// expressing an unresolved contradiction is distilled to a single paradox
// line instead of being elaborated.
func Apply(text string, cfg *stage.MasteryConfig, p persona.State, sel selection.Selector) string {
	if !Eligible(cfg, p) {
		return text
	}

	if expressesParadox(text) && len(cfg.ParadoxLines) > 0 {
		line := cfg.ParadoxLines[sel.Pick("mastery/paradox", len(cfg.ParadoxLines))]
		return line + " " + closingLine(cfg, sel)
	}

	out := text
	for _, sub := range cfg.Jargon {
		out = replaceTerm(out, sub.Term, sub.Plain)
	}

	sentences := splitSentences(out)
	for i, s := range sentences {
		sentences[i] = capSentence(s, cfg.MaxSentenceWords)
	}

	var parts []string
	for i, s := range sentences {
		parts = append(parts, s)
		if cfg.SilenceInterval > 0 && (i+1)%cfg.SilenceInterval == 0 && i < len(sentences)-1 {
			parts = append(parts, SilenceMarker)
		}
	}
	parts = append(parts, closingLine(cfg, sel))

	return strings.Join(parts, " ")
}

func closingLine(cfg *stage.MasteryConfig, sel selection.Selector) string {
	if len(cfg.ClosingLines) == 0 {
		return ""
	}
	return cfg.ClosingLines[sel.Pick("mastery/closing", len(cfg.ClosingLines))]
}

// #endregion apply

// #region paradox

// paradoxMarkers signal an unresolved duality held in the text.
var paradoxMarkers = []string{
	"torn between",
	"part of me wants",
	"part of you wants",
	"but i also",
	"but you also",
	"yet i also",
	"can't decide between",
	"both want and",
}

func expressesParadox(text string) bool {
	lower := strings.ToLower(text)
	for _, m := range paradoxMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// #endregion paradox

// #region jargon

// replaceTerm substitutes a jargon term case-insensitively by replacing
// the as-declared form and its sentence-initial capitalization. Terms are
// declared lower-case in configuration.
func replaceTerm(text, term, plain string) string {
	text = strings.ReplaceAll(text, term, plain)
	text = strings.ReplaceAll(text, capitalize(term), capitalize(plain))
	return text
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// #endregion jargon

// #region sentences

// splitSentences breaks text on terminal punctuation, keeping the
// terminator with its sentence. A run of terminators (an ellipsis, "?!")
// counts as one, so it never produces punctuation-only fragments.
func splitSentences(text string) []string {
	var sentences []string
	var cur strings.Builder
	term := false
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			sentences = append(sentences, s)
		}
		cur.Reset()
	}
	for _, r := range text {
		if r == '.' || r == '!' || r == '?' {
			cur.WriteRune(r)
			term = true
			continue
		}
		if term {
			flush()
			term = false
		}
		cur.WriteRune(r)
	}
	flush()
	return sentences
}

// capSentence truncates a sentence at maxWords words and closes it with a
// period. Truncation (not re-wrapping) keeps the policy deterministic.
func capSentence(s string, maxWords int) string {
	if maxWords <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) <= maxWords {
		return s
	}
	truncated := strings.Join(words[:maxWords], " ")
	return strings.TrimRight(truncated, ",;:") + "."
}

// #endregion sentences
