package mastery

import (
	"strings"
	"testing"

	"github.com/nightjarlabs/companion-core/internal/persona"
	"github.com/nightjarlabs/companion-core/internal/selection"
	"github.com/nightjarlabs/companion-core/internal/stage"
)

func testConfig() *stage.MasteryConfig {
	five := 5
	return &stage.MasteryConfig{
		Enabled:        true,
		MinTrust:       0.75,
		MinIntegration: &five,
		Jargon: []stage.JargonSub{
			{Term: "shadow work", Plain: "looking at what you avoid"},
			{Term: "archetype", Plain: "pattern"},
		},
		MaxSentenceWords: 6,
		SilenceInterval:  2,
		ClosingLines:     []string{"Sit with that.", "Nothing to add."},
		ParadoxLines:     []string{"Both are true. Start there."},
	}
}

func eligibleState() persona.State {
	return persona.State{Trust: 0.9, Integration: 7}
}

func TestGateBelowTrustReturnsInputUnchanged(t *testing.T) {
	in := "The archetype asks for shadow work."
	p := persona.State{Trust: 0.5, Integration: 9}
	if got := Apply(in, testConfig(), p, selection.NewRoundRobin()); got != in {
		t.Errorf("below-trust text should pass through unchanged, got %q", got)
	}
}

func TestGateBelowIntegration(t *testing.T) {
	in := "Anything at all."
	p := persona.State{Trust: 0.9, Integration: 2}
	if got := Apply(in, testConfig(), p, selection.NewRoundRobin()); got != in {
		t.Errorf("below-integration text should pass through, got %q", got)
	}
}

func TestGateDisabledOrNilConfig(t *testing.T) {
	in := "Anything."
	cfg := testConfig()
	cfg.Enabled = false
	if got := Apply(in, cfg, eligibleState(), selection.NewRoundRobin()); got != in {
		t.Errorf("disabled config should pass through, got %q", got)
	}
	if got := Apply(in, nil, eligibleState(), selection.NewRoundRobin()); got != in {
		t.Errorf("nil config should pass through, got %q", got)
	}
}

func TestNoIntegrationGateWhenUnset(t *testing.T) {
	cfg := testConfig()
	cfg.MinIntegration = nil
	p := persona.State{Trust: 0.9, Integration: 0}
	if !Eligible(cfg, p) {
		t.Error("with no integration threshold, trust alone should gate")
	}
}

func TestJargonReplacement(t *testing.T) {
	got := Apply("Shadow work continues. The archetype holds.", testConfig(), eligibleState(), selection.NewRoundRobin())
	if strings.Contains(strings.ToLower(got), "shadow work") {
		t.Errorf("jargon survived: %q", got)
	}
	if strings.Contains(got, "archetype") {
		t.Errorf("jargon survived: %q", got)
	}
	if !strings.Contains(got, "pattern holds") {
		t.Errorf("replacement missing: %q", got)
	}
}

func TestSentenceCap(t *testing.T) {
	in := "This sentence runs on far longer than the configured cap allows it to."
	got := Apply(in, testConfig(), eligibleState(), selection.NewRoundRobin())
	first := strings.SplitN(got, ".", 2)[0]
	if n := len(strings.Fields(first)); n > 6 {
		t.Errorf("first sentence has %d words after cap of 6: %q", n, first)
	}
}

func TestSilenceMarkerInterval(t *testing.T) {
	in := "One here. Two here. Three here. Four here."
	got := Apply(in, testConfig(), eligibleState(), selection.NewRoundRobin())
	// Interval 2 over 4 sentences: one marker between sentences 2 and 3;
	// no trailing marker before the closing line.
	if n := strings.Count(got, SilenceMarker); n != 1 {
		t.Errorf("silence markers = %d, want 1: %q", n, got)
	}
}

func TestEllipsisCountsAsOneSentence(t *testing.T) {
	// "I waited... then left." is two sentences, not two plus a pair of
	// bare-dot fragments. With interval 2 over 4 real sentences exactly one
	// marker lands, same as plainly punctuated text.
	in := "I waited... then left. Another thought here. And one more?!"
	got := Apply(in, testConfig(), eligibleState(), selection.NewRoundRobin())
	if !strings.Contains(got, "I waited...") {
		t.Errorf("ellipsis should survive intact: %q", got)
	}
	if n := strings.Count(got, SilenceMarker); n != 1 {
		t.Errorf("silence markers = %d, want 1: %q", n, got)
	}
}

func TestClosingLineAppendedDeterministically(t *testing.T) {
	sel := selection.NewRoundRobin()
	first := Apply("Short.", testConfig(), eligibleState(), sel)
	if !strings.HasSuffix(first, "Sit with that.") {
		t.Errorf("first closing line wrong: %q", first)
	}
	second := Apply("Short.", testConfig(), eligibleState(), sel)
	if !strings.HasSuffix(second, "Nothing to add.") {
		t.Errorf("round-robin should advance the closing line: %q", second)
	}
}

func TestParadoxDistillation(t *testing.T) {
	in := "Part of me wants to leave, but I also need the security of staying where everything is known."
	got := Apply(in, testConfig(), eligibleState(), selection.NewRoundRobin())
	if !strings.HasPrefix(got, "Both are true.") {
		t.Errorf("paradox text should be distilled, got %q", got)
	}
	if strings.Contains(got, "security") {
		t.Errorf("paradox distillation should not elaborate: %q", got)
	}
}
