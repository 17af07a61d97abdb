package pipeline

import (
	"fmt"

	"github.com/nightjarlabs/companion-core/internal/crisis"
	"github.com/nightjarlabs/companion-core/internal/mastery"
	"github.com/nightjarlabs/companion-core/internal/onboarding"
	"github.com/nightjarlabs/companion-core/internal/selection"
)

// #region crisis-filter

// crisisFilter applies the stage's crisis block for the pre-computed
// crisis level. Red and yellow are terminal overrides; green falls
// through on the monitor strategy.
type crisisFilter struct {
	sel selection.Selector
}

func (f *crisisFilter) Name() string { return FilterCrisisOverride }

func (f *crisisFilter) Apply(ctx Context, d *Directive) bool {
	entry := ctx.Stage.CrisisEntry(ctx.Crisis)
	d.Strategy = entry.Strategy

	switch ctx.Crisis {
	case crisis.Red:
		d.OverrideActive = true
		if len(entry.Responses) > 0 {
			d.OverrideResponse = entry.Responses[f.sel.Pick("crisis/red", len(entry.Responses))]
		}
		d.ForcedElement = entry.ForcedElement
		d.ForcedArchetype = entry.ForcedArchetype
		return true
	case crisis.Yellow:
		d.OverrideActive = true
		if len(entry.Responses) > 0 {
			d.OverrideResponse = entry.Responses[f.sel.Pick("crisis/yellow", len(entry.Responses))]
		}
		return true
	}
	return false
}

// #endregion crisis-filter

// #region onboarding-filter

// onboardingFilter adjusts tone and persona bias during relationship
// building. Inert for stages without an onboarding block.
type onboardingFilter struct {
	sel selection.Selector
}

func (f *onboardingFilter) Name() string { return FilterOnboardingTone }

func (f *onboardingFilter) Apply(ctx Context, d *Directive) bool {
	m, ok := onboarding.Evaluate(ctx.RawText, ctx.Stage.Onboarding, f.sel)
	if !ok {
		return false
	}
	d.ToneTag = m.Tone
	d.Bias = d.Bias.Add(m.Bias)
	if m.Response != "" {
		d.TemplateHints = append(d.TemplateHints, "onboarding: "+m.Response)
	}
	return false
}

// #endregion onboarding-filter

// #region stage-tone-filter

// stageToneFilter stamps the stage's voice and tone vector onto the
// directive as generation hints.
type stageToneFilter struct{}

func (f *stageToneFilter) Name() string { return FilterStageTone }

func (f *stageToneFilter) Apply(ctx Context, d *Directive) bool {
	t := ctx.Stage.Tone
	d.TemplateHints = append(d.TemplateHints,
		fmt.Sprintf("voice: %s", ctx.Stage.Voice),
		fmt.Sprintf("tone: formality=%.1f directness=%.1f metaphysics=%.1f", t.Formality, t.Directness, t.MetaphysicalOpenness),
	)
	return false
}

// #endregion stage-tone-filter

// #region mastery-gate-filter

// masteryGateFilter marks the directive when the mastery voice will apply,
// so the generation collaborator can already write sparsely.
type masteryGateFilter struct{}

func (f *masteryGateFilter) Name() string { return FilterMasteryGate }

func (f *masteryGateFilter) Apply(ctx Context, d *Directive) bool {
	if mastery.Eligible(ctx.Stage.Mastery, ctx.Persona) {
		d.MasteryEligible = true
		d.TemplateHints = append(d.TemplateHints, "mastery voice active: short sentences, no jargon")
	}
	return false
}

// #endregion mastery-gate-filter
