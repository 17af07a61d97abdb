package pipeline

import (
	"github.com/nightjarlabs/companion-core/internal/crisis"
	"github.com/nightjarlabs/companion-core/internal/persona"
	"github.com/nightjarlabs/companion-core/internal/stage"
)

// #region filter-names

// Names of the filters with concrete handlers.
const (
	FilterCrisisOverride = "crisis_override"
	FilterOnboardingTone = "onboarding_tone"
	FilterStageTone      = "stage_tone"
	FilterMasteryGate    = "mastery_gate"
)

// #endregion filter-names

// #region strategies

// Override strategies carried on a directive.
const (
	StrategyMonitor   = "monitor"
	StrategyGrounding = "grounding"
	StrategyOverride  = "override"
)

// #endregion strategies

// #region directive

// Directive is the structured instruction set handed to the downstream
// generation collaborator. It is never final text.
type Directive struct {
	OverrideActive   bool              `json:"override_active"`
	Strategy         string            `json:"strategy"`
	OverrideResponse string            `json:"override_response,omitempty"`
	ForcedElement    string            `json:"forced_element,omitempty"`
	ForcedArchetype  string            `json:"forced_archetype,omitempty"`
	Bias             persona.BiasDelta `json:"bias"`
	ToneTag          string            `json:"tone_tag"`
	TemplateHints    []string          `json:"template_hints,omitempty"`
	MasteryEligible  bool              `json:"mastery_eligible"`
	Insights         []string          `json:"insights,omitempty"`
	Recommendations  []string          `json:"recommendations,omitempty"`
}

// #endregion directive

// #region context

// Context carries everything a filter may consult for one turn.
type Context struct {
	UserID  string
	RawText string
	Stage   stage.StageConfig
	Persona persona.State
	Crisis  crisis.Level
}

// #endregion context

// #region filter-interface

// Filter is one behavioral step. Apply mutates the accumulating directive
// and returns true to terminate the pipeline (a crisis override).
type Filter interface {
	Name() string
	Apply(ctx Context, d *Directive) (terminal bool)
}

// #endregion filter-interface
