package stage

import (
	"github.com/nightjarlabs/companion-core/internal/crisis"
	"github.com/nightjarlabs/companion-core/internal/persona"
)

// #region stage-config

// StageConfig is the immutable per-stage behavior declaration. One exists
// per relationship stage, loaded once at startup and read-only afterwards.
type StageConfig struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	Tone          ToneVector       `yaml:"tone"`
	Disclosure    DisclosureConfig `yaml:"disclosure"`
	Orchestration string           `yaml:"orchestration"`
	Voice         string           `yaml:"voice"`
	Element       string           `yaml:"element"` // default element tag for pattern records

	Onboarding *OnboardingConfig `yaml:"onboarding,omitempty"`
	Crisis     map[string]CrisisEntry `yaml:"crisis"`
	Mastery    *MasteryConfig    `yaml:"mastery,omitempty"`
	Filters    FilterConfig      `yaml:"filters"`
}

// CrisisEntry returns the crisis block entry for a level. Validation
// guarantees all three levels are present.
func (c StageConfig) CrisisEntry(level crisis.Level) CrisisEntry {
	return c.Crisis[string(level)]
}

// #endregion stage-config

// #region tone-vector

// ToneVector positions the stage's speaking register. Each axis is 0–1.
type ToneVector struct {
	Formality            float64 `yaml:"formality"`
	Directness           float64 `yaml:"directness"`
	MetaphysicalOpenness float64 `yaml:"metaphysical_openness"`
}

// #endregion tone-vector

// #region disclosure

// DisclosureConfig controls how much of its own process the companion
// reveals at this stage.
type DisclosureConfig struct {
	ShareReasoning   bool `yaml:"share_reasoning"`
	AdmitUncertainty bool `yaml:"admit_uncertainty"`
}

// #endregion disclosure

// #region onboarding

// OnboardingConfig declares the tone-detection rules for stages that adjust
// their persona during early relationship building. Rules are an explicit
// ordered list; the first rule whose keywords match wins.
type OnboardingConfig struct {
	Rules []ToneRule `yaml:"rules"`
}

// ToneRule pairs a tone tag with its trigger keywords, canned responses,
// and the persona-bias deltas applied when it fires.
type ToneRule struct {
	Tone      string            `yaml:"tone"`
	Keywords  []string          `yaml:"keywords"`
	Responses []string          `yaml:"responses"`
	Bias      persona.BiasDelta `yaml:"bias"`
}

// #endregion onboarding

// #region crisis-entry

// CrisisEntry declares the per-level safety behavior for a stage.
// ForcedElement/ForcedArchetype are set only on the red entry.
type CrisisEntry struct {
	Strategy        string   `yaml:"strategy"` // monitor | grounding | override
	Responses       []string `yaml:"responses"`
	ForcedElement   string   `yaml:"forced_element,omitempty"`
	ForcedArchetype string   `yaml:"forced_archetype,omitempty"`
}

// #endregion crisis-entry

// #region mastery

// MasteryConfig declares the terse post-processing voice available above
// configured trust/integration thresholds.
type MasteryConfig struct {
	Enabled          bool        `yaml:"enabled"`
	MinTrust         float64     `yaml:"min_trust"`
	MinIntegration   *int        `yaml:"min_integration,omitempty"` // nil = no integration gate
	Jargon           []JargonSub `yaml:"jargon"`
	MaxSentenceWords int         `yaml:"max_sentence_words"`
	SilenceInterval  int         `yaml:"silence_interval"` // insert a micro-silence after every N sentences
	ClosingLines     []string    `yaml:"closing_lines"`
	ParadoxLines     []string    `yaml:"paradox_lines"`
}

// JargonSub maps one jargon term to its plain-language replacement.
// Substitutions apply in declared order.
type JargonSub struct {
	Term  string `yaml:"term"`
	Plain string `yaml:"plain"`
}

// #endregion mastery

// #region filter-config

// FilterConfig declares which behavioral filters a stage considers and
// which subset is live. A name in Order but not Enabled is staged for a
// later rollout and never executes.
type FilterConfig struct {
	Order   []string `yaml:"order"`
	Enabled []string `yaml:"enabled"`
}

// EnabledSet returns the enabled names as a lookup set.
func (f FilterConfig) EnabledSet() map[string]bool {
	set := make(map[string]bool, len(f.Enabled))
	for _, name := range f.Enabled {
		set[name] = true
	}
	return set
}

// #endregion filter-config
