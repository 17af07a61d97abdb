// Package pipeline orders and executes the behavioral filters a stage
// declares, accumulating a single ResponseDirective per turn.
package pipeline

import (
	"log"

	"github.com/nightjarlabs/companion-core/internal/selection"
	"github.com/nightjarlabs/companion-core/internal/stage"
)

// #region pipeline

// Pipeline holds the concrete filter handlers and the registered
// placeholder names. Placeholders are configuration-declared filters that
// intentionally have no behavior yet; they execute as logged no-ops.
type Pipeline struct {
	handlers     map[string]Filter
	placeholders map[string]bool
}

// New builds a pipeline with the four built-in filters wired to the given
// selector, plus the default placeholder names.
func New(sel selection.Selector) *Pipeline {
	p := &Pipeline{
		handlers:     make(map[string]Filter),
		placeholders: make(map[string]bool),
	}
	p.register(&crisisFilter{sel: sel})
	p.register(&onboardingFilter{sel: sel})
	p.register(&stageToneFilter{})
	p.register(&masteryGateFilter{})
	p.RegisterPlaceholder("collective_resonance")
	p.RegisterPlaceholder("ritual_pacing")
	return p
}

func (p *Pipeline) register(f Filter) {
	p.handlers[f.Name()] = f
}

// RegisterPlaceholder declares a filter name as an intentional
// pass-through, making it legal in stage configuration.
func (p *Pipeline) RegisterPlaceholder(name string) {
	p.placeholders[name] = true
}

// ValidationSet exposes the known and placeholder filter names for
// startup-time stage validation. The crisis filter is required: the red
// short-circuit lives there, so no stage may disable or omit it.
func (p *Pipeline) ValidationSet() stage.ValidationSet {
	known := make(map[string]bool, len(p.handlers))
	for name := range p.handlers {
		known[name] = true
	}
	placeholders := make(map[string]bool, len(p.placeholders))
	for name := range p.placeholders {
		placeholders[name] = true
	}
	return stage.ValidationSet{
		Known:        known,
		Placeholders: placeholders,
		Required:     map[string]bool{FilterCrisisOverride: true},
	}
}

// #endregion pipeline

// #region run

// Run executes the stage's filters strictly in declared order. Only
// filters present in both the order list and the enabled set run. The
// first terminal filter (a red or yellow crisis override) stops the
// pipeline; otherwise effects accumulate into the returned directive.
func (p *Pipeline) Run(cfg stage.StageConfig, ctx Context) Directive {
	d := Directive{Strategy: StrategyMonitor, ToneTag: "neutral"}
	enabled := cfg.Filters.EnabledSet()

	for _, name := range cfg.Filters.Order {
		if !enabled[name] {
			continue
		}
		handler, ok := p.handlers[name]
		if !ok {
			// Registered placeholder: explicit no-op, never a crash.
			log.Printf("[PIPELINE] stage %s: filter %q is a placeholder, passing through", cfg.ID, name)
			continue
		}
		if handler.Apply(ctx, &d) {
			log.Printf("[PIPELINE] stage %s: filter %q terminated with strategy=%s", cfg.ID, name, d.Strategy)
			return d
		}
	}
	return d
}

// #endregion run
