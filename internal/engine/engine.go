// Package engine ties the decision layer together: one call per user turn
// producing a response directive, plus the post-generation voice pass.
package engine

import (
	"context"
	"log"

	"github.com/nightjarlabs/companion-core/internal/crisis"
	"github.com/nightjarlabs/companion-core/internal/mastery"
	"github.com/nightjarlabs/companion-core/internal/patterns"
	"github.com/nightjarlabs/companion-core/internal/persona"
	"github.com/nightjarlabs/companion-core/internal/pipeline"
	"github.com/nightjarlabs/companion-core/internal/selection"
	"github.com/nightjarlabs/companion-core/internal/stage"
)

// #region event-sink

// EventSink receives notable turn outcomes. Implementations own their
// delivery semantics; the engine treats publishing as best-effort and only
// logs failures.
type EventSink interface {
	InsightDetected(ctx context.Context, userID string, insights []string) error
}

// #endregion event-sink

// #region engine

// Engine is the per-turn decision layer. It is safe for concurrent use:
// its collaborators each guard their own state.
type Engine struct {
	registry *stage.Registry
	personas persona.Store
	tracker  *patterns.Tracker
	pipe     *pipeline.Pipeline
	sel      selection.Selector
	events   EventSink
}

// New assembles an engine from its collaborators.
func New(reg *stage.Registry, personas persona.Store, tracker *patterns.Tracker, pipe *pipeline.Pipeline, sel selection.Selector) *Engine {
	return &Engine{
		registry: reg,
		personas: personas,
		tracker:  tracker,
		pipe:     pipe,
		sel:      sel,
	}
}

// SetEventSink attaches an optional sink for insight events.
func (e *Engine) SetEventSink(s EventSink) {
	e.events = s
}

// #endregion engine

// #region process-turn

// ProcessTurn runs one user message through crisis detection, the stage's
// filter pipeline, persona bias application, and longitudinal tracking,
// returning the directive for the generation collaborator. It degrades
// rather than fails: storage errors are logged and the turn proceeds on
// defaults.
func (e *Engine) ProcessTurn(ctx context.Context, userID, stageID, rawText string) pipeline.Directive {
	level := crisis.Detect(rawText)
	cfg := e.registry.Get(stageID)

	state, err := e.personas.Get(ctx, userID)
	if err != nil {
		log.Printf("[ENGINE] persona read for %s failed, using defaults: %v", userID, err)
		state = persona.DefaultState(userID)
	}

	d := e.pipe.Run(cfg, pipeline.Context{
		UserID:  userID,
		RawText: rawText,
		Stage:   cfg,
		Persona: state,
		Crisis:  level,
	})

	if !d.Bias.IsZero() {
		updated := persona.Apply(state, d.Bias)
		if err := e.personas.Put(ctx, updated); err != nil {
			log.Printf("[ENGINE] persona save for %s failed: %v", userID, err)
		}
	}

	focal := patterns.DetectFocal(rawText)
	element := cfg.Element
	if d.ForcedElement != "" {
		element = d.ForcedElement
	}
	tracked := e.tracker.Track(ctx, userID, rawText, focal, element, d.OverrideResponse)
	d.Insights = tracked.Insights
	d.Recommendations = tracked.Recommendations

	if e.events != nil && len(tracked.Insights) > 0 {
		if err := e.events.InsightDetected(ctx, userID, tracked.Insights); err != nil {
			log.Printf("[ENGINE] insight event for %s failed: %v", userID, err)
		}
	}

	log.Printf("[ENGINE] turn user=%s stage=%s crisis=%s strategy=%s focal=%s",
		userID, cfg.ID, level, d.Strategy, tracked.Record.Focal)
	return d
}

// #endregion process-turn

// #region post-process

// PostProcess applies the stage's mastery voice to generated text. Text
// passes through unchanged when the stage has no mastery block or the
// user's persona does not clear its thresholds.
func (e *Engine) PostProcess(ctx context.Context, userID, stageID, text string) string {
	cfg := e.registry.Get(stageID)
	if cfg.Mastery == nil {
		return text
	}
	state, err := e.personas.Get(ctx, userID)
	if err != nil {
		log.Printf("[ENGINE] persona read for %s failed, skipping mastery pass: %v", userID, err)
		return text
	}
	return mastery.Apply(text, cfg.Mastery, state, e.sel)
}

// Profile is the read-only view of a user's longitudinal profile.
func (e *Engine) Profile(ctx context.Context, userID string) (patterns.UserProfile, bool, error) {
	return e.tracker.Summary(ctx, userID)
}

// #endregion post-process
