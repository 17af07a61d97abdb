package engine

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/nightjarlabs/companion-core/internal/patterns"
	"github.com/nightjarlabs/companion-core/internal/persona"
	"github.com/nightjarlabs/companion-core/internal/pipeline"
	"github.com/nightjarlabs/companion-core/internal/selection"
	"github.com/nightjarlabs/companion-core/internal/stage"
)

func newTestEngine(t *testing.T) (*Engine, persona.Store) {
	t.Helper()
	sel := selection.Fixed(0)
	pipe := pipeline.New(sel)
	reg, err := stage.NewRegistry(stage.Builtin(), pipe.ValidationSet())
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	store := persona.NewMemoryStore()
	tracker := patterns.NewTracker(patterns.NewMemoryRepository())
	return New(reg, store, tracker, pipe, sel), store
}

func TestRedCrisisTurnOverrides(t *testing.T) {
	e, _ := newTestEngine(t)
	d := e.ProcessTurn(context.Background(), "u1", "structured_guide", "I feel hopeless, there is no way out")

	if !d.OverrideActive || d.Strategy != pipeline.StrategyOverride {
		t.Fatalf("red turn should override: %+v", d)
	}
	if d.ForcedElement != "earth" || d.ForcedArchetype != "protector" {
		t.Errorf("red turn should force earth/protector: %+v", d)
	}
	if d.OverrideResponse == "" {
		t.Error("red turn should carry a canned response")
	}
}

func TestOnboardingBiasPersists(t *testing.T) {
	e, store := newTestEngine(t)
	ctx := context.Background()

	before, _ := store.Get(ctx, "u2")
	d := e.ProcessTurn(ctx, "u2", "structured_guide", "I'm not sure what to say here")
	if d.ToneTag != "hesitant" {
		t.Fatalf("tone = %q, want hesitant", d.ToneTag)
	}

	after, _ := store.Get(ctx, "u2")
	if after.Trust <= before.Trust {
		t.Errorf("hesitant turn should raise trust: before %.3f after %.3f", before.Trust, after.Trust)
	}
}

func TestNeutralTurnLeavesPersonaUntouched(t *testing.T) {
	e, store := newTestEngine(t)
	ctx := context.Background()

	e.ProcessTurn(ctx, "u3", "structured_guide", "the weather was fine today")
	after, _ := store.Get(ctx, "u3")
	if after != persona.DefaultState("u3") {
		t.Errorf("neutral turn should not modify persona: %+v", after)
	}
}

func TestUnknownStageFallsBack(t *testing.T) {
	e, _ := newTestEngine(t)
	d := e.ProcessTurn(context.Background(), "u4", "no_such_stage", "I'm not sure where to begin")
	// The default stage carries the onboarding block, so the hesitant rule
	// still fires.
	if d.ToneTag != "hesitant" {
		t.Errorf("fallback stage should classify tone, got %q", d.ToneTag)
	}
}

func TestRepeatedTopicSurfacesInsight(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	var d pipeline.Directive
	for i := 0; i < 4; i++ {
		d = e.ProcessTurn(ctx, "u5", "dialogical_companion", "my manager keeps dismissing my project ideas")
	}
	found := false
	for _, in := range d.Insights {
		if strings.Contains(in, "circled") || strings.Contains(in, "returned") {
			found = true
		}
	}
	if !found {
		t.Errorf("repeated topic should surface a stuck insight, got %v", d.Insights)
	}
}

func TestProfileReadIsSideEffectFree(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	e.ProcessTurn(ctx, "u6", "dialogical_companion", "thinking about my career direction")

	p1, ok, err := e.Profile(ctx, "u6")
	if err != nil || !ok {
		t.Fatalf("profile read: ok=%v err=%v", ok, err)
	}
	p2, _, _ := e.Profile(ctx, "u6")
	if fmt.Sprint(p1) != fmt.Sprint(p2) {
		t.Errorf("repeated profile reads differ:\n%+v\n%+v", p1, p2)
	}
}

func TestPostProcessAppliesMasteryVoice(t *testing.T) {
	e, store := newTestEngine(t)
	ctx := context.Background()

	if err := store.Put(ctx, persona.State{UserID: "u7", Trust: 0.9, Integration: 8}); err != nil {
		t.Fatal(err)
	}
	got := e.PostProcess(ctx, "u7", "transparent_prism", "The archetype asks for shadow work.")
	if strings.Contains(got, "archetype") {
		t.Errorf("mastery pass should strip jargon: %q", got)
	}
	if !strings.HasSuffix(got, "Sit with that.") {
		t.Errorf("mastery pass should append a closing line: %q", got)
	}
}

func TestPostProcessSkipsWithoutMasteryBlock(t *testing.T) {
	e, _ := newTestEngine(t)
	in := "The archetype asks for shadow work."
	if got := e.PostProcess(context.Background(), "u8", "structured_guide", in); got != in {
		t.Errorf("stage without mastery block should pass through, got %q", got)
	}
}

type recordingSink struct {
	users    []string
	insights [][]string
}

func (r *recordingSink) InsightDetected(_ context.Context, userID string, insights []string) error {
	r.users = append(r.users, userID)
	r.insights = append(r.insights, insights)
	return nil
}

func TestInsightEventsReachSink(t *testing.T) {
	e, _ := newTestEngine(t)
	sink := &recordingSink{}
	e.SetEventSink(sink)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		e.ProcessTurn(ctx, "u9", "dialogical_companion", "my manager keeps dismissing my project ideas")
	}
	if len(sink.users) == 0 {
		t.Fatal("sink never received an insight event")
	}
	if sink.users[len(sink.users)-1] != "u9" {
		t.Errorf("sink user = %q", sink.users[len(sink.users)-1])
	}
}
