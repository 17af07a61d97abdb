package patterns

import (
	"context"
	"fmt"
	"reflect"
	"testing"
)

func track(t *testing.T, tr *Tracker, user, input string, focal FocalPoint) TrackResult {
	t.Helper()
	return tr.Track(context.Background(), user, input, focal, "earth", "ok")
}

func TestTrajectoryExpandingUnderFiveRecords(t *testing.T) {
	tr := NewTracker(NewMemoryRepository())
	var res TrackResult
	for i := 0; i < 4; i++ {
		res = track(t, tr, "u1", fmt.Sprintf("topic alpha%d unique words here", i), FocalShadow)
	}
	if res.Profile.Trajectory != TrajectoryExpanding {
		t.Errorf("trajectory = %q, want %q with fewer than 5 records", res.Profile.Trajectory, TrajectoryExpanding)
	}
}

func TestTrajectoryDeepening(t *testing.T) {
	tr := NewTracker(NewMemoryRepository())
	var res TrackResult
	for i := 0; i < 6; i++ {
		res = track(t, tr, "u1", fmt.Sprintf("distinct subject number%d entirely fresh", i), FocalShadow)
	}
	if res.Profile.Trajectory != TrajectoryDeepening {
		t.Errorf("trajectory = %q, want %q for one focal point", res.Profile.Trajectory, TrajectoryDeepening)
	}
}

func TestTrajectoryIntegrating(t *testing.T) {
	tr := NewTracker(NewMemoryRepository())
	focals := []FocalPoint{FocalIdeal, FocalShadow, FocalResources, FocalIdeal, FocalShadow, FocalResources}
	var res TrackResult
	for i, f := range focals {
		res = track(t, tr, "u1", fmt.Sprintf("distinct subject number%d entirely fresh", i), f)
	}
	if res.Profile.Trajectory != TrajectoryIntegrating {
		t.Errorf("trajectory = %q, want %q for 3 distinct focal points", res.Profile.Trajectory, TrajectoryIntegrating)
	}
}

func TestTrajectoryCycling(t *testing.T) {
	tr := NewTracker(NewMemoryRepository())
	var res TrackResult
	// 5 of 6 records share one keyword signature: distinct signatures stay
	// below 30% of the window capacity.
	for i := 0; i < 5; i++ {
		res = track(t, tr, "u1", "stuck career change fear", FocalShadow)
	}
	res = track(t, tr, "u1", "different topic entirely elsewhere", FocalIdeal)
	if res.Profile.Trajectory != TrajectoryCycling {
		t.Errorf("trajectory = %q, want %q", res.Profile.Trajectory, TrajectoryCycling)
	}
}

func TestStuckPoints(t *testing.T) {
	tr := NewTracker(NewMemoryRepository())

	// Two occurrences: not stuck.
	track(t, tr, "u1", "career fear looming", FocalShadow)
	res := track(t, tr, "u1", "career fear looming", FocalShadow)
	if len(res.Profile.StuckPoints) != 0 {
		t.Errorf("two occurrences should not be stuck: %v", res.Profile.StuckPoints)
	}

	// Third occurrence crosses the threshold.
	res = track(t, tr, "u1", "career fear looming", FocalShadow)
	if len(res.Profile.StuckPoints) != 1 {
		t.Fatalf("three occurrences should report one stuck point, got %v", res.Profile.StuckPoints)
	}
	want := Signature([]string{"career", "fear", "looming"})
	if res.Profile.StuckPoints[0] != want {
		t.Errorf("stuck point = %q, want %q", res.Profile.StuckPoints[0], want)
	}
	if res.Record.Resolution != ResolutionStuck {
		t.Errorf("resolution = %q, want %q", res.Record.Resolution, ResolutionStuck)
	}
}

func TestResolutionLadder(t *testing.T) {
	tr := NewTracker(NewMemoryRepository())

	res := track(t, tr, "u1", "wedding brother conflict", FocalShadow)
	if res.Record.Resolution != ResolutionResolved {
		t.Errorf("fresh topic resolution = %q, want %q", res.Record.Resolution, ResolutionResolved)
	}

	res = track(t, tr, "u1", "wedding brother conflict", FocalShadow)
	if res.Record.Resolution != ResolutionRecurring {
		t.Errorf("repeat resolution = %q, want %q", res.Record.Resolution, ResolutionRecurring)
	}

	res = track(t, tr, "u1", "brother conflict escalating badly", FocalShadow)
	if res.Record.Resolution != ResolutionEvolving {
		t.Errorf("overlapping resolution = %q, want %q", res.Record.Resolution, ResolutionEvolving)
	}
}

func TestRelatedPatterns(t *testing.T) {
	tr := NewTracker(NewMemoryRepository())

	track(t, tr, "u1", "career change fear", FocalShadow)
	track(t, tr, "u1", "totally unrelated gardening hobby", FocalResources)
	res := track(t, tr, "u1", "career fear again tonight", FocalShadow)

	if len(res.Record.Related) != 1 {
		t.Fatalf("related = %v, want exactly one", res.Record.Related)
	}
	got := res.Record.Related[0]
	if got.Focal != FocalShadow || got.Element != "earth" {
		t.Errorf("related ref = %+v", got)
	}
	if !reflect.DeepEqual(got.Shared, []string{"career", "fear"}) {
		t.Errorf("shared keywords = %v", got.Shared)
	}
}

func TestRelatedPatternsCapAtThree(t *testing.T) {
	tr := NewTracker(NewMemoryRepository())
	for i := 0; i < 6; i++ {
		track(t, tr, "u1", "career fear persistent", FocalShadow)
	}
	res := track(t, tr, "u1", "career fear once more", FocalShadow)
	if len(res.Record.Related) != 3 {
		t.Errorf("related count = %d, want 3", len(res.Record.Related))
	}
}

func TestDominantFocalTieBreaksFirstSeen(t *testing.T) {
	tr := NewTracker(NewMemoryRepository())
	track(t, tr, "u1", "subject one alpha", FocalOutcome)
	track(t, tr, "u1", "subject two beta", FocalShadow)
	track(t, tr, "u1", "subject three gamma", FocalOutcome)
	res := track(t, tr, "u1", "subject four delta", FocalShadow)

	// 2–2 tie: outcome was seen first in the window.
	if res.Profile.DominantFocal != FocalOutcome {
		t.Errorf("dominant = %q, want %q (first seen)", res.Profile.DominantFocal, FocalOutcome)
	}
}

func TestTrackStoresResponse(t *testing.T) {
	tr := NewTracker(NewMemoryRepository())
	res := tr.Track(context.Background(), "u1", "career fear change", FocalShadow, "earth", "Let's slow down together.")
	if res.Record.Response != "Let's slow down together." {
		t.Errorf("response = %q", res.Record.Response)
	}

	recs, err := tr.repo.Recent(context.Background(), "u1", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Response != "Let's slow down together." {
		t.Errorf("stored record = %+v", recs)
	}
}

func TestMalformedInputSafe(t *testing.T) {
	tr := NewTracker(NewMemoryRepository())
	res := track(t, tr, "u1", "", FocalIdeal)
	if res.Record.Confidence != 0.5 {
		t.Errorf("confidence = %v, want base 0.5", res.Record.Confidence)
	}
	if len(res.Record.Keywords) != 0 {
		t.Errorf("keywords = %v, want empty", res.Record.Keywords)
	}
}

func TestSummaryIsReadOnly(t *testing.T) {
	tr := NewTracker(NewMemoryRepository())
	track(t, tr, "u1", "career fear change", FocalShadow)
	track(t, tr, "u1", "career fear change", FocalShadow)

	ctx := context.Background()
	first, ok, err := tr.Summary(ctx, "u1")
	if err != nil || !ok {
		t.Fatalf("Summary: ok=%v err=%v", ok, err)
	}
	second, ok, err := tr.Summary(ctx, "u1")
	if err != nil || !ok {
		t.Fatalf("Summary: ok=%v err=%v", ok, err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Summary mutated state:\n%+v\n%+v", first, second)
	}
}

func TestBreakthroughRecorded(t *testing.T) {
	tr := NewTracker(NewMemoryRepository())
	// Establish an outcome-dominant profile.
	for i := 0; i < 3; i++ {
		track(t, tr, "u1", fmt.Sprintf("plan step%d toward goal", i), FocalOutcome)
	}
	// High-confidence turn through a different lens.
	res := track(t, tr, "u1", "afraid, fear, avoid, ashamed, guilt everywhere", FocalShadow)
	if res.Record.Confidence < 0.9 {
		t.Fatalf("test setup: confidence %v below breakthrough bar", res.Record.Confidence)
	}
	if len(res.Profile.Breakthroughs) != 1 {
		t.Fatalf("breakthroughs = %v, want one entry", res.Profile.Breakthroughs)
	}
}

func TestUsersIsolated(t *testing.T) {
	tr := NewTracker(NewMemoryRepository())
	track(t, tr, "u1", "career fear change", FocalShadow)
	res := track(t, tr, "u2", "career fear change", FocalShadow)
	if len(res.Record.Related) != 0 {
		t.Errorf("u2 should not see u1 history: %v", res.Record.Related)
	}
}
