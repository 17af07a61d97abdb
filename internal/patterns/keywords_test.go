package patterns

import (
	"reflect"
	"testing"
)

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			"basic",
			"I keep avoiding my brother's wedding invitation",
			[]string{"keep", "avoiding", "brother", "wedding", "invitation"},
		},
		{
			"lowercase-and-punctuation",
			"Career?! CAREER... career.",
			[]string{"career"},
		},
		{
			"stopwords-and-short-dropped",
			"it is so at me up the an",
			nil,
		},
		{"empty", "", nil},
		{"whitespace", "   \t\n ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractKeywords(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractKeywords(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractKeywordsPure(t *testing.T) {
	text := "Dreaming about changing my career before the deadline"
	first := ExtractKeywords(text)
	for i := 0; i < 5; i++ {
		if got := ExtractKeywords(text); !reflect.DeepEqual(got, first) {
			t.Fatalf("extraction not repeatable: %v then %v", first, got)
		}
	}
}

func TestSignatureOrderIndependent(t *testing.T) {
	a := Signature([]string{"career", "fear", "change"})
	b := Signature([]string{"fear", "change", "career"})
	if a != b {
		t.Errorf("signatures differ for same set: %q vs %q", a, b)
	}
	if Signature(nil) != "" {
		t.Errorf("empty set should have empty signature")
	}
}

func TestConfidence(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		focal FocalPoint
		want  float64
	}{
		{"no-markers", "plain text with nothing", FocalShadow, 0.5},
		{"empty", "", FocalIdeal, 0.5},
		{"one-marker", "I'm afraid of this", FocalShadow, 0.6},
		{"four-markers", "afraid and ashamed, carrying guilt and fear", FocalShadow, 0.9},
		{"capped", "afraid, fear, avoid, ashamed, guilt, angry, resent", FocalShadow, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Confidence(tt.text, tt.focal)
			if got < tt.want-0.001 || got > tt.want+0.001 {
				t.Errorf("Confidence = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfidenceMonotonic(t *testing.T) {
	texts := []string{
		"nothing here",
		"I'm afraid",
		"I'm afraid and ashamed",
		"I'm afraid and ashamed and angry",
		"I'm afraid and ashamed and angry and jealous",
	}
	prev := 0.0
	for _, text := range texts {
		got := Confidence(text, FocalShadow)
		if got < prev {
			t.Fatalf("confidence decreased: %v after %v (%q)", got, prev, text)
		}
		if got > 1.0 {
			t.Fatalf("confidence %v exceeds cap", got)
		}
		prev = got
	}
}

func TestDetectFocal(t *testing.T) {
	tests := []struct {
		name string
		text string
		want FocalPoint
	}{
		{"ideal", "I dream of who I want to be someday", FocalIdeal},
		{"shadow", "I'm afraid and ashamed of how angry I get", FocalShadow},
		{"resources", "My friend helped me, I'm grateful for the support", FocalResources},
		{"outcome", "My goal is to finish the plan before the deadline", FocalOutcome},
		{"default-ideal", "nothing matches here", FocalIdeal},
		{"tie-breaks-to-order", "I wish it were different but I'm afraid", FocalIdeal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFocal(tt.text); got != tt.want {
				t.Errorf("DetectFocal(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
