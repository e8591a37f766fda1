package question

import (
	"math/rand"
	"testing"

	"geo-quiz-service/internal/catalog"
	"geo-quiz-service/internal/domain"
)

func TestGenerateFillsTemplateFromRecord(t *testing.T) {
	population := int64(67000000)
	cat := catalog.New()
	cat.Upsert("FRA", catalog.RecordFromInfo(domain.CountryInfo{
		Code:       "FRA",
		Name:       "France",
		Capitals:   []string{"Paris"},
		Population: &population,
	}, cat.ResolveBorders))

	gen := New(cat, []string{"Which country has {capital} as its capital?"})
	qa := gen.Generate()

	if qa.Question != "Which country has Paris as its capital?" {
		t.Fatalf("unexpected question %q", qa.Question)
	}
	if qa.Answer != "France" {
		t.Fatalf("expected answer France, got %q", qa.Answer)
	}
}

func TestGenerateWithEmptyCatalog(t *testing.T) {
	gen := New(catalog.New(), []string{"Which country lies in {region}?"})
	qa := gen.Generate()
	if qa.Question != "Which country lies in Unknown?" || qa.Answer != domain.Unknown {
		t.Fatalf("expected generic question, got %+v", qa)
	}
}

func TestGenerateUsesDefaultTemplates(t *testing.T) {
	cat := catalog.New()
	cat.Upsert("ESP", domain.CountryRecord{Code: "ESP", Name: "Spain", Capital: "Madrid"})
	gen := NewWithRand(cat, nil, rand.New(rand.NewSource(3)))

	for i := 0; i < 20; i++ {
		qa := gen.Generate()
		if qa.Answer != "Spain" {
			t.Fatalf("expected Spain, got %q", qa.Answer)
		}
		if qa.Question == "" || placeholder.MatchString(qa.Question) {
			t.Fatalf("unfilled question %q", qa.Question)
		}
	}
}

func TestFill(t *testing.T) {
	tests := []struct {
		name     string
		template string
		values   map[string]any
		want     string
	}{
		{name: "nil values", template: "{a} and {b}", values: nil, want: "Unknown and Unknown"},
		{name: "missing key", template: "{capital}/{moon}", values: map[string]any{"capital": "Rome"}, want: "Rome/Unknown"},
		{name: "case sensitive", template: "{Capital}", values: map[string]any{"capital": "Rome"}, want: "Unknown"},
		{name: "nil value", template: "{x}", values: map[string]any{"x": nil}, want: "Unknown"},
		{name: "numbers", template: "{p} {a}", values: map[string]any{"p": 0, "a": 12.5}, want: "0 12.5"},
		{name: "structured", template: "{langs}", values: map[string]any{"langs": []string{"fr", "de"}}, want: `["fr","de"]`},
		{name: "repeated", template: "{x}{x}", values: map[string]any{"x": "ab"}, want: "abab"},
		{name: "no placeholders", template: "plain", values: nil, want: "plain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fill(tt.template, tt.values); got != tt.want {
				t.Fatalf("Fill = %q, want %q", got, tt.want)
			}
		})
	}
}
