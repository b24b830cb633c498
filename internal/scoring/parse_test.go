package scoring

import (
	"strings"
	"testing"
)

func TestParseEvaluationRescuesEmbeddedObject(t *testing.T) {
	raw := `Sure, here is the evaluation you asked for:
{"score": "72", "summary": "Fine.", "strengths": ["a"], "weaknesses": ["b"], "gaps": ["c"]}
Let me know if you need anything else.`

	eval, err := parseEvaluation(raw)
	if err != nil {
		t.Fatalf("parseEvaluation: %v", err)
	}
	if eval.Score != 72 {
		t.Errorf("score = %d, want 72 coerced from string", eval.Score)
	}
}

func TestParseEvaluationRejectsNonObject(t *testing.T) {
	for _, raw := range []string{"", "no json here", "[1, 2, 3]"} {
		if _, err := parseEvaluation(raw); err == nil {
			t.Errorf("parseEvaluation(%q) succeeded, want error", raw)
		}
	}
}

func TestCoerceListTruncatesAndDropsEmpties(t *testing.T) {
	items := []any{"a", "", "b", "c", "d", "e", "f", "g"}
	got := coerceList(items)

	if len(got) != maxListItems {
		t.Fatalf("len = %d, want %d", len(got), maxListItems)
	}
	if got[0] != "a" || got[1] != "b" {
		t.Errorf("unexpected list %v", got)
	}
}

func TestValidate(t *testing.T) {
	complete := Evaluation{
		Summary:    "s",
		Strengths:  []string{"a"},
		Weaknesses: []string{"b"},
		Gaps:       []string{"c"},
	}
	if err := complete.validate(); err != nil {
		t.Errorf("complete evaluation rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Evaluation)
	}{
		{"blank summary", func(e *Evaluation) { e.Summary = "  " }},
		{"no strengths", func(e *Evaluation) { e.Strengths = nil }},
		{"no weaknesses", func(e *Evaluation) { e.Weaknesses = nil }},
		{"no gaps", func(e *Evaluation) { e.Gaps = nil }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			eval := complete
			tc.mutate(&eval)
			if err := eval.validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestFallbackEvaluationFromNothing(t *testing.T) {
	eval := fallbackEvaluation(nil, "Data Analyst")

	if eval.Score != 0 {
		t.Errorf("score = %d, want 0", eval.Score)
	}
	if !strings.Contains(eval.Summary, "Data Analyst") {
		t.Errorf("summary %q does not name the position", eval.Summary)
	}
	if err := eval.validate(); err != nil {
		t.Errorf("fallback evaluation is not structurally valid: %v", err)
	}
}

func TestClampScore(t *testing.T) {
	for input, want := range map[int]int{-5: 0, 0: 0, 50: 50, 100: 100, 150: 100} {
		if got := clampScore(input); got != want {
			t.Errorf("clampScore(%d) = %d, want %d", input, got, want)
		}
	}
}
