package scoring

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

type stubReply struct {
	text string
	err  error
}

// stubGenerator replays a scripted sequence of evaluator replies. Once the
// script is exhausted the last reply repeats.
type stubGenerator struct {
	replies []stubReply
	calls   int
	prompts []string
}

func (g *stubGenerator) GenerateContent(_ context.Context, _, prompt string) (string, error) {
	i := g.calls
	if i >= len(g.replies) {
		i = len(g.replies) - 1
	}
	g.calls++
	g.prompts = append(g.prompts, prompt)
	return g.replies[i].text, g.replies[i].err
}

func newTestEngine(gen Generator) *Engine {
	return NewEngine(gen, Config{CallSpacing: time.Millisecond}, zap.NewNop())
}

const validReply = `{"score": 85, "summary": "Strong analyst profile.",
"strengths": ["SQL", "Python"], "weaknesses": ["No cloud exposure"],
"gaps": ["Team leadership"]}`

func TestEvaluateFirstAttemptSuccess(t *testing.T) {
	gen := &stubGenerator{replies: []stubReply{{text: validReply}}}
	eval, outcome := newTestEngine(gen).Evaluate(context.Background(), "resume text", "Data Analyst", "desc")

	if outcome.FellBack {
		t.Fatalf("unexpected fallback: %v", outcome.Err)
	}
	if outcome.Attempts != 1 {
		t.Errorf("attempts = %d, want 1", outcome.Attempts)
	}
	if eval.Score != 85 {
		t.Errorf("score = %d, want 85", eval.Score)
	}
	if eval.Summary != "Strong analyst profile." {
		t.Errorf("unexpected summary %q", eval.Summary)
	}
	if len(eval.Strengths) != 2 || eval.Strengths[0] != "SQL" {
		t.Errorf("unexpected strengths %v", eval.Strengths)
	}
}

func TestEvaluateRetriesThenSucceeds(t *testing.T) {
	incomplete := `{"score": 70, "summary": "ok", "strengths": [], "weaknesses": ["w"], "gaps": ["g"]}`
	gen := &stubGenerator{replies: []stubReply{
		{text: incomplete},
		{text: incomplete},
		{text: validReply},
	}}

	eval, outcome := newTestEngine(gen).Evaluate(context.Background(), "resume", "Data Analyst", "desc")

	if outcome.FellBack {
		t.Fatalf("fell back instead of using third attempt: %v", outcome.Err)
	}
	if outcome.Attempts != 3 {
		t.Errorf("attempts = %d, want 3", outcome.Attempts)
	}
	if eval.Score != 85 {
		t.Errorf("score = %d, want the third attempt's 85", eval.Score)
	}
}

func TestEvaluateExhaustedRetriesFallsBack(t *testing.T) {
	gen := &stubGenerator{replies: []stubReply{{err: errors.New("boom")}}}

	eval, outcome := newTestEngine(gen).Evaluate(context.Background(), "resume", "Data Analyst", "desc")

	if !outcome.FellBack {
		t.Fatal("expected fallback after exhausted retries")
	}
	if outcome.Attempts != 3 {
		t.Errorf("attempts = %d, want 3", outcome.Attempts)
	}
	if outcome.Err == nil {
		t.Error("expected terminal error in outcome")
	}
	if eval.Score != 0 {
		t.Errorf("fallback score = %d, want 0", eval.Score)
	}
	if eval.Summary == "" {
		t.Error("fallback summary is empty")
	}
	for _, list := range [][]string{eval.Strengths, eval.Weaknesses, eval.Gaps} {
		if len(list) != 1 || !strings.Contains(list[0], "could not be determined") {
			t.Errorf("fallback list = %v, want single placeholder", list)
		}
	}
}

func TestEvaluateFallbackKeepsPartialFields(t *testing.T) {
	// Score and summary parse, strengths never arrive. The fallback must
	// keep what the evaluator did produce.
	partial := `{"score": 40, "summary": "Partial read.", "strengths": [], "weaknesses": ["w"], "gaps": ["g"]}`
	gen := &stubGenerator{replies: []stubReply{{text: partial}}}

	eval, outcome := newTestEngine(gen).Evaluate(context.Background(), "resume", "Data Analyst", "desc")

	if !outcome.FellBack {
		t.Fatal("expected fallback")
	}
	if eval.Score != 40 {
		t.Errorf("score = %d, want partial 40", eval.Score)
	}
	if eval.Summary != "Partial read." {
		t.Errorf("summary = %q, want partial summary", eval.Summary)
	}
	if len(eval.Strengths) != 1 || eval.Strengths[0] != fallbackStrengths {
		t.Errorf("strengths = %v, want placeholder", eval.Strengths)
	}
	if eval.Weaknesses[0] != "w" {
		t.Errorf("weaknesses = %v, want partial list kept", eval.Weaknesses)
	}
}

func TestEvaluateClampsOutOfRangeScore(t *testing.T) {
	gen := &stubGenerator{replies: []stubReply{{text: `{"score": 150,
"summary": "s", "strengths": ["a"], "weaknesses": ["b"], "gaps": ["c"]}`}}}

	eval, outcome := newTestEngine(gen).Evaluate(context.Background(), "resume", "Data Analyst", "desc")

	if outcome.FellBack {
		t.Fatalf("unexpected fallback: %v", outcome.Err)
	}
	if eval.Score != 100 {
		t.Errorf("score = %d, want clamped 100", eval.Score)
	}
}

func TestEvaluateParsesFencedResponse(t *testing.T) {
	gen := &stubGenerator{replies: []stubReply{{text: "```json\n" + validReply + "\n```"}}}

	eval, outcome := newTestEngine(gen).Evaluate(context.Background(), "resume", "Data Analyst", "desc")

	if outcome.FellBack {
		t.Fatalf("unexpected fallback: %v", outcome.Err)
	}
	if eval.Score != 85 {
		t.Errorf("score = %d, want 85", eval.Score)
	}
}

func TestEvaluateTruncatesContext(t *testing.T) {
	gen := &stubGenerator{replies: []stubReply{{text: validReply}}}
	engine := NewEngine(gen, Config{ContextLimit: 10, CallSpacing: time.Millisecond}, zap.NewNop())

	engine.Evaluate(context.Background(), strings.Repeat("x", 50), "Data Analyst", "desc")

	if len(gen.prompts) != 1 {
		t.Fatalf("calls = %d, want 1", len(gen.prompts))
	}
	if strings.Contains(gen.prompts[0], strings.Repeat("x", 11)) {
		t.Error("prompt contains more candidate context than the limit allows")
	}
	if !strings.Contains(gen.prompts[0], strings.Repeat("x", 10)) {
		t.Error("prompt is missing the truncated candidate context")
	}
}

func TestExtractName(t *testing.T) {
	cases := []struct {
		name  string
		reply stubReply
		want  string
	}{
		{"plain", stubReply{text: "Jane Doe"}, "Jane Doe"},
		{"quoted", stubReply{text: `"Jane Doe"`}, "Jane Doe"},
		{"padded", stubReply{text: "  Jane Doe \t"}, "Jane Doe"},
		{"multiline prose", stubReply{text: "The candidate's name is:\nJane Doe"}, UnknownName},
		{"overlong", stubReply{text: strings.Repeat("a", 101)}, UnknownName},
		{"transport error", stubReply{err: errors.New("boom")}, UnknownName},
		{"empty reply", stubReply{text: "   "}, UnknownName},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gen := &stubGenerator{replies: []stubReply{tc.reply}}
			got := newTestEngine(gen).ExtractName(context.Background(), "resume text")
			if got != tc.want {
				t.Errorf("ExtractName() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestExtractNameSkipsEmptyResume(t *testing.T) {
	gen := &stubGenerator{replies: []stubReply{{text: "Jane Doe"}}}
	got := newTestEngine(gen).ExtractName(context.Background(), "   ")

	if got != UnknownName {
		t.Errorf("ExtractName() = %q, want %q", got, UnknownName)
	}
	if gen.calls != 0 {
		t.Errorf("evaluator called %d times for empty resume, want 0", gen.calls)
	}
}
