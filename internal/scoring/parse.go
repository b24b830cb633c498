package scoring

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const maxListItems = 5

// Deterministic placeholders substituted when the evaluator cannot produce a
// complete response after retries.
const (
	fallbackStrengths  = "Strengths could not be determined from automated analysis."
	fallbackWeaknesses = "Weaknesses could not be determined from automated analysis."
	fallbackGaps       = "Gaps could not be determined from automated analysis."
)

// parseEvaluation parses the evaluator reply permissively: code fences and
// surrounding noise are tolerated, the payload itself must be a JSON object.
func parseEvaluation(raw string) (*Evaluation, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		// Rescue the outermost {...} block before giving up.
		start := strings.Index(cleaned, "{")
		end := strings.LastIndex(cleaned, "}")
		if start == -1 || end <= start {
			return nil, fmt.Errorf("parse evaluator response: %w", err)
		}
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), &data); err != nil {
			return nil, fmt.Errorf("parse evaluator response: %w", err)
		}
	}

	return &Evaluation{
		Score:      clampScore(coerceInt(data["score"])),
		Summary:    coerceString(data["summary"]),
		Strengths:  coerceList(data["strengths"]),
		Weaknesses: coerceList(data["weaknesses"]),
		Gaps:       coerceList(data["gaps"]),
	}, nil
}

// validate checks the response contract: a non-empty summary and at least one
// item in each list. Over-long lists were already truncated during coercion.
func (e *Evaluation) validate() error {
	if strings.TrimSpace(e.Summary) == "" {
		return errors.New("empty summary")
	}
	if len(e.Strengths) == 0 {
		return errors.New("empty strengths list")
	}
	if len(e.Weaknesses) == 0 {
		return errors.New("empty weaknesses list")
	}
	if len(e.Gaps) == 0 {
		return errors.New("empty gaps list")
	}
	return nil
}

// fallbackEvaluation completes a partial (or absent) evaluation with
// placeholder values so the result is always structurally valid.
func fallbackEvaluation(partial *Evaluation, positionTitle string) *Evaluation {
	eval := partial
	if eval == nil {
		eval = &Evaluation{}
	}

	eval.Score = clampScore(eval.Score)
	if strings.TrimSpace(eval.Summary) == "" {
		eval.Summary = fmt.Sprintf("Candidate evaluation for %s position.", positionTitle)
	}
	if len(eval.Strengths) == 0 {
		eval.Strengths = []string{fallbackStrengths}
	}
	if len(eval.Weaknesses) == 0 {
		eval.Weaknesses = []string{fallbackWeaknesses}
	}
	if len(eval.Gaps) == 0 {
		eval.Gaps = []string{fallbackGaps}
	}
	return eval
}

// clampScore absorbs benign model over/undershoot instead of rejecting it.
func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceInt(v any) int {
	switch val := v.(type) {
	case float64:
		return int(val)
	case int:
		return val
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	default:
		if v == nil {
			return ""
		}
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

func coerceList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := coerceString(item); s != "" {
			out = append(out, s)
		}
		if len(out) == maxListItems {
			break
		}
	}
	return out
}
