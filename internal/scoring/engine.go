// Package scoring evaluates one candidate against one job position through an
// external language-model evaluator, enforcing the response contract with a
// bounded retry budget and deterministic fallbacks.
package scoring

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

//go:embed score_prompt.md
var scorePromptTemplate string

//go:embed name_prompt.md
var namePromptTemplate string

const (
	scoreSystemInstruction = "You are a professional HR assistant that evaluates candidate-job fit. Always provide complete JSON responses with all required fields."
	nameSystemInstruction  = "You are a name extraction assistant. Return only the candidate's full name."

	// UnknownName mirrors the candidate package label; kept local so the
	// engine has no dependency on ingestion types.
	UnknownName = "Unknown Candidate"

	maxNameRunes = 100
)

// Generator is the evaluator transport. Implemented by the gemini subpackage
// and by stubs in tests.
type Generator interface {
	GenerateContent(ctx context.Context, system, prompt string) (string, error)
}

// Config bounds the engine. Zero values fall back to defaults so tests can
// vary each knob independently.
type Config struct {
	// MaxRetries is the number of additional attempts after the first
	// (default 2, so 3 attempts total).
	MaxRetries int
	// ContextLimit caps the resume text fed into an evaluation, in runes.
	// Roughly 3-4 pages; more adds noise without improving relevance.
	ContextLimit int
	// NameLimit caps the resume text fed into name extraction, in runes.
	NameLimit int
	// CallSpacing is the minimum delay between evaluator calls, shared
	// across the whole run.
	CallSpacing time.Duration
	// MaxLogLength truncates prompt/response previews in debug logs.
	MaxLogLength int
}

const (
	defaultMaxRetries   = 2
	defaultContextLimit = 4000
	defaultNameLimit    = 1000
	defaultCallSpacing  = 2 * time.Second
	defaultMaxLogLength = 200
)

func (c Config) withDefaults() Config {
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	} else if c.MaxRetries == 0 {
		c.MaxRetries = defaultMaxRetries
	}
	if c.ContextLimit <= 0 {
		c.ContextLimit = defaultContextLimit
	}
	if c.NameLimit <= 0 {
		c.NameLimit = defaultNameLimit
	}
	if c.CallSpacing <= 0 {
		c.CallSpacing = defaultCallSpacing
	}
	if c.MaxLogLength <= 0 {
		c.MaxLogLength = defaultMaxLogLength
	}
	return c
}

// Evaluation is a structurally complete scoring outcome. Score is always in
// [0,100] and each list carries 1-5 items.
type Evaluation struct {
	Score      int
	Summary    string
	Strengths  []string
	Weaknesses []string
	Gaps       []string
}

// Outcome describes how an evaluation concluded, for the usage log and the
// run summary.
type Outcome struct {
	Attempts int
	FellBack bool
	// Err is the terminal transport or validation error when FellBack is
	// set; informational only.
	Err error
}

// Engine drives the retry/validate/fallback cycle against the evaluator.
// A single limiter is shared by all calls in a run, including name
// extraction, to respect the evaluator's minimum inter-call spacing.
type Engine struct {
	generator Generator
	limiter   *rate.Limiter
	cfg       Config
	logger    *zap.Logger
}

func NewEngine(generator Generator, cfg Config, logger *zap.Logger) *Engine {
	cfg = cfg.withDefaults()
	return &Engine{
		generator: generator,
		limiter:   rate.NewLimiter(rate.Every(cfg.CallSpacing), 1),
		cfg:       cfg,
		logger:    logger,
	}
}

// evaluation states; the cycle is Attempting -> Validating -> one of
// {Success, Retrying, FallingBack}.
type state int

const (
	stateAttempting state = iota
	stateValidating
	stateRetrying
	stateFallingBack
	stateSuccess
)

// Evaluate scores one candidate context against a position. It never returns
// an error: when retries are exhausted the missing fields are filled with
// deterministic placeholders so every candidate reaching persistence has a
// structurally complete result.
func (e *Engine) Evaluate(ctx context.Context, candidateContext, positionTitle, description string) (*Evaluation, Outcome) {
	prompt := buildScorePrompt(truncateRunes(candidateContext, e.cfg.ContextLimit), positionTitle, description)

	var (
		eval     *Evaluation
		lastErr  error
		attempts int
	)

	current := stateAttempting
	for current != stateSuccess && current != stateFallingBack {
		switch current {
		case stateAttempting, stateRetrying:
			attempts++
			raw, err := e.generate(ctx, scoreSystemInstruction, prompt)
			if err != nil {
				lastErr = err
				e.logger.Warn("evaluator request failed",
					zap.String("position", positionTitle),
					zap.Int("attempt", attempts),
					zap.Error(err),
				)
				current = e.nextOnFailure(attempts)
				continue
			}
			eval, err = parseEvaluation(raw)
			if err != nil {
				lastErr = err
				e.logger.Warn("evaluator response unparseable",
					zap.String("position", positionTitle),
					zap.Int("attempt", attempts),
					zap.String("response_preview", truncateForLog(raw, e.cfg.MaxLogLength)),
					zap.Error(err),
				)
				current = e.nextOnFailure(attempts)
				continue
			}
			current = stateValidating

		case stateValidating:
			if err := eval.validate(); err != nil {
				lastErr = err
				e.logger.Warn("evaluator response incomplete",
					zap.String("position", positionTitle),
					zap.Int("attempt", attempts),
					zap.Error(err),
				)
				current = e.nextOnFailure(attempts)
				continue
			}
			current = stateSuccess
		}
	}

	if current == stateFallingBack {
		eval = fallbackEvaluation(eval, positionTitle)
		return eval, Outcome{Attempts: attempts, FellBack: true, Err: lastErr}
	}

	return eval, Outcome{Attempts: attempts}
}

func (e *Engine) nextOnFailure(attempts int) state {
	if attempts <= e.cfg.MaxRetries {
		return stateRetrying
	}
	return stateFallingBack
}

// ExtractName asks the evaluator for a name-like string from free resume
// text. Best effort: any failure or implausible reply yields UnknownName.
func (e *Engine) ExtractName(ctx context.Context, resumeText string) string {
	resumeText = strings.TrimSpace(resumeText)
	if resumeText == "" {
		return UnknownName
	}

	prompt := strings.ReplaceAll(namePromptTemplate, "{{RESUME}}", truncateRunes(resumeText, e.cfg.NameLimit))

	raw, err := e.generate(ctx, nameSystemInstruction, prompt)
	if err != nil {
		e.logger.Debug("name extraction failed", zap.Error(err))
		return UnknownName
	}

	name := sanitizeName(raw)
	if name == "" {
		return UnknownName
	}
	return name
}

func (e *Engine) generate(ctx context.Context, system, prompt string) (string, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return "", err
	}

	e.logger.Debug("evaluator request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", truncateForLog(prompt, e.cfg.MaxLogLength)),
	)

	return e.generator.GenerateContent(ctx, system, prompt)
}

func buildScorePrompt(candidateContext, positionTitle, description string) string {
	prompt := strings.ReplaceAll(scorePromptTemplate, "{{POSITION}}", positionTitle)
	prompt = strings.ReplaceAll(prompt, "{{DESCRIPTION}}", description)
	return strings.ReplaceAll(prompt, "{{CANDIDATE}}", candidateContext)
}

// sanitizeName strips quoting and control characters from a model reply and
// rejects anything that does not look like a single name line.
func sanitizeName(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if strings.ContainsAny(trimmed, "\n\r") {
		// Multi-line replies are prose, not a name.
		return UnknownName
	}

	name := strings.Trim(trimmed, "\"'`")
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)

	if utf8.RuneCountInString(name) > maxNameRunes {
		return UnknownName
	}
	return name
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// truncateForLog shortens the provided string to the specified limit,
// appending an ellipsis when truncated.
func truncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
