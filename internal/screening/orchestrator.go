package screening

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/netrialia/cv-screener/internal/candidate"
	"github.com/netrialia/cv-screener/internal/position"
	"github.com/netrialia/cv-screener/internal/scoring"
	"github.com/netrialia/cv-screener/internal/usage"
)

// ResultStore is the slice of the persisted store the orchestrator needs.
type ResultStore interface {
	Results(ctx context.Context, positionTitle string) ([]Result, error)
	AppendResults(ctx context.Context, positionTitle string, rows []Result) error
}

// BatchFetcher returns a position's current candidate batch from the
// upstream source.
type BatchFetcher interface {
	FetchBatch(ctx context.Context, url string) ([]candidate.Row, error)
}

// TextExtractor returns extracted resume text, or "" when the resume is
// unavailable. Unavailability is an ordinary result, not an error.
type TextExtractor interface {
	Text(ctx context.Context, url string) string
}

// Scorer is the scoring engine surface the orchestrator uses.
type Scorer interface {
	Evaluate(ctx context.Context, candidateContext, positionTitle, description string) (*scoring.Evaluation, scoring.Outcome)
	ExtractName(ctx context.Context, resumeText string) string
}

// Recorder appends usage events; implemented by usage.Logger.
type Recorder interface {
	Record(ev usage.Event)
}

// Summary is the per-run outcome. A run always completes with a summary,
// even when every position failed.
type Summary struct {
	RunID           string
	Positions       int
	Screened        int
	Skipped         int
	Failed          int
	FailedPositions []string
}

// Orchestrator screens new candidates position by position. A failure in one
// position is isolated: it is logged, counted, and never aborts the
// remaining positions.
type Orchestrator struct {
	store   ResultStore
	source  BatchFetcher
	resumes TextExtractor
	engine  Scorer
	audit   Recorder
	trigger string
	logger  *zap.Logger
	now     func() time.Time
}

func NewOrchestrator(store ResultStore, source BatchFetcher, resumes TextExtractor, engine Scorer, audit Recorder, trigger string, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		store:   store,
		source:  source,
		resumes: resumes,
		engine:  engine,
		audit:   audit,
		trigger: trigger,
		logger:  logger,
		now:     time.Now,
	}
}

// Run screens the given positions sequentially. The caller is expected to
// have applied the activation filter already; Run re-checks nothing. The run
// may stop between positions when ctx is cancelled, never mid-position.
func (o *Orchestrator) Run(ctx context.Context, runID string, positions []position.Position) Summary {
	summary := Summary{RunID: runID, Positions: len(positions)}

	for _, pos := range positions {
		if ctx.Err() != nil {
			o.logger.Info("run cancelled between positions", zap.String("run_id", runID))
			break
		}

		screened, skipped, err := o.screenPosition(ctx, runID, pos)
		summary.Screened += screened
		summary.Skipped += skipped
		if err != nil {
			summary.Failed++
			summary.FailedPositions = append(summary.FailedPositions, pos.Title)
			o.logger.Error("position failed",
				zap.String("position", pos.Title),
				zap.Error(err),
			)
		}
	}

	o.logger.Info("screening run completed",
		zap.String("run_id", runID),
		zap.Int("positions", summary.Positions),
		zap.Int("screened", summary.Screened),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed_positions", summary.Failed),
	)

	return summary
}

// screenPosition runs one position's read-partition-score-write cycle. The
// result buffer commits as a single batch write at the end; a failure before
// the write discards the whole batch.
func (o *Orchestrator) screenPosition(ctx context.Context, runID string, pos position.Position) (screened, skipped int, err error) {
	log := o.logger.With(zap.String("position", pos.Title))

	if pos.Description == "" {
		log.Warn("skipping position without description")
		return 0, 0, nil
	}
	if pos.BatchURL == "" {
		log.Info("skipping position without batch export location")
		return 0, 0, nil
	}

	rows, err := o.source.FetchBatch(ctx, pos.BatchURL)
	if err != nil {
		return 0, 0, fmt.Errorf("fetch candidate batch: %w", err)
	}
	if len(rows) == 0 {
		log.Info("no candidates in batch")
		return 0, 0, nil
	}

	batch := make([]candidate.Record, 0, len(rows))
	for _, row := range rows {
		batch = append(batch, candidate.FromRow(row))
	}

	existing, err := o.store.Results(ctx, pos.Title)
	if err != nil {
		return 0, 0, fmt.Errorf("load persisted results: %w", err)
	}

	fresh, dupes := Partition(IdentityKeys(existing), batch)
	log.Info("batch partitioned",
		zap.Int("total", len(batch)),
		zap.Int("new", len(fresh)),
		zap.Int("skipped", len(dupes)),
	)

	if len(fresh) == 0 {
		return 0, len(dupes), nil
	}

	buffer := make([]Result, 0, len(fresh))
	for i, rec := range fresh {
		res, ok := o.screenCandidate(ctx, runID, pos, rec, i+1)
		if !ok {
			continue
		}
		buffer = append(buffer, res)
	}

	if len(buffer) == 0 {
		return 0, len(dupes), nil
	}

	if err := o.store.AppendResults(ctx, pos.Title, buffer); err != nil {
		return 0, len(dupes), fmt.Errorf("persist results: %w", err)
	}

	log.Info("results persisted", zap.Int("count", len(buffer)))
	return len(buffer), len(dupes), nil
}

// screenCandidate evaluates one new candidate. Per-candidate errors degrade
// or skip; they never reach the position level.
func (o *Orchestrator) screenCandidate(ctx context.Context, runID string, pos position.Position, rec candidate.Record, ordinal int) (Result, bool) {
	key := rec.IdentityKey()
	log := o.logger.With(
		zap.String("position", pos.Title),
		zap.String("identity", key),
	)

	resumeText := ""
	if rec.ResumeURL != "" {
		resumeText = o.resumes.Text(ctx, rec.ResumeURL)
	}

	evalContext := joinContext(rec.StructuredContext(), resumeText)
	if evalContext == "" {
		log.Warn("skipping candidate with no identifiable content")
		return Result{}, false
	}

	name := o.resolveName(ctx, rec, resumeText, ordinal)

	eval, outcome := o.engine.Evaluate(ctx, evalContext, pos.Title, pos.Description)

	o.audit.Record(usage.Event{
		RunID:    runID,
		Trigger:  o.trigger,
		Position: pos.Title,
		Identity: key,
		Outcome:  outcomeLabel(outcome),
		Attempts: outcome.Attempts,
	})

	if outcome.FellBack {
		log.Warn("evaluation fell back to placeholders",
			zap.Int("attempts", outcome.Attempts),
			zap.Error(outcome.Err),
		)
	} else {
		log.Info("candidate scored",
			zap.String("name", name),
			zap.Int("score", eval.Score),
			zap.Int("attempts", outcome.Attempts),
		)
	}

	return newResult(rec, key, name, pos.Title, eval, o.now().UTC()), true
}

// resolveName walks the display-name cascade: structured fields, AI
// extraction from resume text, email local part, positional label.
func (o *Orchestrator) resolveName(ctx context.Context, rec candidate.Record, resumeText string, ordinal int) string {
	if name := rec.StructuredName(); name != "" {
		return name
	}
	if resumeText != "" {
		if name := o.engine.ExtractName(ctx, resumeText); name != "" && name != scoring.UnknownName {
			return name
		}
	}
	if local := rec.EmailLocalPart(); local != "" {
		return local
	}
	return candidate.OrdinalLabel(ordinal)
}

func joinContext(structured, resumeText string) string {
	switch {
	case structured == "":
		return resumeText
	case resumeText == "":
		return structured
	default:
		return structured + "\n\nResume:\n" + resumeText
	}
}

func outcomeLabel(out scoring.Outcome) string {
	if out.FellBack {
		return usage.OutcomeFallback
	}
	return usage.OutcomeScored
}
