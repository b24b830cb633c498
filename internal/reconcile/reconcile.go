// Package reconcile refreshes expiring resume links in persisted results
// without re-scoring. For each position it maps identity keys to current
// resume URLs from a fresh batch and patches only the resume-link field;
// every other field stays byte-for-byte untouched.
package reconcile

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/netrialia/cv-screener/internal/candidate"
	"github.com/netrialia/cv-screener/internal/position"
	"github.com/netrialia/cv-screener/internal/source"
)

// LinkStore is the slice of the persisted store the job needs: a field-level
// patch keyed by identity.
type LinkStore interface {
	UpdateResumeLinks(ctx context.Context, positionTitle string, links map[string]string) (int, error)
}

// BatchFetcher mirrors the orchestrator's upstream dependency.
type BatchFetcher interface {
	FetchBatch(ctx context.Context, url string) ([]candidate.Row, error)
}

// Summary is the per-run outcome of a reconciliation pass.
type Summary struct {
	Positions int
	Updated   int
	Skipped   int
}

// Job is the link-only reconciliation pass.
type Job struct {
	store  LinkStore
	source BatchFetcher
	logger *zap.Logger
}

func NewJob(store LinkStore, src BatchFetcher, logger *zap.Logger) *Job {
	return &Job{store: store, source: src, logger: logger}
}

// Run reconciles each position in turn. A position whose fresh batch cannot
// be fetched (expired export URL, network trouble) is skipped for this run
// and retried on the next schedule; it never aborts the pass.
func (j *Job) Run(ctx context.Context, positions []position.Position) Summary {
	summary := Summary{}

	for _, pos := range positions {
		if ctx.Err() != nil {
			j.logger.Info("reconciliation cancelled between positions")
			break
		}

		summary.Positions++
		log := j.logger.With(zap.String("position", pos.Title))

		if pos.BatchURL == "" {
			log.Info("skipping position without batch export location")
			summary.Skipped++
			continue
		}

		rows, err := j.source.FetchBatch(ctx, pos.BatchURL)
		if err != nil {
			if errors.Is(err, source.ErrUnavailable) {
				log.Info("fresh batch unavailable, will retry next run", zap.Error(err))
			} else {
				log.Warn("fetching fresh batch failed", zap.Error(err))
			}
			summary.Skipped++
			continue
		}

		links := linkMapping(rows)
		if len(links) == 0 {
			log.Info("no resume links in fresh batch")
			continue
		}

		updated, err := j.store.UpdateResumeLinks(ctx, pos.Title, links)
		if err != nil {
			log.Warn("patching resume links failed", zap.Error(err))
			summary.Skipped++
			continue
		}

		if updated > 0 {
			log.Info("resume links refreshed", zap.Int("updated", updated))
		}
		summary.Updated += updated
	}

	j.logger.Info("reconciliation completed",
		zap.Int("positions", summary.Positions),
		zap.Int("links_updated", summary.Updated),
		zap.Int("positions_skipped", summary.Skipped),
	)

	return summary
}

// linkMapping builds identity key -> current resume URL from a fresh batch.
// Rows without a usable identity or without a link are left out; degenerate
// keys cannot be joined safely.
func linkMapping(rows []candidate.Row) map[string]string {
	links := make(map[string]string, len(rows))
	for _, row := range rows {
		rec := candidate.FromRow(row)
		if rec.ResumeURL == "" {
			continue
		}
		key := rec.IdentityKey()
		if candidate.Degenerate(key) {
			continue
		}
		links[key] = rec.ResumeURL
	}
	return links
}
