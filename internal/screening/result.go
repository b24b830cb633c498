// Package screening holds the persisted screening-result model, the
// duplicate detector, and the orchestrator that scores new candidates per
// position.
package screening

import (
	"time"

	"github.com/netrialia/cv-screener/internal/candidate"
	"github.com/netrialia/cv-screener/internal/scoring"
)

// Result is the persisted outcome of evaluating one candidate against one
// position. The scoring fields are write-once: a candidate is never
// re-scored for the same identity and position. ResumeURL is the only
// core-owned field that may be overwritten later, exclusively by the link
// reconciliation job. The recruiter-facing fields belong to humans and are
// never touched after creation.
type Result struct {
	IdentityKey string
	Name        string
	Email       string
	Phone       string
	Position    string

	Score      int
	Summary    string
	Strengths  []string
	Weaknesses []string
	Gaps       []string

	LatestJobTitle string
	LatestCompany  string
	EducationLevel string
	Institution    string
	Major          string

	ProfileURL     string
	ApplicationURL string
	ResumeURL      string

	RecruiterFeedback string
	Shortlisted       string
	CandidateStatus   string
	InterviewStatus   string
	RejectionReason   string

	ProcessedAt time.Time
}

// newResult assembles a result from a candidate record and its evaluation.
func newResult(rec candidate.Record, key, name, positionTitle string, eval *scoring.Evaluation, now time.Time) Result {
	res := Result{
		IdentityKey: key,
		Name:        name,
		Email:       rec.Email,
		Phone:       rec.Phone,
		Position:    positionTitle,

		Score:      eval.Score,
		Summary:    eval.Summary,
		Strengths:  eval.Strengths,
		Weaknesses: eval.Weaknesses,
		Gaps:       eval.Gaps,

		ProfileURL:     rec.ProfileURL,
		ApplicationURL: rec.ApplicationURL,
		ResumeURL:      rec.ResumeURL,

		ProcessedAt: now,
	}

	if job, ok := rec.LatestJob(); ok {
		res.LatestJobTitle = job.Title
		res.LatestCompany = job.Company
	}
	if edu, ok := rec.LatestEducation(); ok {
		res.EducationLevel = edu.Level
		res.Institution = edu.Institution
		res.Major = edu.Major
	}

	return res
}

// IdentityKeys collects the identity keys of a persisted result set.
func IdentityKeys(results []Result) map[string]struct{} {
	keys := make(map[string]struct{}, len(results))
	for _, r := range results {
		keys[r.IdentityKey] = struct{}{}
	}
	return keys
}
