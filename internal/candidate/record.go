package candidate

import (
	"fmt"
	"strings"
)

// Record is one candidate as fetched from the upstream export. It is
// ephemeral: consumed to produce a screening result or a link patch, never
// persisted directly.
type Record struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string

	// Work history, most recent first, up to 3 entries.
	Work []Job
	// Education history, most recent first, up to 3 entries.
	Education []School

	ResumeURL      string
	ProfileURL     string
	ApplicationURL string
	AppliedAt      string
}

type Job struct {
	Title       string
	Company     string
	Start       string
	End         string
	Description string
}

type School struct {
	Level       string
	Institution string
	Major       string
	Start       string
	End         string
}

// LatestJob returns the most recent work entry, if any.
func (r Record) LatestJob() (Job, bool) {
	if len(r.Work) == 0 {
		return Job{}, false
	}
	return r.Work[0], true
}

// LatestEducation returns the most recent education entry, if any.
func (r Record) LatestEducation() (School, bool) {
	if len(r.Education) == 0 {
		return School{}, false
	}
	return r.Education[0], true
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// StructuredContext renders the structured fields into a plain-text block for
// the evaluator. Only fields that are present appear.
func (r Record) StructuredContext() string {
	var parts []string

	if r.FirstName != "" {
		parts = append(parts, fmt.Sprintf("Name: %s", strings.TrimSpace(r.FirstName+" "+r.LastName)))
	}

	if len(r.Work) > 0 {
		parts = append(parts, "Work Experience:")
		for i, job := range r.Work {
			parts = append(parts, fmt.Sprintf("- %s at %s (%s - %s)",
				job.Title, orNA(job.Company), orNA(job.Start), orNA(job.End)))
			if i == 0 && job.Description != "" {
				parts = append(parts, fmt.Sprintf("  Description: %s", job.Description))
			}
		}
	}

	if len(r.Education) > 0 {
		parts = append(parts, "Education:")
		for i, edu := range r.Education {
			if i == 0 && (edu.Start != "" || edu.End != "") {
				parts = append(parts, fmt.Sprintf("- %s - %s at %s (%s - %s)",
					edu.Level, orNA(edu.Major), orNA(edu.Institution), orNA(edu.Start), orNA(edu.End)))
				continue
			}
			parts = append(parts, fmt.Sprintf("- %s - %s at %s",
				edu.Level, orNA(edu.Major), orNA(edu.Institution)))
		}
	}

	return strings.Join(parts, "\n")
}
