// Package export renders persisted screening results into an xlsx workbook
// for recruiters, one sheet per position.
package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/netrialia/cv-screener/internal/screening"
)

const timeLayout = "2006-01-02 15:04:05"

// Sheet names are capped by the xlsx format.
const maxSheetNameLen = 31

var header = []string{
	"Candidate Name",
	"Candidate Email",
	"Job Position",
	"Match Score",
	"AI Summary",
	"Strengths",
	"Weaknesses",
	"Gaps",
	"Latest Job Title",
	"Latest Company",
	"Education",
	"University",
	"Major",
	"Resume Link",
	"Recruiter Feedback",
	"Candidate Status",
	"Date Processed",
}

// Workbook builds an xlsx file with one sheet per position. Positions with
// no results are omitted. The iteration order of positions is preserved.
func Workbook(positions []string, results map[string][]screening.Result) (*excelize.File, error) {
	f := excelize.NewFile()
	wrote := false

	for _, title := range positions {
		rows := results[title]
		if len(rows) == 0 {
			continue
		}

		sheet := sheetName(title)
		if !wrote {
			// Reuse the default sheet for the first position.
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("add sheet %q: %w", sheet, err)
		}
		wrote = true

		if err := writeSheet(f, sheet, rows); err != nil {
			return nil, err
		}
	}

	if !wrote {
		return nil, fmt.Errorf("no results to export")
	}
	return f, nil
}

func writeSheet(f *excelize.File, sheet string, rows []screening.Result) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range rows {
		processed := ""
		if !r.ProcessedAt.IsZero() {
			processed = r.ProcessedAt.Format(timeLayout)
		}
		row := []any{
			r.Name,
			r.Email,
			r.Position,
			r.Score,
			r.Summary,
			strings.Join(r.Strengths, "; "),
			strings.Join(r.Weaknesses, "; "),
			strings.Join(r.Gaps, "; "),
			r.LatestJobTitle,
			r.LatestCompany,
			r.EducationLevel,
			r.Institution,
			r.Major,
			r.ResumeURL,
			r.RecruiterFeedback,
			r.CandidateStatus,
			processed,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	return f.SetColWidth(sheet, "A", "Q", 24)
}

// sheetName mangles a position title into a legal sheet name.
func sheetName(title string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, strings.TrimSpace(title))

	if name == "" {
		name = "Results"
	}
	runes := []rune(name)
	if len(runes) > maxSheetNameLen {
		name = string(runes[:maxSheetNameLen])
	}
	return name
}
