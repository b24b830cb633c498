// Package store persists screening results and position definitions in the
// shared tabular store. The store is a directory of flat CSV files written
// concurrently by this module and by external processes; every mutation is a
// whole-file read-modify-write per position, committed atomically via rename.
package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/netrialia/cv-screener/internal/position"
	"github.com/netrialia/cv-screener/internal/screening"
)

const (
	positionsFile = "positions.csv"
	timeLayout    = "2006-01-02 15:04:05"
	listSeparator = "; "
)

// Result columns, in persisted order. Unknown extra columns added by other
// writers are preserved untouched on every rewrite.
var resultColumns = []string{
	"Candidate ID",
	"Candidate Name",
	"Candidate Email",
	"Phone",
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
	"Profile Link",
	"Application Link",
	"Resume Link",
	"Recruiter Feedback",
	"Shortlisted",
	"Candidate Status",
	"Interview Status",
	"Rejection Reason",
	"Date Processed",
}

// CSV is the file-backed store implementation.
type CSV struct {
	dir    string
	logger *zap.Logger
}

func NewCSV(dir string, logger *zap.Logger) *CSV {
	return &CSV{dir: dir, logger: logger}
}

var unsafeChars = regexp.MustCompile(`[^\w\s-]`)
var separators = regexp.MustCompile(`[-\s]+`)

// resultsFilename mangles a position title into a filesystem-safe per-position
// results file name.
func resultsFilename(title string) string {
	safe := unsafeChars.ReplaceAllString(title, "")
	safe = separators.ReplaceAllString(safe, "_")
	return "results_" + safe + ".csv"
}

func (s *CSV) resultsPath(title string) string {
	return filepath.Join(s.dir, resultsFilename(title))
}

// Positions reads the position-definition table. The definitions are owned
// by an external management interface; this is a read-only view.
func (s *CSV) Positions(_ context.Context) ([]position.Position, error) {
	header, rows, err := readTable(filepath.Join(s.dir, positionsFile))
	if err != nil {
		return nil, fmt.Errorf("read positions table: %w", err)
	}

	cols := indexColumns(header)
	positions := make([]position.Position, 0, len(rows))
	for _, row := range rows {
		p := position.Position{
			Title:       cols.get(row, "Job Position", "Nama Posisi"),
			Description: cols.get(row, "Job Description", "Deskripsi Pekerjaan"),
			Status:      cols.get(row, "Pooling Status", "Status Pooling"),
			ExternalID:  cols.get(row, "External ID", "ID Eksternal"),
			BatchURL:    cols.get(row, "File Storage", "Penyimpanan File"),
		}
		if p.Title == "" {
			continue
		}
		if ts := cols.get(row, "Last Modified", "Terakhir Diubah"); ts != "" {
			if t, err := time.Parse(timeLayout, ts); err == nil {
				p.UpdatedAt = t
			}
		}
		positions = append(positions, p)
	}
	return positions, nil
}

// Results loads the full persisted result set for a position. A missing file
// means no results yet, not an error.
func (s *CSV) Results(_ context.Context, positionTitle string) ([]screening.Result, error) {
	header, rows, err := readTable(s.resultsPath(positionTitle))
	if err != nil {
		return nil, fmt.Errorf("read results for %q: %w", positionTitle, err)
	}

	cols := indexColumns(header)
	results := make([]screening.Result, 0, len(rows))
	for _, row := range rows {
		results = append(results, decodeResult(cols, row))
	}
	return results, nil
}

// AppendResults appends new rows to a position's result set. Existing rows
// pass through byte-for-byte; only the new rows are encoded.
func (s *CSV) AppendResults(_ context.Context, positionTitle string, rows []screening.Result) error {
	if len(rows) == 0 {
		return nil
	}

	path := s.resultsPath(positionTitle)
	header, existing, err := readTable(path)
	if err != nil {
		return fmt.Errorf("read results for %q: %w", positionTitle, err)
	}
	if len(header) == 0 {
		header = resultColumns
	}

	cols := indexColumns(header)
	for _, r := range rows {
		existing = append(existing, encodeResult(cols, len(header), r))
	}

	if err := writeTable(path, header, existing); err != nil {
		return fmt.Errorf("write results for %q: %w", positionTitle, err)
	}

	s.logger.Debug("results appended",
		zap.String("position", positionTitle),
		zap.Int("rows", len(rows)),
		zap.String("file", filepath.Base(path)),
	)
	return nil
}

// UpdateResumeLinks overwrites the resume-link cell of rows whose identity
// key appears in links, leaving every other cell untouched. Returns the
// number of rows actually changed; unchanged links are not rewritten.
func (s *CSV) UpdateResumeLinks(_ context.Context, positionTitle string, links map[string]string) (int, error) {
	path := s.resultsPath(positionTitle)
	header, rows, err := readTable(path)
	if err != nil {
		return 0, fmt.Errorf("read results for %q: %w", positionTitle, err)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	cols := indexColumns(header)
	idIdx, ok := cols["Candidate ID"]
	if !ok {
		return 0, fmt.Errorf("results for %q have no identity column", positionTitle)
	}
	linkIdx, ok := cols["Resume Link"]
	if !ok {
		return 0, fmt.Errorf("results for %q have no resume link column", positionTitle)
	}

	updated := 0
	for _, row := range rows {
		if idIdx >= len(row) || linkIdx >= len(row) {
			continue
		}
		fresh, ok := links[row[idIdx]]
		if !ok || fresh == row[linkIdx] {
			continue
		}
		row[linkIdx] = fresh
		updated++
	}

	if updated == 0 {
		return 0, nil
	}

	if err := writeTable(path, header, rows); err != nil {
		return 0, fmt.Errorf("write results for %q: %w", positionTitle, err)
	}
	return updated, nil
}

type columnIndex map[string]int

func indexColumns(header []string) columnIndex {
	cols := make(columnIndex, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	return cols
}

// get resolves a cell by primary column name with a legacy fallback.
func (c columnIndex) get(row []string, primary, legacy string) string {
	if i, ok := c[primary]; ok && i < len(row) {
		if v := strings.TrimSpace(row[i]); v != "" {
			return v
		}
	}
	if i, ok := c[legacy]; ok && i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func (c columnIndex) cell(row []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func decodeResult(cols columnIndex, row []string) screening.Result {
	res := screening.Result{
		IdentityKey:       cols.cell(row, "Candidate ID"),
		Name:              cols.cell(row, "Candidate Name"),
		Email:             cols.cell(row, "Candidate Email"),
		Phone:             cols.cell(row, "Phone"),
		Position:          cols.cell(row, "Job Position"),
		Summary:           cols.cell(row, "AI Summary"),
		Strengths:         splitList(cols.cell(row, "Strengths")),
		Weaknesses:        splitList(cols.cell(row, "Weaknesses")),
		Gaps:              splitList(cols.cell(row, "Gaps")),
		LatestJobTitle:    cols.cell(row, "Latest Job Title"),
		LatestCompany:     cols.cell(row, "Latest Company"),
		EducationLevel:    cols.cell(row, "Education"),
		Institution:       cols.cell(row, "University"),
		Major:             cols.cell(row, "Major"),
		ProfileURL:        cols.cell(row, "Profile Link"),
		ApplicationURL:    cols.cell(row, "Application Link"),
		ResumeURL:         cols.cell(row, "Resume Link"),
		RecruiterFeedback: cols.cell(row, "Recruiter Feedback"),
		Shortlisted:       cols.cell(row, "Shortlisted"),
		CandidateStatus:   cols.cell(row, "Candidate Status"),
		InterviewStatus:   cols.cell(row, "Interview Status"),
		RejectionReason:   cols.cell(row, "Rejection Reason"),
	}

	if n, err := strconv.Atoi(strings.TrimSpace(cols.cell(row, "Match Score"))); err == nil {
		res.Score = n
	}
	if t, err := time.Parse(timeLayout, cols.cell(row, "Date Processed")); err == nil {
		res.ProcessedAt = t
	}
	return res
}

func encodeResult(cols columnIndex, width int, r screening.Result) []string {
	row := make([]string, width)
	set := func(name, value string) {
		if i, ok := cols[name]; ok && i < width {
			row[i] = value
		}
	}

	set("Candidate ID", r.IdentityKey)
	set("Candidate Name", r.Name)
	set("Candidate Email", r.Email)
	set("Phone", r.Phone)
	set("Job Position", r.Position)
	set("Match Score", strconv.Itoa(r.Score))
	set("AI Summary", r.Summary)
	set("Strengths", strings.Join(r.Strengths, listSeparator))
	set("Weaknesses", strings.Join(r.Weaknesses, listSeparator))
	set("Gaps", strings.Join(r.Gaps, listSeparator))
	set("Latest Job Title", r.LatestJobTitle)
	set("Latest Company", r.LatestCompany)
	set("Education", r.EducationLevel)
	set("University", r.Institution)
	set("Major", r.Major)
	set("Profile Link", r.ProfileURL)
	set("Application Link", r.ApplicationURL)
	set("Resume Link", r.ResumeURL)
	set("Recruiter Feedback", r.RecruiterFeedback)
	set("Shortlisted", r.Shortlisted)
	set("Candidate Status", r.CandidateStatus)
	set("Interview Status", r.InterviewStatus)
	set("Rejection Reason", r.RejectionReason)
	if !r.ProcessedAt.IsZero() {
		set("Date Processed", r.ProcessedAt.Format(timeLayout))
	}
	return row
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, listSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func readTable(path string) (header []string, rows [][]string, err error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err = reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		rows = append(rows, record)
	}
	return header, rows, nil
}

// writeTable writes the full table to a temp file and renames it into place,
// keeping the per-position read-modify-write cycle atomic.
func writeTable(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	writer := csv.NewWriter(tmp)
	if err := writer.Write(header); err != nil {
		tmp.Close()
		return err
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			tmp.Close()
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}
