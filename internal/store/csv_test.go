package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/netrialia/cv-screener/internal/screening"
)

func newTestStore(t *testing.T) (*CSV, string) {
	t.Helper()
	dir := t.TempDir()
	return NewCSV(dir, zap.NewNop()), dir
}

func sampleResult(key string) screening.Result {
	return screening.Result{
		IdentityKey: key,
		Name:        "Jane Doe",
		Email:       key,
		Position:    "Data Analyst",
		Score:       85,
		Summary:     "Strong profile.",
		Strengths:   []string{"SQL", "Python"},
		Weaknesses:  []string{"No cloud exposure"},
		Gaps:        []string{"Leadership"},
		ResumeURL:   "https://cdn.example.com/old.pdf",
		ProcessedAt: time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC),
	}
}

func TestResultsMissingFile(t *testing.T) {
	st, _ := newTestStore(t)

	results, err := st.Results(context.Background(), "Data Analyst")

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestAppendAndReadRoundTrip(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.AppendResults(ctx, "Data Analyst", []screening.Result{
		sampleResult("jane@x.com"),
		sampleResult("budi@x.co.id"),
	}))

	results, err := st.Results(ctx, "Data Analyst")
	require.NoError(t, err)
	require.Len(t, results, 2)

	got := results[0]
	assert.Equal(t, "jane@x.com", got.IdentityKey)
	assert.Equal(t, "Jane Doe", got.Name)
	assert.Equal(t, 85, got.Score)
	assert.Equal(t, []string{"SQL", "Python"}, got.Strengths)
	assert.Equal(t, []string{"No cloud exposure"}, got.Weaknesses)
	assert.True(t, got.ProcessedAt.Equal(time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)))
}

func TestAppendPreservesForeignColumns(t *testing.T) {
	st, dir := newTestStore(t)
	ctx := context.Background()

	// A file written by another process, with an extra column this module
	// does not know about.
	raw := "Candidate ID,Candidate Name,Resume Link,Recruiter Notes\n" +
		"jane@x.com,Jane Doe,https://cdn.example.com/jane.pdf,call her back\n"
	path := filepath.Join(dir, "results_Data_Analyst.csv")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	require.NoError(t, st.AppendResults(ctx, "Data Analyst", []screening.Result{sampleResult("budi@x.co.id")}))

	header, rows, err := readTable(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Candidate ID", "Candidate Name", "Resume Link", "Recruiter Notes"}, header)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"jane@x.com", "Jane Doe", "https://cdn.example.com/jane.pdf", "call her back"}, rows[0])
	assert.Equal(t, "budi@x.co.id", rows[1][0])
	assert.Equal(t, "", rows[1][3], "appended rows must not invent foreign-column values")
}

func TestUpdateResumeLinksPatchesOnlyLinkCell(t *testing.T) {
	st, dir := newTestStore(t)
	ctx := context.Background()

	raw := "Candidate ID,Candidate Name,Match Score,Resume Link,Recruiter Feedback\n" +
		"jane@x.com,Jane Doe,85,https://cdn.example.com/expired.pdf,promising\n" +
		"budi@x.co.id,Budi Santoso,70,https://cdn.example.com/budi.pdf,\n"
	path := filepath.Join(dir, "results_Data_Analyst.csv")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	updated, err := st.UpdateResumeLinks(ctx, "Data Analyst", map[string]string{
		"jane@x.com": "https://cdn.example.com/fresh.pdf",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	_, rows, err := readTable(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"jane@x.com", "Jane Doe", "85", "https://cdn.example.com/fresh.pdf", "promising"}, rows[0])
	assert.Equal(t, []string{"budi@x.co.id", "Budi Santoso", "70", "https://cdn.example.com/budi.pdf", ""}, rows[1])
}

func TestUpdateResumeLinksSkipsUnchanged(t *testing.T) {
	st, dir := newTestStore(t)
	ctx := context.Background()

	raw := "Candidate ID,Resume Link\njane@x.com,https://cdn.example.com/jane.pdf\n"
	path := filepath.Join(dir, "results_Data_Analyst.csv")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	updated, err := st.UpdateResumeLinks(ctx, "Data Analyst", map[string]string{
		"jane@x.com": "https://cdn.example.com/jane.pdf",
		"nobody":     "https://cdn.example.com/ghost.pdf",
	})

	require.NoError(t, err)
	assert.Equal(t, 0, updated)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, raw, string(after), "no-op update must not rewrite the file")
}

func TestUpdateResumeLinksMissingFile(t *testing.T) {
	st, _ := newTestStore(t)

	updated, err := st.UpdateResumeLinks(context.Background(), "Data Analyst", map[string]string{"k": "v"})

	require.NoError(t, err)
	assert.Equal(t, 0, updated)
}

func TestPositionsLegacyHeaders(t *testing.T) {
	st, dir := newTestStore(t)

	raw := "Nama Posisi,Deskripsi Pekerjaan,Status Pooling,Penyimpanan File,Terakhir Diubah\n" +
		"Data Analyst,Analyzes data.,Pooled,https://exports.example.com/analyst.csv,2026-02-15 09:00:00\n" +
		",orphan row without a title,,,\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "positions.csv"), []byte(raw), 0o644))

	positions, err := st.Positions(context.Background())

	require.NoError(t, err)
	require.Len(t, positions, 1)
	p := positions[0]
	assert.Equal(t, "Data Analyst", p.Title)
	assert.Equal(t, "Analyzes data.", p.Description)
	assert.True(t, p.Archived())
	assert.Equal(t, "https://exports.example.com/analyst.csv", p.BatchURL)
	assert.Equal(t, 2026, p.UpdatedAt.Year())
}

func TestResultsFilename(t *testing.T) {
	for title, want := range map[string]string{
		"Data Analyst":           "results_Data_Analyst.csv",
		"Sr. Engineer (Remote)!": "results_Sr_Engineer_Remote.csv",
		"QA - Automation":        "results_QA_Automation.csv",
	} {
		assert.Equal(t, want, resultsFilename(title), "title %q", title)
	}
}
