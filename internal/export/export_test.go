package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netrialia/cv-screener/internal/screening"
)

func sampleResults(position string) []screening.Result {
	return []screening.Result{
		{
			Name:        "Jane Doe",
			Email:       "jane@x.com",
			Position:    position,
			Score:       85,
			Summary:     "Strong profile.",
			Strengths:   []string{"SQL", "Python"},
			Weaknesses:  []string{"No cloud exposure"},
			Gaps:        []string{"Leadership"},
			ProcessedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
	}
}

func TestWorkbookOneSheetPerPosition(t *testing.T) {
	f, err := Workbook(
		[]string{"Data Analyst", "Empty Position", "Designer"},
		map[string][]screening.Result{
			"Data Analyst": sampleResults("Data Analyst"),
			"Designer":     sampleResults("Designer"),
		},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"Data Analyst", "Designer"}, f.GetSheetList())

	name, err := f.GetCellValue("Data Analyst", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", name)

	strengths, err := f.GetCellValue("Data Analyst", "F2")
	require.NoError(t, err)
	assert.Equal(t, "SQL; Python", strengths)

	processed, err := f.GetCellValue("Data Analyst", "Q2")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01 12:00:00", processed)
}

func TestWorkbookNoResults(t *testing.T) {
	_, err := Workbook([]string{"Data Analyst"}, nil)
	assert.Error(t, err)
}

func TestSheetName(t *testing.T) {
	for title, want := range map[string]string{
		"Data Analyst":      "Data Analyst",
		"QA/Automation [1]": "QA_Automation _1_",
		"":                  "Results",
	} {
		assert.Equal(t, want, sheetName(title), "title %q", title)
	}

	long := sheetName("An Extremely Long Position Title That Overflows")
	assert.Len(t, []rune(long), maxSheetNameLen)
}
