package position

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchivedMarkerMatching(t *testing.T) {
	for _, status := range []string{"Pooled", "pooled", " POOLED "} {
		assert.True(t, Position{Status: status}.Archived(), "status %q", status)
	}
	for _, status := range []string{"", "  ", "Active", "pool"} {
		assert.False(t, Position{Status: status}.Archived(), "status %q", status)
	}
}

func TestPartition(t *testing.T) {
	all := []Position{
		{Title: "Analyst"},
		{Title: "Engineer", Status: "Pooled"},
		{Title: "Designer", Status: "open"},
	}

	active, archived := Partition(all)

	require.Len(t, active, 2)
	require.Len(t, archived, 1)
	assert.Equal(t, "Engineer", archived[0].Title)
}

func TestParseMode(t *testing.T) {
	for input, want := range map[string]Mode{
		"active":   ModeActive,
		" Pooled ": ModePooled,
		"ALL":      ModeAll,
		"":         ModeAll,
	} {
		mode, ok := ParseMode(input)
		require.True(t, ok, "input %q", input)
		assert.Equal(t, want, mode)
	}

	_, ok := ParseMode("bogus")
	assert.False(t, ok)
}

func TestSelect(t *testing.T) {
	all := []Position{
		{Title: "Analyst"},
		{Title: "Engineer", Status: "Pooled"},
	}

	assert.Len(t, Select(all, ModeActive), 1)
	assert.Len(t, Select(all, ModePooled), 1)
	assert.Len(t, Select(all, ModeAll), 2)
}
