// Package position holds job-position definitions and the activation filter
// that decides which positions are eligible for screening or reconciliation.
package position

import (
	"strings"
	"time"
)

// archivedMarker is the status value that parks a position in the pool,
// excluding it from scoring.
const archivedMarker = "Pooled"

// Position is a job-position definition. Definitions are created by an
// external management interface and are read-only here. Title is the join
// key used everywhere else.
type Position struct {
	Title       string
	Description string
	Status      string
	ExternalID  string
	// BatchURL is the upstream export location for this position's
	// candidate batch. Refreshed by the export workflow; may expire.
	BatchURL  string
	UpdatedAt time.Time
}

// Archived reports whether the position is parked in the pool. The
// comparison is case-insensitive and ignores surrounding whitespace; an
// empty status means active.
func (p Position) Archived() bool {
	return strings.EqualFold(strings.TrimSpace(p.Status), archivedMarker)
}

// Partition splits positions into active and archived sets. It runs before
// any position loop so archived positions incur zero fetch or evaluation
// cost.
func Partition(all []Position) (active, archived []Position) {
	for _, p := range all {
		if p.Archived() {
			archived = append(archived, p)
			continue
		}
		active = append(active, p)
	}
	return active, archived
}

// Mode selects which subset of positions a job runs over.
type Mode string

const (
	ModeActive Mode = "active"
	ModePooled Mode = "pooled"
	ModeAll    Mode = "all"
)

// ParseMode validates a mode string from flags or config.
func ParseMode(s string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeActive:
		return ModeActive, true
	case ModePooled:
		return ModePooled, true
	case ModeAll, "":
		return ModeAll, true
	}
	return "", false
}

// Select returns the subset of positions matching the mode.
func Select(all []Position, mode Mode) []Position {
	active, archived := Partition(all)
	switch mode {
	case ModeActive:
		return active
	case ModePooled:
		return archived
	default:
		return all
	}
}
