package recalculator

import (
	"time"

	"github.com/cuemby/printplan/pkg/types"
)

// Scope controls how far back a recalculation reaches before it starts
// discarding and replacing non-immovable cycles.
type Scope string

const (
	// ScopeFromNow discards and replans anything starting at or after the
	// instant the recalculation runs.
	ScopeFromNow Scope = "from_now"
	// ScopeFromTomorrow preserves everything scheduled for the remainder of
	// today and replans from the next calendar day's midnight.
	ScopeFromTomorrow Scope = "from_tomorrow"
	// ScopeWholeWeek discards the entire current week (from its Monday
	// midnight) and replans it in full.
	ScopeWholeWeek Scope = "whole_week"
)

// cutoff returns the instant at or after which non-immovable cycles are
// discarded for replanning, given scope and the injected clock now.
func (s Scope) cutoff(now time.Time) time.Time {
	switch s {
	case ScopeFromTomorrow:
		tomorrow := now.AddDate(0, 0, 1)
		return time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 0, 0, 0, 0, tomorrow.Location())
	case ScopeWholeWeek:
		return startOfWeek(now)
	default:
		return now
	}
}

// startOfWeek returns the Monday midnight on or before t.
func startOfWeek(t time.Time) time.Time {
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	d := t.AddDate(0, 0, -daysSinceMonday)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}

// classify splits existing into cycles a recalculation must preserve
// untouched and cycles it is free to discard and replan. A cycle is
// preserved if it is immovable (invariants 3/4), if lockInProgress is set
// and the cycle is already in progress, or if it starts before cutoff —
// replanning never rewrites the past.
func classify(existing []*types.PlannedCycle, cutoff time.Time, lockInProgress bool) (preserved, discarded []*types.PlannedCycle) {
	for _, c := range existing {
		switch {
		case c.IsImmovable():
			preserved = append(preserved, c)
		case lockInProgress && c.Status == types.CycleStatusInProgress:
			preserved = append(preserved, c)
		case c.StartTime.Before(cutoff):
			preserved = append(preserved, c)
		default:
			discarded = append(discarded, c)
		}
	}
	return preserved, discarded
}
