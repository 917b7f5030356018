package printerscore

import (
	"fmt"
	"time"

	"github.com/cuemby/printplan/pkg/calendar"
	"github.com/cuemby/printplan/pkg/material"
	"github.com/cuemby/printplan/pkg/types"
)

// Slot is one candidate printer's simulated availability: where its clock
// currently sits, when its work window ends, and what it last ran. The dry
// run and cycle scheduler both build and advance Slots; the printer scorer
// only reads one.
type Slot struct {
	Printer       *types.Printer
	CurrentTime   time.Time
	EndOfDayTime  time.Time
	LastColor     string
	LastProjectID string
}

// Result is a printer slot's fitness for one project, plus the wait time
// and human-readable reasons behind the score.
type Result struct {
	Total     float64
	WaitHours float64
	Reasons   []string
}

// Score computes a printer slot's fitness for placing project next, as of
// now.
func Score(slot Slot, project *types.Project, now time.Time, cal *calendar.Calendar) Result {
	effectiveTime := effectiveAvailabilityTime(slot, cal)
	waitHours := effectiveTime.Sub(now).Hours()
	if waitHours < 0 {
		waitHours = 0
	}

	var total float64
	var reasons []string

	availabilityScore := 40 * (1 - minFloat(waitHours, 24)/24)
	total += availabilityScore
	reasons = append(reasons, fmt.Sprintf("availability %.1f (wait %.1fh)", availabilityScore, waitHours))

	projectColor := material.NormalizeColor(project.Color)
	printerColor := material.NormalizeColor(slot.LastColor)

	var colorScore float64
	switch {
	case slot.LastColor == "":
		colorScore = 15
		reasons = append(reasons, "no color loaded")
	case printerColor == projectColor:
		colorScore = 30
		reasons = append(reasons, "color match")
	default:
		colorScore = 0
		reasons = append(reasons, "color mismatch")
	}
	total += colorScore

	var switchCost float64
	if slot.LastColor != "" && printerColor == projectColor {
		switchCost = 5
		reasons = append(reasons, "no switch needed")
	}
	total += switchCost

	var continuityScore float64
	if slot.LastProjectID != "" && slot.LastProjectID == project.ID {
		continuityScore = 15
		reasons = append(reasons, "same project continuity")
	}
	total += continuityScore

	return Result{Total: total, WaitHours: waitHours, Reasons: reasons}
}

// effectiveAvailabilityTime returns slot.CurrentTime unless it's already
// past the slot's end-of-day window, in which case it skips to the next
// workday's start.
func effectiveAvailabilityTime(slot Slot, cal *calendar.Calendar) time.Time {
	if slot.CurrentTime.Before(slot.EndOfDayTime) {
		return slot.CurrentTime
	}
	if start, found := cal.AdvanceToNextWorkdayStart(slot.CurrentTime); found {
		return start
	}
	return slot.CurrentTime
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
