package engine

import (
	"time"

	"github.com/cuemby/printplan/pkg/calendar"
	"github.com/cuemby/printplan/pkg/types"
)

// slotPhase is where a printer's simulated cursor sits relative to its work
// day: inside normal work hours, extended past them under an after-hours
// policy, or unable to place anything more until the next workday.
type slotPhase int

const (
	phaseInWork slotPhase = iota
	phaseInNightExtension
	phaseExhaustedForDay
)

// plateHold marks one physical build plate occupied until releaseTime.
type plateHold struct {
	releaseTime time.Time
}

// printerSlot is one printer's simulated cursor through time. The dry run
// and the real cycle scheduler both build and advance slots the same way;
// only the real scheduler turns placements into PlannedCycles.
type printerSlot struct {
	printer *types.Printer

	currentTime time.Time
	workStart   time.Time
	workEnd     time.Time
	phase       slotPhase

	// autonomousStreak counts consecutive unattended cycles placed since
	// the slot last entered work hours. The plate-limit post-pass does not
	// read it; it recounts streaks from the placed cycles' shifts.
	autonomousStreak int
	nightCyclesUsed  int // how many after-hours cycles placed today

	lastColor     string
	lastProjectID string
	plates        []plateHold
}

func newPrinterSlot(printer *types.Printer, cal *calendar.Calendar, from time.Time) *printerSlot {
	s := &printerSlot{printer: printer, lastColor: printer.MountedColor}

	if start, end, ok := windowContaining(cal, from); ok {
		s.currentTime = from
		s.workStart, s.workEnd = start, end
		return s
	}

	start := cal.GetNextOperatorTime(from)
	s.currentTime = start
	if wstart, wend, ok := cal.WindowBounds(start); ok {
		s.workStart, s.workEnd = wstart, wend
	} else {
		s.workEnd = start
	}
	return s
}

// windowContaining returns the enabled work window (anchored to t's own
// calendar day or the previous one, for cross-midnight shifts) that t falls
// within.
func windowContaining(cal *calendar.Calendar, t time.Time) (start, end time.Time, ok bool) {
	for _, anchor := range []time.Time{t.AddDate(0, 0, -1), t} {
		s, e, found := cal.WindowBounds(anchor)
		if !found {
			continue
		}
		if !t.Before(s) && t.Before(e) {
			return s, e, true
		}
	}
	return time.Time{}, time.Time{}, false
}

// plateCapacity returns the printer's physical plate capacity, defaulting
// when the record omits one.
func plateCapacity(printer *types.Printer) int {
	if printer.PhysicalPlateCapacity <= 0 {
		return types.DefaultPhysicalPlateCapacity
	}
	return printer.PhysicalPlateCapacity
}

// releasePlates drops every plate hold whose releaseTime has passed as of
// asOf.
func (s *printerSlot) releasePlates(asOf time.Time) {
	live := s.plates[:0]
	for _, p := range s.plates {
		if p.releaseTime.After(asOf) {
			live = append(live, p)
		}
	}
	s.plates = live
}

// availablePlates reports how many plates are free right now.
func (s *printerSlot) availablePlates() int {
	free := plateCapacity(s.printer) - len(s.plates)
	if free < 0 {
		return 0
	}
	return free
}

// advanceToNextWorkday moves the slot's clock to the next enabled day's
// start of work hours, resetting the night-extension bookkeeping. Returns
// false if no workday was found within the calendar's search horizon.
func (s *printerSlot) advanceToNextWorkday(cal *calendar.Calendar) bool {
	start, found := cal.AdvanceToNextWorkdayStart(s.currentTime)
	if !found {
		return false
	}
	s.currentTime = start
	if wstart, wend, ok := cal.WindowBounds(start); ok {
		s.workStart, s.workEnd = wstart, wend
	}
	s.phase = phaseInWork
	s.autonomousStreak = 0
	s.nightCyclesUsed = 0
	return true
}

// clone deep-copies a slot so a dry run can simulate forward without
// disturbing the real schedule being built alongside it.
func (s *printerSlot) clone() *printerSlot {
	c := *s
	c.plates = append([]plateHold(nil), s.plates...)
	return &c
}

// canEnterNightExtension reports whether settings, the printer, and the
// chosen preset all permit this slot to keep running past its work window
// (the three gates: after-hours policy, printer capability, preset flag).
func canEnterNightExtension(settings *types.FactorySettings, printer *types.Printer, preset *types.PlatePreset) bool {
	if preset == nil || !preset.AllowedForNightCycle {
		return false
	}
	if !printer.CanStartNewCyclesAfterHours {
		return false
	}
	switch settings.AfterHoursBehavior {
	case types.AfterHoursFullAutomation, types.AfterHoursOneCycleEndOfDay:
		return true
	default:
		return false
	}
}
