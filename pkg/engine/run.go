package engine

import (
	"container/heap"
	"time"

	"github.com/cuemby/printplan/pkg/calendar"
	"github.com/cuemby/printplan/pkg/material"
	"github.com/cuemby/printplan/pkg/planninglog"
	"github.com/cuemby/printplan/pkg/types"
)

// plateReleaseBuffer is how long after a cycle's print finishes the plate
// stays occupied, to cover cooldown and removal.
const plateReleaseBuffer = 10 * time.Minute

// placement is one cycle's shape, as decided by a runSlots caller.
type placement struct {
	units      int
	cycleHours float64
	color      string
}

// runSlots drains slots through a min-heap ordered by currentTime: whichever
// printer becomes free earliest is considered next. For each ready slot it
// asks nextPlacement what to place, applies the clock/plate bookkeeping, and
// calls onPlaced; slots that can't accept a placement right now are either
// re-queued (plate limit: retry once a plate frees up) or advanced to the
// next workday (after-hours/color-lock gate failures), with onBlocked
// recording why. The loop stops once isDone reports true, the heap empties,
// or maxIterations is hit (a safety cap, not an expected outcome).
func runSlots(
	slots []*printerSlot,
	cal *calendar.Calendar,
	settings *types.FactorySettings,
	horizonEnd time.Time,
	maxIterations int,
	projectColor string,
	preset *types.PlatePreset,
	isDone func() bool,
	nextPlacement func(s *printerSlot) placement,
	onPlaced func(s *printerSlot, start, end time.Time, p placement),
	onBlocked func(s *printerSlot, reason planninglog.BlockReason),
) {
	h := slotHeap(slots)
	heap.Init(&h)

	for i := 0; h.Len() > 0 && !isDone() && i < maxIterations; i++ {
		s := heap.Pop(&h).(*printerSlot)

		if s.currentTime.After(horizonEnd) {
			continue
		}

		ready, reason := s.prepareForPlacement(cal, settings, preset, projectColor)
		if !ready {
			if onBlocked != nil {
				onBlocked(s, reason)
			}
			if reason == planninglog.ReasonPlatesLimit && len(s.plates) > 0 {
				s.currentTime = earliestRelease(s.plates)
				heap.Push(&h, s)
				continue
			}
			if s.advanceToNextWorkday(cal) {
				heap.Push(&h, s)
			} else if onBlocked != nil {
				onBlocked(s, planninglog.ReasonNoWorkdayWithinHorizon)
			}
			continue
		}

		p := nextPlacement(s)
		if p.units <= 0 {
			continue
		}

		start := s.currentTime
		end := start.Add(time.Duration(p.cycleHours * float64(time.Hour)))

		if onPlaced != nil {
			onPlaced(s, start, end, p)
		}

		s.plates = append(s.plates, plateHold{releaseTime: end.Add(plateReleaseBuffer)})
		s.lastColor = p.color
		s.currentTime = end.Add(time.Duration(settings.TransitionMinutes) * time.Minute)
		if s.phase == phaseInNightExtension {
			s.nightCyclesUsed++
			s.autonomousStreak++
		}

		heap.Push(&h, s)
	}
}

// prepareForPlacement releases expired plates, resolves which phase the
// slot is now in (work hours, an already-committed night extension, or a
// fresh attempt to enter one), and reports whether it's ready to accept a
// placement right now.
func (s *printerSlot) prepareForPlacement(cal *calendar.Calendar, settings *types.FactorySettings, preset *types.PlatePreset, projectColor string) (bool, planninglog.BlockReason) {
	s.releasePlates(s.currentTime)

	switch {
	case s.currentTime.Before(s.workEnd):
		s.phase = phaseInWork
	case s.phase == phaseInNightExtension:
		// already committed to tonight's extension for this printer.
	default:
		if !canEnterNightExtension(settings, s.printer, preset) {
			if preset == nil || !preset.AllowedForNightCycle {
				return false, planninglog.ReasonNoNightPreset
			}
			return false, planninglog.ReasonAfterHoursPolicy
		}
		if settings.AfterHoursBehavior == types.AfterHoursOneCycleEndOfDay && s.nightCyclesUsed >= 1 {
			return false, planninglog.ReasonAfterHoursPolicy
		}
		s.phase = phaseInNightExtension
	}

	if s.phase == phaseInNightExtension && !s.printer.HasAMS && s.lastColor != "" &&
		normalizedColorsDiffer(s.lastColor, projectColor) {
		return false, planninglog.ReasonColorLockNight
	}

	if s.availablePlates() <= 0 {
		return false, planninglog.ReasonPlatesLimit
	}

	return true, ""
}

func normalizedColorsDiffer(a, b string) bool {
	return material.NormalizeColor(a) != material.NormalizeColor(b)
}

func earliestRelease(plates []plateHold) time.Time {
	min := plates[0].releaseTime
	for _, p := range plates[1:] {
		if p.releaseTime.Before(min) {
			min = p.releaseTime
		}
	}
	return min
}
