package calendar

import (
	"time"

	"github.com/cuemby/printplan/pkg/types"
)

// DayScheduleOverride looks up an explicit per-date override (a holiday, a
// maintenance day) layered on top of the weekly recurring schedule. Returns
// found=false when no override exists for date.
type DayScheduleOverride func(date time.Time) (sched types.DaySchedule, found bool, err error)

// Calendar answers schedule questions against a FactorySettings' weekly
// schedule, with DayScheduleOverride as a higher-precedence source.
type Calendar struct {
	settings *types.FactorySettings
	override DayScheduleOverride
}

// New builds a Calendar. override may be nil when no per-date overrides
// exist.
func New(settings *types.FactorySettings, override DayScheduleOverride) *Calendar {
	return &Calendar{settings: settings, override: override}
}

// ScheduleFor returns the work window for date's weekday, or found=false if
// that day is disabled (or unknown). An override, if one exists for the
// exact date, always wins over the weekly recurring entry.
func (c *Calendar) ScheduleFor(date time.Time) (sched types.DaySchedule, found bool) {
	if c.override != nil {
		if overridden, ok, err := c.override(date); err == nil && ok {
			if !overridden.Enabled {
				return types.DaySchedule{}, false
			}
			return overridden, true
		}
	}

	day, ok := c.settings.WeeklySchedule[date.Weekday()]
	if !ok || !day.Enabled {
		return types.DaySchedule{}, false
	}
	return day, true
}

// MaxWorkdaySearchDays bounds AdvanceToNextWorkdayStart's scan so a factory
// with every day disabled fails fast instead of looping indefinitely.
const MaxWorkdaySearchDays = 14

// AdvanceToNextWorkdayStart scans forward from from (inclusive of from's own
// day) for the next enabled day and returns that day's start time. Returns
// found=false if none of the next MaxWorkdaySearchDays days are enabled.
func (c *Calendar) AdvanceToNextWorkdayStart(from time.Time) (start time.Time, found bool) {
	for i := 0; i < MaxWorkdaySearchDays; i++ {
		candidate := from.AddDate(0, 0, i)
		sched, ok := c.ScheduleFor(candidate)
		if !ok {
			continue
		}
		startOfDay, err := combineDateAndClock(candidate, sched.StartTime)
		if err != nil {
			continue
		}
		if i == 0 && startOfDay.Before(from) {
			continue
		}
		return startOfDay, true
	}
	return time.Time{}, false
}

// windowBounds returns a day's [start, end) as absolute times anchored to
// date, applying the cross-midnight rule: if end's minutes-of-day is less
// than or equal to start's, end lands on date+1.
func windowBounds(date time.Time, sched types.DaySchedule) (start, end time.Time, err error) {
	start, err = combineDateAndClock(date, sched.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err = combineDateAndClock(date, sched.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end, nil
}

// WindowBounds is the exported form of windowBounds: an enabled day's work
// window as absolute times anchored to date, with the cross-midnight rule
// already applied. ok is false if date's day is disabled.
func (c *Calendar) WindowBounds(date time.Time) (start, end time.Time, ok bool) {
	sched, found := c.ScheduleFor(date)
	if !found {
		return time.Time{}, time.Time{}, false
	}
	start, end, err := windowBounds(date, sched)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// IsOperatorPresent reports whether t falls within an enabled day's work
// window. Because of the cross-midnight rule this checks both t's own
// calendar day and the previous day, since a shift that started yesterday
// may still be open.
func (c *Calendar) IsOperatorPresent(t time.Time) bool {
	for _, anchor := range []time.Time{t.AddDate(0, 0, -1), t} {
		sched, ok := c.ScheduleFor(anchor)
		if !ok {
			continue
		}
		start, end, err := windowBounds(anchor, sched)
		if err != nil {
			continue
		}
		if !t.Before(start) && t.Before(end) {
			return true
		}
	}
	return false
}

// GetNextOperatorTime returns t if the operator is present at t, otherwise
// the start of the next enabled day.
func (c *Calendar) GetNextOperatorTime(t time.Time) time.Time {
	if c.IsOperatorPresent(t) {
		return t
	}
	start, found := c.AdvanceToNextWorkdayStart(t)
	if !found {
		return t
	}
	return start
}

func combineDateAndClock(date time.Time, clock string) (time.Time, error) {
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), parsed.Hour(), parsed.Minute(), 0, 0, date.Location()), nil
}
