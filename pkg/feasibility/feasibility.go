package feasibility

import (
	"fmt"
	"math"
	"time"

	"github.com/cuemby/printplan/pkg/calendar"
	"github.com/cuemby/printplan/pkg/material"
	"github.com/cuemby/printplan/pkg/prioritizer"
	"github.com/cuemby/printplan/pkg/types"
)

// WarningMaterialLow is emitted when a color's aggregate need across active
// projects exceeds the material view's available grams. Never blocking.
const WarningMaterialLow = "material_low"

// BlockingDeadlineImpossible is emitted when a project cannot make its due
// date even with unlimited material, given the printer fleet's available
// hours within the planning horizon. Reported, not fatal: planning still
// proceeds on a best-effort basis.
const BlockingDeadlineImpossible = "deadline_impossible"

// Warning is a non-fatal finding.
type Warning struct {
	Reason string
	Color  string
	Detail string
}

// BlockingIssue is a reported, non-aborting finding about a specific
// project.
type BlockingIssue struct {
	Reason    string
	ProjectID string
	Detail    string
}

// Result bundles everything the feasibility validator found.
type Result struct {
	Warnings []Warning
	Issues   []BlockingIssue
}

// Input bundles everything Validate needs.
type Input struct {
	States          []prioritizer.ProjectPlanningState
	Material        *material.View
	Calendar        *calendar.Calendar
	ActivePrinters  []*types.Printer
	PlanningHorizon int // days; 0 means "use a sane default" (30)
	TransitionMin   int
	Now             time.Time
}

const defaultPlanningHorizonDays = 30

// Validate runs the material and time feasibility checks over every
// prioritized project and returns accumulated warnings and issues. It never
// returns an error and never blocks the caller from proceeding to plan.
func Validate(in Input) Result {
	horizon := in.PlanningHorizon
	if horizon <= 0 {
		horizon = defaultPlanningHorizonDays
	}

	var result Result

	neededGramsByColor := make(map[string]float64)

	for _, state := range in.States {
		color := material.NormalizeColor(state.Project.Color)
		neededGramsByColor[color] += float64(state.RemainingUnits) * state.Product.GramsPerUnit

		cyclesNeeded := int(math.Ceil(float64(state.RemainingUnits) / float64(state.Preset.UnitsPerPlate)))
		hoursNeeded := float64(cyclesNeeded)*state.Preset.CycleHours + float64(cyclesNeeded-1)*float64(in.TransitionMin)/60

		availableHours := in.availableHours(state.DaysUntilDue, horizon)

		if hoursNeeded > availableHours && state.DaysUntilDue <= horizon {
			result.Issues = append(result.Issues, BlockingIssue{
				Reason:    BlockingDeadlineImpossible,
				ProjectID: state.Project.ID,
				Detail:    fmt.Sprintf("needs %.1fh, only %.1fh available in %d days", hoursNeeded, availableHours, state.DaysUntilDue),
			})
		}
	}

	for color, needed := range neededGramsByColor {
		available := in.Material.AvailableGrams(color)
		if needed > available {
			result.Warnings = append(result.Warnings, Warning{
				Reason: WarningMaterialLow,
				Color:  color,
				Detail: fmt.Sprintf("needs %.0fg, only %.0fg available", needed, available),
			})
		}
	}

	return result
}

// availableHours sums working-hours × printerCount over the calendar days
// in [now, now+min(daysUntilDue, horizon)) that are enabled.
func (in Input) availableHours(daysUntilDue, horizon int) float64 {
	window := daysUntilDue
	if window > horizon {
		window = horizon
	}
	if window < 0 {
		window = 0
	}

	printerCount := float64(len(in.ActivePrinters))
	if printerCount == 0 {
		return 0
	}

	var total float64
	for i := 0; i < window; i++ {
		day := in.Now.AddDate(0, 0, i)
		sched, ok := in.Calendar.ScheduleFor(day)
		if !ok {
			continue
		}
		total += workingHours(sched) * printerCount
	}
	return total
}

func workingHours(sched types.DaySchedule) float64 {
	start, err := time.Parse("15:04", sched.StartTime)
	if err != nil {
		return 0
	}
	end, err := time.Parse("15:04", sched.EndTime)
	if err != nil {
		return 0
	}
	minutes := end.Sub(start).Minutes()
	if minutes < 0 {
		minutes += 24 * 60
	}
	return minutes / 60
}
