package validate

import (
	"sort"

	"github.com/cuemby/printplan/pkg/calendar"
	"github.com/cuemby/printplan/pkg/types"
)

// Check names one of the three integrity rules an Issue violates.
type Check string

const (
	CheckOverlap       Check = "printer_overlap"
	CheckDisabledDay   Check = "cycle_on_disabled_day"
	CheckOrphanProject Check = "orphan_project"
)

// Issue is one integrity violation found in the existing plan.
type Issue struct {
	Check     Check
	CycleID   string
	PrinterID string
	ProjectID string
	Detail    string
}

// Input bundles the persisted state validateExistingPlan checks.
type Input struct {
	Cycles   []*types.PlannedCycle
	Projects []*types.Project // every project, active or not
	Settings *types.FactorySettings
	Calendar *calendar.Calendar
}

// Result is the outcome of one validation pass.
type Result struct {
	IsValid bool
	Issues  []Issue
}

// Validate runs every integrity check and never aborts early: it collects
// every violation it finds rather than stopping at the first failing check.
func Validate(in Input) Result {
	var issues []Issue
	issues = append(issues, checkOverlaps(in.Cycles)...)
	issues = append(issues, checkDisabledDays(in.Cycles, in.Settings, in.Calendar)...)
	issues = append(issues, checkOrphanProjects(in.Cycles, in.Projects)...)

	return Result{IsValid: len(issues) == 0, Issues: issues}
}

// checkOverlaps flags any two cycles on the same printer whose
// [StartTime, EndTime) windows intersect.
func checkOverlaps(cycles []*types.PlannedCycle) []Issue {
	byPrinter := make(map[string][]*types.PlannedCycle)
	for _, c := range cycles {
		byPrinter[c.PrinterID] = append(byPrinter[c.PrinterID], c)
	}

	var issues []Issue
	for printerID, printerCycles := range byPrinter {
		sorted := make([]*types.PlannedCycle, len(printerCycles))
		copy(sorted, printerCycles)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].StartTime.Before(sorted[j].StartTime) })

		for i := 1; i < len(sorted); i++ {
			prev, cur := sorted[i-1], sorted[i]
			if cur.StartTime.Before(prev.EndTime) {
				issues = append(issues, Issue{
					Check: CheckOverlap, CycleID: cur.ID, PrinterID: printerID,
					Detail: "cycle " + cur.ID + " starts before cycle " + prev.ID + " ends on printer " + printerID,
				})
			}
		}
	}
	return issues
}

// checkDisabledDays flags a cycle whose start falls on a calendar day with
// no enabled work window, unless the factory's after-hours policy permits
// unattended operation.
func checkDisabledDays(cycles []*types.PlannedCycle, settings *types.FactorySettings, cal *calendar.Calendar) []Issue {
	if settings == nil || cal == nil {
		return nil
	}

	var issues []Issue
	for _, c := range cycles {
		if _, found := cal.ScheduleFor(c.StartTime); found {
			continue
		}
		if settings.AfterHoursBehavior != types.AfterHoursNone {
			continue
		}
		issues = append(issues, Issue{
			Check: CheckDisabledDay, CycleID: c.ID, PrinterID: c.PrinterID,
			Detail: "cycle " + c.ID + " starts on a disabled day with no after-hours policy in effect",
		})
	}
	return issues
}

// checkOrphanProjects flags a cycle referring to a project that either does
// not exist or is no longer active (completed, on hold, or excluded from
// planning).
func checkOrphanProjects(cycles []*types.PlannedCycle, projects []*types.Project) []Issue {
	active := make(map[string]bool, len(projects))
	for _, p := range projects {
		if p.IncludeInPlanning && p.Status != types.ProjectStatusCompleted && p.Status != types.ProjectStatusOnHold {
			active[p.ID] = true
		}
	}

	var issues []Issue
	for _, c := range cycles {
		if active[c.ProjectID] {
			continue
		}
		issues = append(issues, Issue{
			Check: CheckOrphanProject, CycleID: c.ID, ProjectID: c.ProjectID,
			Detail: "cycle " + c.ID + " references project " + c.ProjectID + " which is not an active project",
		})
	}
	return issues
}
