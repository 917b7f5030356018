package feasibility

import (
	"testing"
	"time"

	"github.com/cuemby/printplan/pkg/calendar"
	"github.com/cuemby/printplan/pkg/material"
	"github.com/cuemby/printplan/pkg/prioritizer"
	"github.com/cuemby/printplan/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func everyDaySchedule() *types.FactorySettings {
	sched := types.DaySchedule{Enabled: true, StartTime: "08:00", EndTime: "17:00"}
	return &types.FactorySettings{
		WeeklySchedule: map[time.Weekday]types.DaySchedule{
			time.Sunday: sched, time.Monday: sched, time.Tuesday: sched, time.Wednesday: sched,
			time.Thursday: sched, time.Friday: sched, time.Saturday: sched,
		},
	}
}

func TestValidateEmitsMaterialLowWarning(t *testing.T) {
	now := time.Date(2026, 7, 30, 8, 0, 0, 0, time.UTC)
	product := &types.Product{ID: "prod-1", GramsPerUnit: 100}
	preset := &types.PlatePreset{ID: "p1", UnitsPerPlate: 4, CycleHours: 2}
	project := &types.Project{ID: "proj-1", Color: "black", DueDate: now.AddDate(0, 0, 10)}

	states := []prioritizer.ProjectPlanningState{
		{Project: project, Product: product, Preset: preset, RemainingUnits: 100, DaysUntilDue: 10},
	}

	matView := material.NewView([]*types.ColorInventoryItem{
		{Color: "black", ClosedCount: 1, ClosedSpoolSize: 1000},
	}, nil)

	cal := calendar.New(everyDaySchedule(), nil)
	printers := []*types.Printer{{ID: "pr1", Active: true, Status: types.PrinterStatusReady}}

	result := Validate(Input{
		States: states, Material: matView, Calendar: cal, ActivePrinters: printers,
		PlanningHorizon: 30, TransitionMin: 15, Now: now,
	})

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, WarningMaterialLow, result.Warnings[0].Reason)
	assert.Equal(t, "black", result.Warnings[0].Color)
}

func TestValidateEmitsDeadlineImpossibleIssue(t *testing.T) {
	now := time.Date(2026, 7, 30, 8, 0, 0, 0, time.UTC)
	product := &types.Product{ID: "prod-1", GramsPerUnit: 1}
	preset := &types.PlatePreset{ID: "p1", UnitsPerPlate: 1, CycleHours: 20} // absurdly slow preset
	project := &types.Project{ID: "proj-1", Color: "black", DueDate: now.AddDate(0, 0, 1)}

	states := []prioritizer.ProjectPlanningState{
		{Project: project, Product: product, Preset: preset, RemainingUnits: 50, DaysUntilDue: 1},
	}

	matView := material.NewView(nil, nil) // empty view (0 g available); only the deadline check is under test
	cal := calendar.New(everyDaySchedule(), nil)
	printers := []*types.Printer{{ID: "pr1", Active: true, Status: types.PrinterStatusReady}}

	result := Validate(Input{
		States: states, Material: matView, Calendar: cal, ActivePrinters: printers,
		PlanningHorizon: 30, TransitionMin: 15, Now: now,
	})

	require.Len(t, result.Issues, 1)
	assert.Equal(t, BlockingDeadlineImpossible, result.Issues[0].Reason)
	assert.Equal(t, "proj-1", result.Issues[0].ProjectID)
}

func TestValidateNoIssuesWhenWithinBudget(t *testing.T) {
	now := time.Date(2026, 7, 30, 8, 0, 0, 0, time.UTC)
	product := &types.Product{ID: "prod-1", GramsPerUnit: 1}
	preset := &types.PlatePreset{ID: "p1", UnitsPerPlate: 10, CycleHours: 2}
	project := &types.Project{ID: "proj-1", Color: "black", DueDate: now.AddDate(0, 0, 10)}

	states := []prioritizer.ProjectPlanningState{
		{Project: project, Product: product, Preset: preset, RemainingUnits: 10, DaysUntilDue: 10},
	}

	matView := material.NewView([]*types.ColorInventoryItem{
		{Color: "black", ClosedCount: 100, ClosedSpoolSize: 1000},
	}, nil)
	cal := calendar.New(everyDaySchedule(), nil)
	printers := []*types.Printer{{ID: "pr1", Active: true, Status: types.PrinterStatusReady}}

	result := Validate(Input{
		States: states, Material: matView, Calendar: cal, ActivePrinters: printers,
		PlanningHorizon: 30, TransitionMin: 15, Now: now,
	})

	assert.Empty(t, result.Warnings)
	assert.Empty(t, result.Issues)
}

func TestValidateNoActivePrintersYieldsZeroAvailableHours(t *testing.T) {
	now := time.Date(2026, 7, 30, 8, 0, 0, 0, time.UTC)
	product := &types.Product{ID: "prod-1", GramsPerUnit: 1}
	preset := &types.PlatePreset{ID: "p1", UnitsPerPlate: 10, CycleHours: 2}
	project := &types.Project{ID: "proj-1", Color: "black", DueDate: now.AddDate(0, 0, 10)}

	states := []prioritizer.ProjectPlanningState{
		{Project: project, Product: product, Preset: preset, RemainingUnits: 10, DaysUntilDue: 10},
	}

	matView := material.NewView([]*types.ColorInventoryItem{{Color: "black", ClosedCount: 100, ClosedSpoolSize: 1000}}, nil)
	cal := calendar.New(everyDaySchedule(), nil)

	result := Validate(Input{
		States: states, Material: matView, Calendar: cal, ActivePrinters: nil,
		PlanningHorizon: 30, TransitionMin: 15, Now: now,
	})

	require.Len(t, result.Issues, 1)
	assert.Equal(t, BlockingDeadlineImpossible, result.Issues[0].Reason)
}
