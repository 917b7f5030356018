package engine

import (
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/cuemby/printplan/pkg/calendar"
	"github.com/cuemby/printplan/pkg/planninglog"
	"github.com/cuemby/printplan/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func everydaySchedule() map[time.Weekday]types.DaySchedule {
	sched := types.DaySchedule{Enabled: true, StartTime: "08:00", EndTime: "17:00"}
	return map[time.Weekday]types.DaySchedule{
		time.Sunday: sched, time.Monday: sched, time.Tuesday: sched, time.Wednesday: sched,
		time.Thursday: sched, time.Friday: sched, time.Saturday: sched,
	}
}

func baseSettings() *types.FactorySettings {
	return &types.FactorySettings{
		WeeklySchedule:      everydaySchedule(),
		AfterHoursBehavior:  types.AfterHoursNone,
		TransitionMinutes:   15,
		PlanningHorizonDays: 30,
	}
}

func onePlatePreset(id string, unitsPerPlate int, cycleHours float64, nightOK bool) *types.PlatePreset {
	return &types.PlatePreset{
		ID: id, UnitsPerPlate: unitsPerPlate, CycleHours: cycleHours,
		Risk: types.RiskLow, Recommended: true, AllowedForNightCycle: nightOK,
	}
}

func testProduct(presets ...*types.PlatePreset) *types.Product {
	return &types.Product{ID: "prod-1", Name: "widget", GramsPerUnit: 50, Presets: presets}
}

func testPrinter(id string, capacity int) *types.Printer {
	return &types.Printer{ID: id, Name: id, Active: true, Status: types.PrinterStatusReady, PhysicalPlateCapacity: capacity}
}

func colorInventory(color string, grams float64) []*types.ColorInventoryItem {
	return []*types.ColorInventoryItem{{Color: color, Material: "PLA", ClosedCount: 1, ClosedSpoolSize: grams}}
}

// Monday 09:00, chosen and verified to land on a Monday.
var mondayMorning = time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC)

func TestGeneratePlanSingleProjectOnePrinterFitsInOneDay(t *testing.T) {
	preset := onePlatePreset("preset-1", 8, 2, false)
	product := testProduct(preset)
	printer := testPrinter("p1", 4)
	printer.MountedColor = "black"

	project := &types.Project{
		ID: "proj-1", ProductID: product.ID, Color: "black", TargetQuantity: 8,
		DueDate: mondayMorning.AddDate(0, 0, 5), Status: types.ProjectStatusPending, IncludeInPlanning: true,
	}

	in := Input{
		Projects: []*types.Project{project}, Products: []*types.Product{product}, Printers: []*types.Printer{printer},
		ColorInventory: colorInventory("black", 5000), Settings: baseSettings(),
		Calendar: calendar.New(baseSettings(), nil), Now: mondayMorning,
	}

	result := New().GeneratePlan(in, Options{})

	require.Len(t, result.Cycles, 1)
	c := result.Cycles[0]
	assert.Equal(t, "p1", c.PrinterID)
	assert.Equal(t, 8, c.UnitsPlanned)
	assert.Equal(t, 400.0, c.GramsPlanned)
	assert.Equal(t, types.PlateTypeFull, c.PlateType)
	assert.Equal(t, types.ReadinessReady, c.ReadinessState)
	assert.Equal(t, mondayMorning, c.StartTime)
	assert.Equal(t, mondayMorning.Add(2*time.Hour), c.EndTime)
	assert.Empty(t, result.Issues)
}

func TestGeneratePlanUrgentProjectIsScheduledFirst(t *testing.T) {
	preset := onePlatePreset("preset-1", 4, 2, false)
	product := testProduct(preset)
	printer := testPrinter("p1", 4)

	normalProject := &types.Project{
		ID: "proj-normal", ProductID: product.ID, Color: "black", TargetQuantity: 4,
		DueDate: mondayMorning.AddDate(0, 0, 20), Urgency: types.UrgencyNormal,
		Status: types.ProjectStatusPending, IncludeInPlanning: true,
	}
	criticalProject := &types.Project{
		ID: "proj-critical", ProductID: product.ID, Color: "black", TargetQuantity: 4,
		DueDate: mondayMorning.AddDate(0, 0, 1), Urgency: types.UrgencyCritical,
		Status: types.ProjectStatusPending, IncludeInPlanning: true,
	}

	in := Input{
		Projects: []*types.Project{normalProject, criticalProject}, Products: []*types.Product{product},
		Printers: []*types.Printer{printer}, ColorInventory: colorInventory("black", 5000),
		Settings: baseSettings(), Calendar: calendar.New(baseSettings(), nil), Now: mondayMorning,
	}

	result := New().GeneratePlan(in, Options{})
	require.Len(t, result.Cycles, 2)

	var critical, normal *types.PlannedCycle
	for _, c := range result.Cycles {
		switch c.ProjectID {
		case "proj-critical":
			critical = c
		case "proj-normal":
			normal = c
		}
	}
	require.NotNil(t, critical)
	require.NotNil(t, normal)

	assert.Equal(t, mondayMorning, critical.StartTime)
	assert.True(t, normal.StartTime.After(critical.StartTime))
}

func TestGeneratePlanMinimumPrinterStrategyAvoidsUnnecessarySpreading(t *testing.T) {
	preset := onePlatePreset("preset-1", 4, 2, false)
	product := testProduct(preset)
	printers := []*types.Printer{testPrinter("p1", 4), testPrinter("p2", 4)}

	project := &types.Project{
		ID: "proj-1", ProductID: product.ID, Color: "black", TargetQuantity: 8,
		DueDate: mondayMorning.AddDate(0, 0, 10), Status: types.ProjectStatusPending, IncludeInPlanning: true,
	}

	in := Input{
		Projects: []*types.Project{project}, Products: []*types.Product{product}, Printers: printers,
		ColorInventory: colorInventory("black", 5000), Settings: baseSettings(),
		Calendar: calendar.New(baseSettings(), nil), Now: mondayMorning,
	}

	result := New().GeneratePlan(in, Options{})

	used := make(map[string]bool)
	for _, c := range result.Cycles {
		used[c.PrinterID] = true
	}
	assert.Len(t, used, 1, "a generous deadline should keep work on a single printer")
}

func TestGeneratePlanTightDeadlineForcesSpreadAcrossPrinters(t *testing.T) {
	preset := onePlatePreset("preset-1", 2, 6, false) // slow preset: 2 units per 6h cycle
	product := testProduct(preset)
	printers := []*types.Printer{testPrinter("p1", 4), testPrinter("p2", 4)}

	project := &types.Project{
		ID: "proj-1", ProductID: product.ID, Color: "black", TargetQuantity: 8,
		DueDate: mondayMorning.Add(7 * time.Hour), Status: types.ProjectStatusPending, IncludeInPlanning: true,
	}

	in := Input{
		Projects: []*types.Project{project}, Products: []*types.Product{product}, Printers: printers,
		ColorInventory: colorInventory("black", 5000), Settings: baseSettings(),
		Calendar: calendar.New(baseSettings(), nil), Now: mondayMorning,
	}

	result := New().GeneratePlan(in, Options{})

	used := make(map[string]bool)
	for _, c := range result.Cycles {
		used[c.PrinterID] = true
	}
	assert.Len(t, used, 2, "neither a single printer nor the pair meets this deadline, so the full fleet is used")
}

func TestGeneratePlanNightExtensionUnderFullAutomation(t *testing.T) {
	preset := onePlatePreset("preset-1", 2, 3, true) // 3h cycles, night-cycle allowed
	product := testProduct(preset)
	printer := testPrinter("p1", 4)
	printer.CanStartNewCyclesAfterHours = true

	settings := baseSettings()
	settings.AfterHoursBehavior = types.AfterHoursFullAutomation

	project := &types.Project{
		ID: "proj-1", ProductID: product.ID, Color: "black", TargetQuantity: 16,
		DueDate: mondayMorning.AddDate(0, 0, 3), Status: types.ProjectStatusPending, IncludeInPlanning: true,
	}

	in := Input{
		Projects: []*types.Project{project}, Products: []*types.Product{product}, Printers: []*types.Printer{printer},
		ColorInventory: colorInventory("black", 50000), Settings: settings,
		Calendar: calendar.New(settings, nil), Now: mondayMorning,
	}

	result := New().GeneratePlan(in, Options{})

	var sawNightCycle bool
	for _, c := range result.Cycles {
		if c.Shift == types.ShiftEndOfDay {
			sawNightCycle = true
		}
	}
	assert.True(t, sawNightCycle, "enough units queued past 17:00 should spill into a night extension cycle")
}

func TestGeneratePlanColorChangeBlocksNightExtensionOnNonAMSPrinter(t *testing.T) {
	// A single non-AMS printer runs project A (red) into a night extension.
	// Project B (blue, lower priority) then wants the same printer, but a
	// non-AMS machine already committed to red overnight can't switch color
	// mid-extension — it must wait for the next workday instead.
	preset := onePlatePreset("preset-1", 2, 3, true)
	product := testProduct(preset)
	printer := testPrinter("p1", 4)
	printer.CanStartNewCyclesAfterHours = true
	printer.HasAMS = false
	printer.MountedColor = "red"

	settings := baseSettings()
	settings.AfterHoursBehavior = types.AfterHoursFullAutomation

	projectA := &types.Project{
		ID: "proj-a", ProductID: product.ID, Color: "red", TargetQuantity: 8,
		DueDate: mondayMorning.AddDate(0, 0, 1), Status: types.ProjectStatusPending, IncludeInPlanning: true,
	}
	projectB := &types.Project{
		ID: "proj-b", ProductID: product.ID, Color: "blue", TargetQuantity: 2,
		DueDate: mondayMorning.AddDate(0, 0, 10), Status: types.ProjectStatusPending, IncludeInPlanning: true,
	}

	in := Input{
		Projects:       []*types.Project{projectA, projectB},
		Products:       []*types.Product{product},
		Printers:       []*types.Printer{printer},
		ColorInventory: append(colorInventory("red", 50000), colorInventory("blue", 50000)...),
		Settings:       settings, Calendar: calendar.New(settings, nil), Now: mondayMorning,
	}

	result := New().GeneratePlan(in, Options{})

	var blockedOnColor bool
	for _, b := range result.BlockLog {
		if b.Reason == planninglog.ReasonColorLockNight {
			blockedOnColor = true
		}
	}
	assert.True(t, blockedOnColor, "a non-AMS printer running red overnight must not be handed a blue night extension")

	nextWorkdayStart := time.Date(2026, 8, 4, 8, 0, 0, 0, time.UTC)
	for _, c := range result.Cycles {
		if c.ProjectID != "proj-b" {
			continue
		}
		assert.NotEqual(t, types.ShiftEndOfDay, c.Shift, "project B must not run as a night extension on this printer")
		assert.Equal(t, nextWorkdayStart, c.StartTime)
	}
}

func TestApplyPlateLimitPostPassDowngradesExcessAutonomousCycles(t *testing.T) {
	printer := testPrinter("p1", 2)
	base := mondayMorning
	cycles := []*types.PlannedCycle{
		{PrinterID: "p1", Shift: types.ShiftEndOfDay, StartTime: base, ReadinessState: types.ReadinessReady},
		{PrinterID: "p1", Shift: types.ShiftEndOfDay, StartTime: base.Add(time.Hour), ReadinessState: types.ReadinessReady},
		{PrinterID: "p1", Shift: types.ShiftEndOfDay, StartTime: base.Add(2 * time.Hour), ReadinessState: types.ReadinessReady},
	}

	applyPlateLimitPostPass(cycles, []*types.Printer{printer})

	assert.Equal(t, types.ReadinessReady, cycles[0].ReadinessState)
	assert.Equal(t, types.ReadinessReady, cycles[1].ReadinessState)
	assert.Equal(t, types.ReadinessWaitingForPlateReload, cycles[2].ReadinessState)
}

func TestGeneratePlanSpoolCountCapsHowManyPrintersPickUpAColor(t *testing.T) {
	// A tight deadline forces the project onto both printers, but only one
	// physical black spool exists: the second printer to pick up black must
	// wait for a spool rather than starting ready.
	preset := onePlatePreset("preset-1", 2, 6, false)
	product := testProduct(preset)
	printers := []*types.Printer{testPrinter("p1", 4), testPrinter("p2", 4)}

	project := &types.Project{
		ID: "proj-1", ProductID: product.ID, Color: "black", TargetQuantity: 8,
		DueDate: mondayMorning.Add(7 * time.Hour), Status: types.ProjectStatusPending, IncludeInPlanning: true,
	}

	in := Input{
		Projects: []*types.Project{project}, Products: []*types.Product{product}, Printers: printers,
		ColorInventory: colorInventory("black", 5000),
		Spools:         []*types.Spool{{ID: "spool-1", Color: "black", State: types.SpoolStateAvailable, EstimatedGramsLeft: 5000}},
		Settings:       baseSettings(), Calendar: calendar.New(baseSettings(), nil), Now: mondayMorning,
	}

	result := New().GeneratePlan(in, Options{})

	byPrinter := make(map[string][]*types.PlannedCycle)
	for _, c := range result.Cycles {
		byPrinter[c.PrinterID] = append(byPrinter[c.PrinterID], c)
	}
	require.Len(t, byPrinter, 2, "the deadline still requires spreading across both printers")

	var sawCapMessage bool
	for _, cycles := range byPrinter {
		sort.Slice(cycles, func(i, j int) bool { return cycles[i].StartTime.Before(cycles[j].StartTime) })
		first := cycles[0]
		assert.NotEqual(t, types.ReadinessReady, first.ReadinessState,
			"a printer's first cycle on a color it doesn't already hold always needs a spool load")
		if strings.Contains(first.ReadinessDetails, "already assigned to other printers") {
			sawCapMessage = true
		}
	}
	assert.True(t, sawCapMessage, "the second printer to want black must be gated on the single physical spool")
}

func TestBuildLiveSlotsRoutesAroundExistingCycles(t *testing.T) {
	printer := testPrinter("p1", 4)
	settings := baseSettings()
	existing := &types.PlannedCycle{
		PrinterID: "p1", ProjectID: "proj-old", RequiredColor: "red",
		StartTime: mondayMorning, EndTime: mondayMorning.Add(2 * time.Hour),
		Status: types.CycleStatusInProgress, Locked: true, Source: types.CycleSourceManual,
	}

	in := Input{
		Printers: []*types.Printer{printer}, Settings: settings,
		Calendar: calendar.New(settings, nil), Now: mondayMorning,
		ExistingCycles: []*types.PlannedCycle{existing},
	}

	slots := buildLiveSlots(in)
	slot := slots["p1"]

	require.NotNil(t, slot)
	assert.Equal(t, mondayMorning.Add(2*time.Hour).Add(15*time.Minute), slot.currentTime)
	assert.Equal(t, "red", slot.lastColor)
}
