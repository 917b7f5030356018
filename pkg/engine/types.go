package engine

import (
	"time"

	"github.com/cuemby/printplan/pkg/calendar"
	"github.com/cuemby/printplan/pkg/planninglog"
	"github.com/cuemby/printplan/pkg/types"
)

// Blocking issue reasons defined by the engine, beyond the ones
// pkg/feasibility already reports (deadline_impossible). GeneratePlan does
// not emit ReasonInsufficientMaterial: a material shortfall shows up as a
// material_low warning and blocked_inventory cycle readiness instead.
const (
	ReasonNoPrinters           = "no_printers"
	ReasonNoSettings           = "no_settings"
	ReasonNoPreset             = "no_preset"
	ReasonInsufficientMaterial = "insufficient_material"
)

// Issue is a reported, non-aborting finding about a specific project.
type Issue struct {
	Reason    string
	ProjectID string
	Detail    string
}

// Warning is a non-fatal, informational finding.
type Warning struct {
	Reason string
	Color  string
	Detail string
}

// Input bundles the store snapshot and configuration GeneratePlan needs. The
// caller (pkg/recalculator) is responsible for taking this snapshot and for
// injecting Now rather than letting the engine read the system clock.
type Input struct {
	Projects       []*types.Project
	Products       []*types.Product
	Printers       []*types.Printer
	Spools         []*types.Spool
	ColorInventory []*types.ColorInventoryItem
	Settings       *types.FactorySettings
	Calendar       *calendar.Calendar

	// ExistingCycles are cycles the caller has already decided to preserve
	// (locked, in-progress, or otherwise immovable). The engine routes new
	// placements around them but never rewrites or returns them.
	ExistingCycles []*types.PlannedCycle

	Now time.Time
}

// Options controls one GeneratePlan invocation.
type Options struct {
	// DaysToPlan bounds how far into the future new cycles may start,
	// independent of the dry run's own 30-day horizon. 0 means unbounded
	// (bounded only by the dry run's horizon).
	DaysToPlan int
}

// Result is everything one planning run produced.
type Result struct {
	Cycles      []*types.PlannedCycle
	Issues      []Issue
	Warnings    []Warning
	DecisionLog []planninglog.DecisionEvent
	BlockLog    []planninglog.BlockEvent
	LogSummary  planninglog.Summary
}
