package store

import (
	"time"

	"github.com/cuemby/printplan/pkg/types"
)

// Store is the engine's only way to read and write persisted planning state.
// The engine treats it as read-only; only pkg/recalculator calls the write
// methods.
type Store interface {
	// Projects
	GetProject(id string) (*types.Project, error)
	GetActiveProjects() ([]*types.Project, error)
	ListProjects() ([]*types.Project, error)
	CreateProject(project *types.Project) error
	UpdateProject(project *types.Project) error

	// Products
	GetProduct(id string) (*types.Product, error)
	GetProducts() ([]*types.Product, error)

	// Printers
	GetActivePrinters() ([]*types.Printer, error)
	ListPrinters() ([]*types.Printer, error)
	UpdatePrinter(printer *types.Printer) error

	// Spools
	GetSpools() ([]*types.Spool, error)

	// Material
	GetColorInventory() ([]*types.ColorInventoryItem, error)

	// Cycles
	GetPlannedCycles() ([]*types.PlannedCycle, error)
	GetPlannedCyclesFrom(from time.Time) ([]*types.PlannedCycle, error)
	ReplacePlannedCycles(preserved, created []*types.PlannedCycle) error

	// Settings
	GetFactorySettings() (*types.FactorySettings, error)

	// Day schedule lookup, delegated here so the calendar has somewhere to
	// read an explicit per-date override (holidays, maintenance days) in
	// addition to the weekly recurring schedule.
	GetDayScheduleForDate(date time.Time) (*types.DaySchedule, bool, error)

	// Planning meta and log
	GetPlanningMeta() (*types.PlanningMeta, error)
	WritePlanningMeta(meta *types.PlanningMeta) error
	AppendPlanningLogEntry(entry PlanningLogEntry) error
	ListPlanningLogEntries() ([]PlanningLogEntry, error)

	Close() error
}

// PlanningLogEntry is one run summary in the bounded 50-entry planning log
// ring.
type PlanningLogEntry struct {
	ID                string
	RanAt             time.Time
	Scope             string
	Reason            string
	ProjectsCount     int
	PrintersCount     int
	CyclesCreated     int
	UnitsPlanned      int
	Warnings          []string
	Errors            []string
	DurationMs        int64
	ByReasonCounts    map[string]int
	TopAdvanceReasons []string
}

// MaxPlanningLogEntries bounds the planning log ring.
const MaxPlanningLogEntries = 50
