package framework

import (
	"sync"
	"time"

	"github.com/cuemby/printplan/pkg/store"
	"github.com/cuemby/printplan/pkg/types"
)

// MemStore is an in-memory store.Store used by the integration tests. Its
// write methods hold a mutex; its read methods do not.
type MemStore struct {
	mu sync.Mutex

	Projects   []*types.Project
	Products   []*types.Product
	Printers   []*types.Printer
	Spools     []*types.Spool
	Inventory  []*types.ColorInventoryItem
	Settings   *types.FactorySettings
	Cycles     []*types.PlannedCycle
	Meta       *types.PlanningMeta
	LogEntries []store.PlanningLogEntry

	// DaySchedules holds explicit per-date overrides keyed by "2006-01-02".
	DaySchedules map[string]types.DaySchedule
}

// NewMemStore returns an empty MemStore; populate its fields or use the
// With* builders before handing it to pkg/coordinator.
func NewMemStore() *MemStore {
	return &MemStore{DaySchedules: make(map[string]types.DaySchedule)}
}

func (s *MemStore) GetProject(id string) (*types.Project, error) {
	for _, p := range s.Projects {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (s *MemStore) GetActiveProjects() ([]*types.Project, error) {
	var out []*types.Project
	for _, p := range s.Projects {
		if p.IncludeInPlanning && p.Status != types.ProjectStatusCompleted && p.Status != types.ProjectStatusOnHold {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *MemStore) ListProjects() ([]*types.Project, error) { return s.Projects, nil }

func (s *MemStore) CreateProject(p *types.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Projects = append(s.Projects, p)
	return nil
}

func (s *MemStore) UpdateProject(p *types.Project) error { return nil }

func (s *MemStore) GetProduct(id string) (*types.Product, error) {
	for _, p := range s.Products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (s *MemStore) GetProducts() ([]*types.Product, error) { return s.Products, nil }

func (s *MemStore) GetActivePrinters() ([]*types.Printer, error) {
	var out []*types.Printer
	for _, p := range s.Printers {
		if p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *MemStore) ListPrinters() ([]*types.Printer, error) { return s.Printers, nil }
func (s *MemStore) UpdatePrinter(p *types.Printer) error    { return nil }

func (s *MemStore) GetSpools() ([]*types.Spool, error) { return s.Spools, nil }

func (s *MemStore) GetColorInventory() ([]*types.ColorInventoryItem, error) { return s.Inventory, nil }

func (s *MemStore) GetPlannedCycles() ([]*types.PlannedCycle, error) { return s.Cycles, nil }

func (s *MemStore) GetPlannedCyclesFrom(from time.Time) ([]*types.PlannedCycle, error) {
	var out []*types.PlannedCycle
	for _, c := range s.Cycles {
		if !c.StartTime.Before(from) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *MemStore) ReplacePlannedCycles(preserved, created []*types.PlannedCycle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	merged := make([]*types.PlannedCycle, 0, len(preserved)+len(created))
	merged = append(merged, preserved...)
	merged = append(merged, created...)
	s.Cycles = merged
	return nil
}

func (s *MemStore) GetFactorySettings() (*types.FactorySettings, error) { return s.Settings, nil }

func (s *MemStore) GetDayScheduleForDate(date time.Time) (*types.DaySchedule, bool, error) {
	ds, ok := s.DaySchedules[date.Format("2006-01-02")]
	if !ok {
		return nil, false, nil
	}
	return &ds, true, nil
}

func (s *MemStore) GetPlanningMeta() (*types.PlanningMeta, error) { return s.Meta, nil }

func (s *MemStore) WritePlanningMeta(meta *types.PlanningMeta) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Meta = meta
	return nil
}

func (s *MemStore) AppendPlanningLogEntry(entry store.PlanningLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LogEntries = append(s.LogEntries, entry)
	if len(s.LogEntries) > store.MaxPlanningLogEntries {
		s.LogEntries = s.LogEntries[len(s.LogEntries)-store.MaxPlanningLogEntries:]
	}
	return nil
}

func (s *MemStore) ListPlanningLogEntries() ([]store.PlanningLogEntry, error) { return s.LogEntries, nil }

func (s *MemStore) Close() error { return nil }

// EverydaySchedule returns a factory schedule open every day from start to end.
func EverydaySchedule(start, end string) map[time.Weekday]types.DaySchedule {
	sched := types.DaySchedule{Enabled: true, StartTime: start, EndTime: end}
	return map[time.Weekday]types.DaySchedule{
		time.Sunday: sched, time.Monday: sched, time.Tuesday: sched, time.Wednesday: sched,
		time.Thursday: sched, time.Friday: sched, time.Saturday: sched,
	}
}

// DefaultSettings returns a minimal FactorySettings fixture suitable for
// most scenario tests: every day open 08:00-17:00, no after-hours cycles,
// a 15 minute transition, and a 30-day planning horizon.
func DefaultSettings() *types.FactorySettings {
	return &types.FactorySettings{
		WeeklySchedule:      EverydaySchedule("08:00", "17:00"),
		AfterHoursBehavior:  types.AfterHoursNone,
		TransitionMinutes:   15,
		PlanningHorizonDays: 30,
	}
}

// NewPreset builds a single recommended PlatePreset fixture.
func NewPreset(id string, unitsPerPlate int, cycleHours float64) *types.PlatePreset {
	return &types.PlatePreset{
		ID: id, UnitsPerPlate: unitsPerPlate, CycleHours: cycleHours,
		Risk: types.RiskLow, Recommended: true,
	}
}

// NewProduct builds a Product fixture around the given presets.
func NewProduct(id string, presets ...*types.PlatePreset) *types.Product {
	return &types.Product{ID: id, Name: id, GramsPerUnit: 50, Presets: presets}
}

// NewPrinter builds an active, ready Printer fixture with the given plate capacity.
func NewPrinter(id string, capacity int) *types.Printer {
	return &types.Printer{
		ID: id, Name: id, Active: true, Status: types.PrinterStatusReady,
		PhysicalPlateCapacity: capacity,
	}
}

// NewProject builds a pending, planning-enabled Project fixture.
func NewProject(id, productID, color string, quantity int, dueDate time.Time) *types.Project {
	return &types.Project{
		ID: id, ProductID: productID, Color: color, TargetQuantity: quantity,
		DueDate: dueDate, Status: types.ProjectStatusPending, IncludeInPlanning: true,
	}
}

// NewColorInventory builds a ColorInventoryItem fixture with closedCount
// closed spools of closedSize grams each and no open spool.
func NewColorInventory(color string, closedCount int, closedSize float64) *types.ColorInventoryItem {
	return &types.ColorInventoryItem{Color: color, Material: "PLA", ClosedCount: closedCount, ClosedSpoolSize: closedSize}
}
