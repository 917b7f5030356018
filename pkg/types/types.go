package types

import "time"

// Project is an open order: a request to print TargetQuantity units of a
// Product, by DueDate, in Color.
type Project struct {
	ID                    string
	ProductID             string
	Color                 string
	TargetQuantity        int
	CompletedQuantity     int
	ScrapQuantity         int
	DueDate               time.Time
	Urgency               Urgency
	ManualUrgencyOverride bool
	Status                ProjectStatus
	IncludeInPlanning     bool
	PreferredPresetID     string
	CustomCycleHours      float64 // not read by the planner; cycle length always comes from the preset's CycleHours
	ParentProjectID       string  // set for recovery/retry projects
	CreatedAt             time.Time
	UpdatedAt             time.Time

	// RemoteID is the cloud identifier used by the remote mirror; empty
	// until the project has been synced at least once.
	RemoteID string
}

// Urgency classifies how aggressively a project's priority score is capped.
type Urgency string

const (
	UrgencyNormal   Urgency = "normal"
	UrgencyUrgent   Urgency = "urgent"
	UrgencyCritical Urgency = "critical"
)

// ProjectStatus tracks a project through its lifecycle.
type ProjectStatus string

const (
	ProjectStatusPending    ProjectStatus = "pending"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusOnHold     ProjectStatus = "on_hold"
	ProjectStatusCompleted  ProjectStatus = "completed"
)

// Product is a catalog item: a thing a Project can order units of.
type Product struct {
	ID           string
	Name         string
	GramsPerUnit float64
	Presets      []*PlatePreset
	CreatedAt    time.Time
}

// RecommendedPreset returns the preset flagged Recommended, or nil.
func (p *Product) RecommendedPreset() *PlatePreset {
	for _, preset := range p.Presets {
		if preset.Recommended {
			return preset
		}
	}
	return nil
}

// PresetByID returns the preset with the given ID, or nil.
func (p *Product) PresetByID(id string) *PlatePreset {
	for _, preset := range p.Presets {
		if preset.ID == id {
			return preset
		}
	}
	return nil
}

// PlatePreset is a plate layout template: how many units fit on one build
// plate and how many hours that plate takes to print.
type PlatePreset struct {
	ID                   string
	ProductID            string
	UnitsPerPlate        int
	CycleHours           float64
	Risk                 RiskLevel
	AllowedForNightCycle bool
	Recommended          bool
}

// RiskLevel is the failure-risk classification of a plate layout.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Printer is one physical machine in the fleet.
type Printer struct {
	ID                          string
	Name                        string
	Active                      bool
	Status                      PrinterStatus
	HasAMS                      bool
	AMSSlotCount                int
	AMSBackupSameColor          bool
	AMSMultiColor               bool
	CanStartNewCyclesAfterHours bool
	PhysicalPlateCapacity       int // default DefaultPhysicalPlateCapacity

	// Runtime state, owned locally, never overwritten from the remote
	// mirror (invariant: these fields reflect what is physically mounted
	// right now, which the mirror has no visibility into).
	MountedSpoolID string
	MountedColor   string
	AMSSlotMounted []AMSSlotState

	CreatedAt time.Time
}

// DefaultPhysicalPlateCapacity is used when a printer record omits one.
const DefaultPhysicalPlateCapacity = 4

// AMSSlotState is the mounted state of one AMS feeder slot.
type AMSSlotState struct {
	SlotIndex int
	SpoolID   string
	Color     string
	Mounted   bool
}

// PrinterStatus is the coarse operational state of a printer.
type PrinterStatus string

const (
	PrinterStatusReady PrinterStatus = "ready"
	PrinterStatusDown  PrinterStatus = "down"
)

// Spool is one physical spool of filament, closed or partially used.
type Spool struct {
	ID                 string
	Color              string
	Material           string
	PackageSizeGrams   float64
	EstimatedGramsLeft float64
	State              SpoolState
	CreatedAt          time.Time
}

// SpoolState is the current disposition of a spool.
type SpoolState string

const (
	SpoolStateAvailable SpoolState = "available"
	SpoolStateInUse     SpoolState = "in_use"
	SpoolStateEmpty     SpoolState = "empty"
)

// ColorInventoryItem aggregates material availability per (color, material)
// pair. This, not the spool list, is the authoritative availability source;
// see pkg/material.
type ColorInventoryItem struct {
	Color           string
	Material        string
	ClosedCount     int
	ClosedSpoolSize float64 // grams per closed spool
	OpenTotalGrams  float64
}

// PlannedCycle is one print job on one printer.
type PlannedCycle struct {
	ID               string
	ProjectID        string
	PrinterID        string
	UnitsPlanned     int
	GramsPlanned     float64
	PlateType        PlateType
	StartTime        time.Time
	EndTime          time.Time
	Shift            Shift
	Status           CycleStatus
	ReadinessState   ReadinessState
	ReadinessDetails string
	RequiredColor    string
	RequiredGrams    float64
	SuggestedSpools  []string // spool IDs, up to 3
	PresetID         string
	SelectionReason  string
	PlateIndex       int // 1-based slot on that printer's day
	PlateReleaseTime time.Time
	Source           CycleSource
	Locked           bool

	// LegacyID is a stable identifier used as the upsert key against the
	// remote mirror, independent of ID (which may be regenerated on
	// recalculation for cycles that were discarded and replanned).
	LegacyID string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PlateType reflects the ratio of UnitsPlanned to the preset's UnitsPerPlate.
type PlateType string

const (
	PlateTypeFull     PlateType = "full"
	PlateTypeReduced  PlateType = "reduced"
	PlateTypeCloseout PlateType = "closeout"
)

// Shift is when in the day a cycle runs.
type Shift string

const (
	ShiftDay      Shift = "day"
	ShiftEndOfDay Shift = "end_of_day"
)

// CycleStatus is the temporal status of a cycle.
type CycleStatus string

const (
	CycleStatusPlanned    CycleStatus = "planned"
	CycleStatusInProgress CycleStatus = "in_progress"
	CycleStatusCompleted  CycleStatus = "completed"
	CycleStatusFailed     CycleStatus = "failed"
)

// ReadinessState gates whether a placed cycle can actually start.
type ReadinessState string

const (
	ReadinessReady                 ReadinessState = "ready"
	ReadinessWaitingForSpool       ReadinessState = "waiting_for_spool"
	ReadinessWaitingForPlateReload ReadinessState = "waiting_for_plate_reload"
	ReadinessBlockedInventory      ReadinessState = "blocked_inventory"
)

// CycleSource distinguishes engine-placed cycles from operator-placed ones.
type CycleSource string

const (
	CycleSourceAuto   CycleSource = "auto"
	CycleSourceManual CycleSource = "manual"
)

// IsTerminal reports whether a cycle's Status is one the engine must never
// rewrite, move, or delete.
func (c CycleStatus) IsTerminal() bool {
	return c == CycleStatusCompleted || c == CycleStatusFailed
}

// IsImmovable reports whether a cycle must never be rewritten or deleted by
// the engine (invariants 3 and 4).
func (c *PlannedCycle) IsImmovable() bool {
	return c.Status.IsTerminal() || (c.Locked && c.Source == CycleSourceManual)
}

// DaySchedule is one weekday's work window.
type DaySchedule struct {
	Enabled   bool
	StartTime string // "HH:MM"
	EndTime   string // "HH:MM", may be < StartTime (cross-midnight)
}

// AfterHoursBehavior gates whether cycles may run outside work hours.
type AfterHoursBehavior string

const (
	AfterHoursNone             AfterHoursBehavior = "NONE"
	AfterHoursOneCycleEndOfDay AfterHoursBehavior = "ONE_CYCLE_END_OF_DAY"
	AfterHoursFullAutomation   AfterHoursBehavior = "FULL_AUTOMATION"
)

// PriorityRules holds the urgent and critical day thresholds loaded from
// configuration. The prioritizer does not read them: its priority caps are
// fixed at 5 days for critical and 15 days for urgent projects.
type PriorityRules struct {
	UrgentDaysThreshold   int
	CriticalDaysThreshold int
}

// FactorySettings is the factory-wide planning configuration.
type FactorySettings struct {
	WeeklySchedule      map[time.Weekday]DaySchedule
	AfterHoursBehavior  AfterHoursBehavior
	TransitionMinutes   int
	PriorityRules       PriorityRules
	StandardSpoolWeight float64

	// Feature toggles.
	PlannerV2ProjectCentric bool
	PhysicalPlatesLimit     bool

	// PlanningHorizonDays bounds how many days ahead the feasibility
	// validator sums available hours over.
	PlanningHorizonDays int
}

// PlanningMeta is small persisted bookkeeping about the last run.
type PlanningMeta struct {
	LastRecalculatedAt                    time.Time
	CapacityChangedSinceLastRecalculation bool
	LastCapacityChangeReason              string
}
