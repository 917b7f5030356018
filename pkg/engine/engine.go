package engine

import (
	"time"

	"github.com/cuemby/printplan/pkg/feasibility"
	"github.com/cuemby/printplan/pkg/material"
	"github.com/cuemby/printplan/pkg/planninglog"
	"github.com/cuemby/printplan/pkg/preset"
	"github.com/cuemby/printplan/pkg/prioritizer"
	"github.com/cuemby/printplan/pkg/types"
)

// Engine is the stateless planning core. It holds no fields; every call to
// GeneratePlan is an independent, deterministic function of its Input.
type Engine struct{}

// New returns an Engine.
func New() *Engine {
	return &Engine{}
}

// GeneratePlan runs the full pipeline: prioritize projects, check material
// and deadline feasibility, then for each project in priority order pick
// the minimum printer set that meets its deadline and place its cycles for
// real, finishing with the plate-limit post-pass. It never mutates Input
// and never returns an error — domain conditions are reported as Issues
// and Warnings instead.
func (e *Engine) GeneratePlan(in Input, opts Options) *Result {
	result := &Result{}

	if len(in.Printers) == 0 {
		result.Issues = append(result.Issues, Issue{Reason: ReasonNoPrinters, Detail: "no active printers available"})
		return result
	}
	if in.Settings == nil {
		result.Issues = append(result.Issues, Issue{Reason: ReasonNoSettings, Detail: "factory settings not configured"})
		return result
	}

	dlog := planninglog.New()
	matView := material.NewView(in.ColorInventory, in.Spools)

	states := prioritizer.Prioritize(prioritizer.Input{
		Projects:     in.Projects,
		Products:     in.Products,
		ActiveCycles: in.ExistingCycles,
		Now:          in.Now,
	})

	feas := feasibility.Validate(feasibility.Input{
		States:          states,
		Material:        matView,
		Calendar:        in.Calendar,
		ActivePrinters:  in.Printers,
		PlanningHorizon: in.Settings.PlanningHorizonDays,
		TransitionMin:   in.Settings.TransitionMinutes,
		Now:             in.Now,
	})
	for _, w := range feas.Warnings {
		result.Warnings = append(result.Warnings, Warning{Reason: w.Reason, Color: w.Color, Detail: w.Detail})
	}
	for _, iss := range feas.Issues {
		result.Issues = append(result.Issues, Issue{Reason: iss.Reason, ProjectID: iss.ProjectID, Detail: iss.Detail})
	}

	liveSlots := buildLiveSlots(in)

	tracker := newColorPrinterTracker()
	for printerID, s := range liveSlots {
		if s.lastColor != "" {
			tracker.seed(material.NormalizeColor(s.lastColor), printerID)
		}
	}

	planHorizonEnd := in.Now.AddDate(0, 0, dryRunHorizonDays)
	if opts.DaysToPlan > 0 {
		planHorizonEnd = in.Now.AddDate(0, 0, opts.DaysToPlan)
	}

	var planned []*types.PlannedCycle
	for _, state := range states {
		if state.Preset == nil {
			result.Issues = append(result.Issues, Issue{
				Reason: ReasonNoPreset, ProjectID: state.Project.ID,
				Detail: "no plate preset resolved for product " + state.Project.ProductID,
			})
			continue
		}

		candidateSlots := make([]*printerSlot, 0, len(in.Printers))
		for _, p := range in.Printers {
			if s, ok := liveSlots[p.ID]; ok {
				candidateSlots = append(candidateSlots, s)
			}
		}

		selected, sim := selectMinimumPrinters(candidateSlots, in.Calendar, in.Settings, state, in.Now, dlog)
		if !sim.meetsDeadline {
			result.Issues = append(result.Issues, Issue{
				Reason: feasibility.BlockingDeadlineImpossible, ProjectID: state.Project.ID,
				Detail: "even the full printer fleet cannot finish this project by its due date",
			})
		}

		realSlots := make([]*printerSlot, 0, len(selected))
		for _, s := range selected {
			realSlots = append(realSlots, liveSlots[s.printer.ID])
		}

		if len(realSlots) > 0 {
			applyPresetSelection(realSlots[0], matView, &state)
		}

		cycles := scheduleProject(realSlots, in.Calendar, in.Settings, matView, tracker, state, in.Now, planHorizonEnd, dlog)
		planned = append(planned, cycles...)
	}

	if in.Settings.PhysicalPlatesLimit {
		applyPlateLimitPostPass(planned, in.Printers)
	}

	result.Cycles = planned
	result.DecisionLog = dlog.Decisions()
	result.BlockLog = dlog.Blocks()
	result.LogSummary = dlog.Summarize()
	return result
}

// applyPresetSelection re-resolves state's preset through the scored
// selector, using the primary printer's live slot state for the
// available-hours, material and night-slot constraints the cheap
// preferred/recommended/first fallback chain in the prioritizer ignores.
// The project still gets one preset for the whole run; only how it is
// chosen changes.
func applyPresetSelection(primary *printerSlot, matView *material.View, state *prioritizer.ProjectPlanningState) {
	availableHours := primary.workEnd.Sub(primary.currentTime).Hours()
	if availableHours < 0 {
		availableHours = 0
	}

	result := preset.Select(preset.Input{
		Product:           state.Product,
		RemainingUnits:    state.RemainingUnits,
		AvailableHours:    availableHours,
		AvailableGrams:    matView.AvailableGrams(state.Project.Color),
		NightSlot:         primary.phase == phaseInNightExtension,
		PreferredPresetID: state.Project.PreferredPresetID,
		Now:               primary.currentTime,
	})
	if result.Preset == nil {
		return
	}
	state.Preset = result.Preset
	state.PresetReason = result.Reason
}

// buildLiveSlots constructs one printerSlot per printer, routing its
// starting clock and last-run color around that printer's preserved
// (immovable) existing cycles: currentTime starts at
// max(now, lastExistingCycleEnd+transition).
func buildLiveSlots(in Input) map[string]*printerSlot {
	latestByPrinter := make(map[string]*types.PlannedCycle, len(in.Printers))
	for _, c := range in.ExistingCycles {
		if cur, ok := latestByPrinter[c.PrinterID]; !ok || c.EndTime.After(cur.EndTime) {
			latestByPrinter[c.PrinterID] = c
		}
	}

	transition := time.Duration(in.Settings.TransitionMinutes) * time.Minute

	slots := make(map[string]*printerSlot, len(in.Printers))
	for _, p := range in.Printers {
		from := in.Now
		if last, ok := latestByPrinter[p.ID]; ok {
			if candidate := last.EndTime.Add(transition); candidate.After(from) {
				from = candidate
			}
		}

		slot := newPrinterSlot(p, in.Calendar, from)
		if last, ok := latestByPrinter[p.ID]; ok {
			slot.lastColor = last.RequiredColor
			slot.lastProjectID = last.ProjectID
		}
		slots[p.ID] = slot
	}
	return slots
}
