package engine

import (
	"sort"
	"time"

	"github.com/cuemby/printplan/pkg/calendar"
	"github.com/cuemby/printplan/pkg/planninglog"
	"github.com/cuemby/printplan/pkg/prioritizer"
	"github.com/cuemby/printplan/pkg/printerscore"
	"github.com/cuemby/printplan/pkg/types"
)

// dryRunHorizonDays bounds how far into the future a dry run will look
// before giving up on a project ever finishing.
const dryRunHorizonDays = 30

// dryRunMaxIterations is a safety cap against pathological inputs (every
// printer permanently blocked); hitting it ends the dry run early, never a
// crash. simulate records an unfinished run in hitSafetyCap, which nothing
// reads: no warning or issue is reported for it.
const dryRunMaxIterations = 1000

// simulation is what one dry run tells the minimum-printer selector about a
// candidate printer subset.
type simulation struct {
	finishTime    time.Time
	cycleCount    int
	meetsDeadline bool
	marginHours   float64
	hitSafetyCap  bool
}

// simulate dry-runs placing state's remaining units across the given slots
// without mutating them or producing real cycles; it clones every slot
// first so the same live slots can be tried at several subset sizes.
func simulate(slots []*printerSlot, cal *calendar.Calendar, settings *types.FactorySettings, state prioritizer.ProjectPlanningState, now time.Time) simulation {
	cloned := make([]*printerSlot, len(slots))
	for i, s := range slots {
		cloned[i] = s.clone()
	}

	remaining := state.RemainingUnits
	color := state.Project.Color
	finish := now
	cycles := 0

	horizonEnd := now.AddDate(0, 0, dryRunHorizonDays)

	runSlots(cloned, cal, settings, horizonEnd, dryRunMaxIterations, color, state.Preset,
		func() bool { return remaining <= 0 },
		func(s *printerSlot) placement {
			units := state.Preset.UnitsPerPlate
			if units > remaining {
				units = remaining
			}
			return placement{units: units, cycleHours: state.Preset.CycleHours, color: color}
		},
		func(s *printerSlot, start, end time.Time, p placement) {
			remaining -= p.units
			cycles++
			if end.After(finish) {
				finish = end
			}
			s.lastProjectID = state.Project.ID
		},
		nil,
	)

	return simulation{
		finishTime:    finish,
		cycleCount:    cycles,
		meetsDeadline: !finish.After(state.Project.DueDate),
		marginHours:   state.Project.DueDate.Sub(finish).Hours(),
		hitSafetyCap:  remaining > 0,
	}
}

// selectMinimumPrinters scores every candidate slot for state, then tries
// increasing subset sizes starting from the single best-scoring printer,
// returning the smallest subset whose dry run meets the project's deadline.
// If no subset meets it, every candidate is used (spreading as wide as
// possible is the best available outcome). Every subset tried is recorded
// as a decision event.
func selectMinimumPrinters(candidates []*printerSlot, cal *calendar.Calendar, settings *types.FactorySettings, state prioritizer.ProjectPlanningState, now time.Time, dlog *planninglog.Log) ([]*printerSlot, simulation) {
	type scored struct {
		slot  *printerSlot
		score printerscore.Result
	}

	records := make([]planninglog.PrinterScoreRecord, 0, len(candidates))
	scoredSlots := make([]scored, 0, len(candidates))
	for _, s := range candidates {
		result := printerscore.Score(printerscore.Slot{
			Printer:       s.printer,
			CurrentTime:   s.currentTime,
			EndOfDayTime:  s.workEnd,
			LastColor:     s.lastColor,
			LastProjectID: s.lastProjectID,
		}, state.Project, now, cal)
		scoredSlots = append(scoredSlots, scored{slot: s, score: result})
		records = append(records, planninglog.PrinterScoreRecord{PrinterID: s.printer.ID, Score: result.Total, Reasons: result.Reasons})
	}

	sort.SliceStable(scoredSlots, func(i, j int) bool {
		return scoredSlots[i].score.Total > scoredSlots[j].score.Total
	})

	var lastSim simulation
	var lastSubset []*printerSlot

	for k := 1; k <= len(scoredSlots); k++ {
		subset := make([]*printerSlot, k)
		for i := 0; i < k; i++ {
			subset[i] = scoredSlots[i].slot
		}
		lastSim = simulate(subset, cal, settings, state, now)
		lastSubset = subset

		if dlog != nil {
			dlog.RecordDecision(planninglog.DecisionEvent{
				ProjectID:           state.Project.ID,
				Deadline:            state.Project.DueDate,
				RemainingUnits:      state.RemainingUnits,
				SelectedPrinters:    slotPrinterIDs(subset),
				EstimatedFinishTime: lastSim.finishTime,
				MeetsDeadline:       lastSim.meetsDeadline,
				MarginHours:         lastSim.marginHours,
				PerPrinterScores:    records,
			})
		}

		if lastSim.meetsDeadline {
			return subset, lastSim
		}
	}

	return lastSubset, lastSim
}

func slotPrinterIDs(slots []*printerSlot) []string {
	ids := make([]string, len(slots))
	for i, s := range slots {
		ids[i] = s.printer.ID
	}
	return ids
}
