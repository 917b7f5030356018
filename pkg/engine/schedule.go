package engine

import (
	"fmt"
	"time"

	"github.com/cuemby/printplan/pkg/calendar"
	"github.com/cuemby/printplan/pkg/material"
	"github.com/cuemby/printplan/pkg/planninglog"
	"github.com/cuemby/printplan/pkg/prioritizer"
	"github.com/cuemby/printplan/pkg/types"
)

// scheduleProject places state's remaining units across slots for real,
// mutating each slot's clock, plate holds and last-run color as it goes, and
// returns the PlannedCycles produced. Material availability is tracked
// locally to this project's own run: each cycle decrements a running
// consumed-grams counter so the next cycle sees the correct remaining grams,
// but does not affect other projects' views of the same color.
func scheduleProject(slots []*printerSlot, cal *calendar.Calendar, settings *types.FactorySettings, matView *material.View, tracker *colorPrinterTracker, state prioritizer.ProjectPlanningState, now, horizonEnd time.Time, dlog *planninglog.Log) []*types.PlannedCycle {
	var cycles []*types.PlannedCycle

	remaining := state.RemainingUnits
	color := state.Project.Color
	normalizedColor := material.NormalizeColor(color)
	availableGrams := matView.AvailableGrams(color)
	consumedGrams := 0.0

	runSlots(slots, cal, settings, horizonEnd, dryRunMaxIterations, color, state.Preset,
		func() bool { return remaining <= 0 },
		func(s *printerSlot) placement {
			units := state.Preset.UnitsPerPlate
			if units > remaining {
				units = remaining
			}
			return placement{units: units, cycleHours: state.Preset.CycleHours, color: color}
		},
		func(s *printerSlot, start, end time.Time, p placement) {
			gramsNeeded := float64(p.units) * state.Product.GramsPerUnit
			remainingGrams := availableGrams - consumedGrams
			isLast := remaining-p.units <= 0

			readiness, details, suggested := determineReadiness(s.lastColor, color, s.printer.ID, gramsNeeded, remainingGrams, matView, tracker)

			cycles = append(cycles, &types.PlannedCycle{
				ID:               newID(),
				ProjectID:        state.Project.ID,
				PrinterID:        s.printer.ID,
				UnitsPlanned:     p.units,
				GramsPlanned:     gramsNeeded,
				PlateType:        plateType(p.units, state.Preset.UnitsPerPlate, isLast),
				StartTime:        start,
				EndTime:          end,
				Shift:            shiftFor(s.phase),
				Status:           types.CycleStatusPlanned,
				ReadinessState:   readiness,
				ReadinessDetails: details,
				RequiredColor:    normalizedColor,
				RequiredGrams:    gramsNeeded,
				SuggestedSpools:  suggested,
				PresetID:         state.Preset.ID,
				SelectionReason:  fmt.Sprintf("priority %d, due in %d day(s); preset: %s", state.Priority, state.DaysUntilDue, state.PresetReason),
				PlateIndex:       len(s.plates) + 1,
				PlateReleaseTime: end.Add(plateReleaseBuffer),
				Source:           types.CycleSourceAuto,
				LegacyID:         newID(),
				CreatedAt:        now,
				UpdatedAt:        now,
			})

			remaining -= p.units
			consumedGrams += gramsNeeded
			s.lastProjectID = state.Project.ID
		},
		func(s *printerSlot, reason planninglog.BlockReason) {
			if dlog == nil {
				return
			}
			dlog.RecordBlock(planninglog.BlockEvent{
				Reason:        reason,
				ProjectID:     state.Project.ID,
				PrinterID:     s.printer.ID,
				PresetID:      state.Preset.ID,
				ScheduledDate: s.currentTime,
				CycleHours:    state.Preset.CycleHours,
			})
		},
	)

	return cycles
}

// determineReadiness decides whether a placed cycle can actually start:
// blocked on inventory if there isn't enough material anywhere, ready if the
// printer already has the right color loaded, otherwise waiting on a spool
// change with up to three candidates suggested. Picking up a color it
// doesn't already hold also has to clear the concurrent-printer-count gate:
// a printer may only pick up a color while fewer printers hold it than
// there are physical spools of it.
func determineReadiness(mountedColor, targetColor, printerID string, gramsNeeded, remainingGrams float64, matView *material.View, tracker *colorPrinterTracker) (types.ReadinessState, string, []string) {
	if remainingGrams < gramsNeeded {
		return types.ReadinessBlockedInventory,
			fmt.Sprintf("needs %.0fg, only %.0fg available", gramsNeeded, remainingGrams),
			nil
	}

	normalizedTarget := material.NormalizeColor(targetColor)
	sameColorMounted := mountedColor != "" && !normalizedColorsDiffer(mountedColor, targetColor)

	if sameColorMounted && tracker.holds(normalizedTarget, printerID) {
		return types.ReadinessReady, "required color already mounted", nil
	}

	suggested := matView.SuggestSpools(targetColor, 3)

	if mountedColor != "" && !sameColorMounted {
		tracker.release(material.NormalizeColor(mountedColor), printerID)
	}

	spoolCount := matView.SpoolCount(targetColor)
	if !tracker.canPickUp(normalizedTarget, printerID, spoolCount) {
		return types.ReadinessWaitingForSpool,
			fmt.Sprintf("all %d physical spool(s) of %s already assigned to other printers", spoolCount, normalizedTarget),
			suggested
	}
	tracker.pickUp(normalizedTarget, printerID)

	if sameColorMounted {
		return types.ReadinessReady, "required color already mounted", nil
	}
	return types.ReadinessWaitingForSpool, "awaiting spool change", suggested
}

func plateType(units, unitsPerPlate int, isLast bool) types.PlateType {
	if units >= unitsPerPlate {
		return types.PlateTypeFull
	}
	if isLast {
		return types.PlateTypeCloseout
	}
	return types.PlateTypeReduced
}

func shiftFor(phase slotPhase) types.Shift {
	if phase == phaseInNightExtension {
		return types.ShiftEndOfDay
	}
	return types.ShiftDay
}
