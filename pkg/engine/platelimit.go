package engine

import (
	"sort"

	"github.com/cuemby/printplan/pkg/types"
)

// applyPlateLimitPostPass walks each printer's cycles in start order and
// counts consecutive unattended (end-of-day shift) cycles. Once that streak
// exceeds the printer's physical plate capacity, a cycle that would
// otherwise be ready is downgraded to waiting_for_plate_reload: there's
// nowhere left to put the finished print until someone clears a plate.
// Cycles already blocked on inventory or a spool change are left alone —
// this pass only catches the case where material and color are fine but
// physical plates are not.
func applyPlateLimitPostPass(cycles []*types.PlannedCycle, printers []*types.Printer) {
	capacityByPrinter := make(map[string]int, len(printers))
	for _, p := range printers {
		capacityByPrinter[p.ID] = plateCapacity(p)
	}

	byPrinter := make(map[string][]*types.PlannedCycle)
	for _, c := range cycles {
		byPrinter[c.PrinterID] = append(byPrinter[c.PrinterID], c)
	}

	for printerID, printerCycles := range byPrinter {
		sort.Slice(printerCycles, func(i, j int) bool {
			return printerCycles[i].StartTime.Before(printerCycles[j].StartTime)
		})

		capacity := capacityByPrinter[printerID]
		if capacity == 0 {
			capacity = types.DefaultPhysicalPlateCapacity
		}

		streak := 0
		for _, c := range printerCycles {
			if c.Shift == types.ShiftDay {
				streak = 0
				continue
			}

			streak++
			if streak > capacity && c.ReadinessState == types.ReadinessReady {
				c.ReadinessState = types.ReadinessWaitingForPlateReload
				c.ReadinessDetails = "consecutive unattended cycles exceed physical plate capacity"
			}
		}
	}
}
