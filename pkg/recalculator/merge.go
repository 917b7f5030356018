package recalculator

import (
	"fmt"

	"github.com/cuemby/printplan/pkg/types"
)

// mergeCycles concatenates preserved and created cycles for the remote sync
// step, deduping on (printerId, startTime) in case a defect upstream ever
// lets the engine double-book a slot the preserved set already occupies.
// Preserved cycles win ties, since they are never the engine's to rewrite.
func mergeCycles(preserved, created []*types.PlannedCycle) (merged []*types.PlannedCycle, warnings []string) {
	type key struct {
		printerID string
		start     int64
	}
	seen := make(map[key]bool, len(preserved)+len(created))

	add := func(c *types.PlannedCycle) {
		k := key{c.PrinterID, c.StartTime.UnixNano()}
		if seen[k] {
			warnings = append(warnings, fmt.Sprintf("duplicate cycle at printer %s start %s dropped during merge", c.PrinterID, c.StartTime))
			return
		}
		seen[k] = true
		merged = append(merged, c)
	}

	for _, c := range preserved {
		add(c)
	}
	for _, c := range created {
		add(c)
	}
	return merged, warnings
}
