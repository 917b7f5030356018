package coordinator

import (
	"fmt"
	"time"

	"github.com/cuemby/printplan/pkg/metrics"
	"github.com/cuemby/printplan/pkg/types"
)

// CapacityInfo is calculateWeekCapacity's result: an aggregate read of one
// week's printing capacity against what is already scheduled.
type CapacityInfo struct {
	WeekStart              time.Time
	HoursAvailable         float64
	HoursScheduled         float64
	UtilizationRatio       float64
	EstimatedUnitsCapacity int
}

// CalculateWeekCapacity aggregates, for the 7 days starting at weekStart,
// every active printer's available work-window hours against the hours
// already committed to planned cycles, and derives a utilization ratio plus
// an estimated remaining-units capacity from the average preset
// units-per-hour across all products.
func (c *Coordinator) CalculateWeekCapacity(weekStart time.Time) (*CapacityInfo, error) {
	_, products, printers, _, _, settings, err := c.loadSnapshot()
	if err != nil {
		return nil, fmt.Errorf("coordinator: load snapshot: %w", err)
	}

	cal := newCalendar(c.store, settings)
	weekEnd := weekStart.AddDate(0, 0, 7)

	var hoursAvailable float64
	for day := 0; day < 7; day++ {
		date := weekStart.AddDate(0, 0, day)
		start, end, ok := cal.WindowBounds(date)
		if !ok {
			continue
		}
		dayHours := end.Sub(start).Hours()
		hoursAvailable += dayHours * float64(len(printers))
	}

	cycles, err := c.store.GetPlannedCyclesFrom(weekStart)
	if err != nil {
		return nil, fmt.Errorf("coordinator: load planned cycles: %w", err)
	}
	var hoursScheduled float64
	for _, cycle := range cycles {
		if !cycle.StartTime.Before(weekEnd) {
			continue
		}
		hoursScheduled += cycle.EndTime.Sub(cycle.StartTime).Hours()
	}

	utilization := 0.0
	if hoursAvailable > 0 {
		utilization = hoursScheduled / hoursAvailable
	}
	metrics.CapacityUtilizationRatio.WithLabelValues(weekStart.Format("2006-01-02")).Set(utilization)

	unitsPerHour := averageUnitsPerHour(products)
	remainingHours := hoursAvailable - hoursScheduled
	if remainingHours < 0 {
		remainingHours = 0
	}

	return &CapacityInfo{
		WeekStart:              weekStart,
		HoursAvailable:         hoursAvailable,
		HoursScheduled:         hoursScheduled,
		UtilizationRatio:       utilization,
		EstimatedUnitsCapacity: int(remainingHours * unitsPerHour),
	}, nil
}

// averageUnitsPerHour averages each product's recommended preset's
// units-per-hour throughput, skipping products with no recommended preset.
func averageUnitsPerHour(products []*types.Product) float64 {
	var total float64
	var count int
	for _, p := range products {
		preset := p.RecommendedPreset()
		if preset == nil || preset.CycleHours <= 0 {
			continue
		}
		total += float64(preset.UnitsPerPlate) / preset.CycleHours
		count++
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}
