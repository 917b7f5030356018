package integration

import (
	"testing"
	"time"

	"github.com/cuemby/printplan/pkg/coordinator"
	"github.com/cuemby/printplan/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateWeekCapacityReflectsPersistedCycles(t *testing.T) {
	st := newFixtureStore()
	c, err := coordinator.New(coordinator.Config{Store: st})
	require.NoError(t, err)
	defer c.Close()

	weekStart := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	before, err := c.CalculateWeekCapacity(weekStart)
	require.NoError(t, err)
	assert.Equal(t, 0.0, before.HoursScheduled)

	st.Cycles = []*types.PlannedCycle{
		{PrinterID: "p1", ProjectID: "proj-1", StartTime: monday, EndTime: monday.Add(2 * time.Hour)},
	}

	after, err := c.CalculateWeekCapacity(weekStart)
	require.NoError(t, err)
	assert.Equal(t, 2.0, after.HoursScheduled)
	assert.Less(t, after.UtilizationRatio, 1.0)
	assert.Greater(t, after.UtilizationRatio, 0.0)
}

func TestCheckDeadlineImpactEstimatesDraftHoursAgainstBusyPrinter(t *testing.T) {
	st := newFixtureStore()
	st.Projects[0].TargetQuantity = 800 // far beyond what one printer can finish by its due date
	st.Projects[0].DueDate = monday.AddDate(0, 0, 1)

	c, err := coordinator.New(coordinator.Config{Store: st})
	require.NoError(t, err)
	defer c.Close()

	draft := coordinator.NewProjectDraft{
		ProductID: "prod-1", Color: "black", TargetQuantity: 16,
		DueDate: monday.AddDate(0, 0, 1),
	}

	result, err := c.CheckDeadlineImpact(draft)
	require.NoError(t, err)
	assert.Greater(t, result.DraftEstimatedHours, 0.0)
}
