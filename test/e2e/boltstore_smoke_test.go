package e2e

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/cuemby/printplan/pkg/coordinator"
	"github.com/cuemby/printplan/pkg/recalculator"
	"github.com/cuemby/printplan/pkg/store"
	"github.com/cuemby/printplan/test/framework"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFullStackRoundTripsThroughRealBoltStore exercises the whole pipeline —
// settings bootstrap, project/printer seeding, replanning, validation and
// capacity reporting — against a real on-disk BoltDB store rather than the
// in-memory fixture store the integration suite uses, the way a deployed
// planner binary would see it.
func TestFullStackRoundTripsThroughRealBoltStore(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "planner-data")

	bolt, err := store.NewBoltStore(dataDir)
	require.NoError(t, err)

	settings := framework.DefaultSettings()
	require.NoError(t, bolt.WriteFactorySettings(settings))

	preset := framework.NewPreset("preset-1", 8, 2)
	product := framework.NewProduct("prod-1", preset)
	printer := framework.NewPrinter("p1", 4)
	due := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	project := framework.NewProject("proj-1", product.ID, "black", 16, due)

	require.NoError(t, bolt.CreateProduct(product))
	require.NoError(t, bolt.CreatePrinter(printer))
	require.NoError(t, bolt.CreateProject(project))
	require.NoError(t, bolt.WriteColorInventory(framework.NewColorInventory("black", 2, 5000)))

	require.NoError(t, bolt.Close())

	// Reopen the way cmd/planner would on a fresh invocation.
	c, err := coordinator.New(coordinator.Config{DataDir: dataDir})
	require.NoError(t, err)
	defer c.Close()

	result, err := c.RecalculatePlan(context.Background(), recalculator.ScopeFromNow, false, "e2e smoke test")
	require.NoError(t, err)
	assert.Greater(t, result.CyclesCreated, 0)

	validation, err := c.ValidateExistingPlan()
	require.NoError(t, err)
	assert.True(t, validation.IsValid, "%+v", validation.Issues)

	weekStart := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	capacity, err := c.CalculateWeekCapacity(weekStart)
	require.NoError(t, err)
	assert.Greater(t, capacity.HoursAvailable, 0.0)

	// A second recalculation with no intervening state change should
	// reproduce the same cycle count.
	second, err := c.RecalculatePlan(context.Background(), recalculator.ScopeFromNow, false, "e2e smoke test repeat")
	require.NoError(t, err)
	assert.Equal(t, result.CyclesCreated, second.CyclesCreated)
}
