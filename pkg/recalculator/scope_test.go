package recalculator

import (
	"testing"
	"time"

	"github.com/cuemby/printplan/pkg/types"
	"github.com/stretchr/testify/assert"
)

var monday = time.Date(2026, 8, 3, 9, 30, 0, 0, time.UTC)

func TestScopeCutoffFromNow(t *testing.T) {
	assert.Equal(t, monday, ScopeFromNow.cutoff(monday))
}

func TestScopeCutoffFromTomorrow(t *testing.T) {
	want := time.Date(2026, 8, 4, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, want, ScopeFromTomorrow.cutoff(monday))
}

func TestScopeCutoffWholeWeek(t *testing.T) {
	want := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, want, ScopeWholeWeek.cutoff(monday))

	wednesday := time.Date(2026, 8, 5, 14, 0, 0, 0, time.UTC)
	assert.Equal(t, want, ScopeWholeWeek.cutoff(wednesday))
}

func TestClassifyPreservesImmovableCycles(t *testing.T) {
	cutoff := time.Date(2026, 8, 4, 0, 0, 0, 0, time.UTC)
	completed := &types.PlannedCycle{ID: "c1", Status: types.CycleStatusCompleted, StartTime: cutoff.AddDate(0, 0, 5)}
	locked := &types.PlannedCycle{ID: "c2", Status: types.CycleStatusPlanned, Locked: true, Source: types.CycleSourceManual, StartTime: cutoff.AddDate(0, 0, 5)}
	future := &types.PlannedCycle{ID: "c3", Status: types.CycleStatusPlanned, StartTime: cutoff.AddDate(0, 0, 1)}
	past := &types.PlannedCycle{ID: "c4", Status: types.CycleStatusPlanned, StartTime: cutoff.AddDate(0, 0, -1)}

	preserved, discarded := classify([]*types.PlannedCycle{completed, locked, future, past}, cutoff, false)

	assert.ElementsMatch(t, []*types.PlannedCycle{completed, locked, past}, preserved)
	assert.ElementsMatch(t, []*types.PlannedCycle{future}, discarded)
}

func TestClassifyLockInProgressPreservesActiveCycles(t *testing.T) {
	cutoff := time.Date(2026, 8, 4, 0, 0, 0, 0, time.UTC)
	inProgress := &types.PlannedCycle{ID: "c1", Status: types.CycleStatusInProgress, StartTime: cutoff.AddDate(0, 0, 1)}

	_, discardedWithoutLock := classify([]*types.PlannedCycle{inProgress}, cutoff, false)
	assert.Len(t, discardedWithoutLock, 1)

	preservedWithLock, discardedWithLock := classify([]*types.PlannedCycle{inProgress}, cutoff, true)
	assert.Empty(t, discardedWithLock)
	assert.Equal(t, []*types.PlannedCycle{inProgress}, preservedWithLock)
}
