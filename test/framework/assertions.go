package framework

import (
	"context"
	"sort"
	"time"

	"github.com/cuemby/printplan/pkg/types"
	"github.com/cuemby/printplan/pkg/validate"
)

// TestingT is an interface matching testing.T
type TestingT interface {
	Logf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
	FailNow()
	Failed() bool
	Name() string
	Helper()
}

// Assertions provides test assertion helpers over planner domain results.
type Assertions struct {
	t TestingT
}

// NewAssertions creates a new Assertions instance
func NewAssertions(t TestingT) *Assertions {
	return &Assertions{t: t}
}

// PlanValid asserts that a validate.Result reports no integrity issues.
func (a *Assertions) PlanValid(result validate.Result) {
	a.t.Helper()
	if !result.IsValid {
		a.t.Fatalf("plan has %d integrity issue(s): %+v", len(result.Issues), result.Issues)
	}
}

// CycleCount asserts that cycles contains exactly expected entries.
func (a *Assertions) CycleCount(expected int, cycles []*types.PlannedCycle) {
	a.t.Helper()
	if len(cycles) != expected {
		a.t.Fatalf("expected %d cycles, got %d", expected, len(cycles))
	}
}

// ProjectScheduled asserts that at least one cycle in cycles belongs to projectID.
func (a *Assertions) ProjectScheduled(projectID string, cycles []*types.PlannedCycle) {
	a.t.Helper()
	for _, c := range cycles {
		if c.ProjectID == projectID {
			return
		}
	}
	a.t.Fatalf("project %s has no scheduled cycle", projectID)
}

// NoOverlaps asserts that no two cycles on the same printer overlap in time,
// the same check validateExistingPlan's checkOverlaps performs, reused here
// so engine-level tests can assert non-overlap directly on a cycle slice.
func (a *Assertions) NoOverlaps(cycles []*types.PlannedCycle) {
	a.t.Helper()

	byPrinter := make(map[string][]*types.PlannedCycle)
	for _, c := range cycles {
		byPrinter[c.PrinterID] = append(byPrinter[c.PrinterID], c)
	}

	for printerID, printerCycles := range byPrinter {
		sort.Slice(printerCycles, func(i, j int) bool {
			return printerCycles[i].StartTime.Before(printerCycles[j].StartTime)
		})
		for i := 1; i < len(printerCycles); i++ {
			prev, cur := printerCycles[i-1], printerCycles[i]
			if cur.StartTime.Before(prev.EndTime) {
				a.t.Fatalf("printer %s: cycle %s (ends %s) overlaps cycle %s (starts %s)",
					printerID, prev.ID, prev.EndTime, cur.ID, cur.StartTime)
			}
		}
	}
}

// Eventually repeatedly runs condition until it returns true or timeout occurs.
func (a *Assertions) Eventually(condition func() bool, timeout, interval time.Duration, msg string) {
	a.t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if condition() {
		return
	}
	for {
		select {
		case <-ctx.Done():
			a.t.Fatalf("timed out waiting for: %s", msg)
			return
		case <-ticker.C:
			if condition() {
				return
			}
		}
	}
}

// Logf logs a formatted message (non-failing)
func (a *Assertions) Logf(format string, args ...interface{}) {
	a.t.Helper()
	a.t.Logf(format, args...)
}

// Step logs a test step (for visibility in test output)
func (a *Assertions) Step(step string) {
	a.t.Helper()
	a.t.Logf("\n==> %s", step)
}

// Success logs a success message
func (a *Assertions) Success(msg string) {
	a.t.Helper()
	a.t.Logf("✓ %s", msg)
}

// Fatalf logs a fatal error and stops the test immediately
func (a *Assertions) Fatalf(format string, args ...interface{}) {
	a.t.Helper()
	a.t.Fatalf(format, args...)
}
