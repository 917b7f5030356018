package coordinator

import (
	"fmt"
	"time"

	"github.com/cuemby/printplan/pkg/engine"
	"github.com/cuemby/printplan/pkg/material"
	"github.com/cuemby/printplan/pkg/types"
)

// draftProjectID is the synthetic project ID checkDeadlineImpact assigns the
// proposed project for its second GeneratePlan call.
const draftProjectID = "__deadline_impact_draft__"

// minimumSlackHours is the threshold checkDeadlineImpact flags a project's
// impacted slack crossing below.
const minimumSlackHours = 4.0

// sharedColorAttribution and differentColorAttribution are the heuristic's
// fractions of the draft project's estimated hours attributed to an
// existing project's slack.
const (
	sharedColorAttribution    = 0.5
	differentColorAttribution = 0.2
)

// NewProjectDraft is a proposed, not-yet-saved project to test the impact of.
type NewProjectDraft struct {
	ProductID      string
	Color          string
	TargetQuantity int
	DueDate        time.Time
	Urgency        types.Urgency
}

// AffectedProject is one existing project whose deadline slack the draft
// project would measurably eat into.
type AffectedProject struct {
	ProjectID          string
	OriginalSlackHours float64
	ImpactedSlackHours float64
}

// DeadlineImpactResult is checkDeadlineImpact's advisory output.
type DeadlineImpactResult struct {
	DraftEstimatedHours float64
	Affected            []AffectedProject
}

// CheckDeadlineImpact runs the engine twice, once over the real project
// list and once with draft injected, and reports existing projects whose
// slack (dueDate - lastCycleEnd) would cross below minimumSlackHours or go
// negative under the 50%/20% shared-color attribution heuristic. This is
// advisory only: it never feeds back into GeneratePlan.
func (c *Coordinator) CheckDeadlineImpact(draft NewProjectDraft) (*DeadlineImpactResult, error) {
	projects, products, printers, spools, inventory, settings, err := c.loadSnapshot()
	if err != nil {
		return nil, fmt.Errorf("coordinator: load snapshot: %w", err)
	}

	now := c.now()
	cal := newCalendar(c.store, settings)

	baseline := c.engine.GeneratePlan(engine.Input{
		Projects: projects, Products: products, Printers: printers, Spools: spools,
		ColorInventory: inventory, Settings: settings, Calendar: cal, Now: now,
	}, engine.Options{DaysToPlan: 7})

	draftProject := &types.Project{
		ID: draftProjectID, ProductID: draft.ProductID, Color: draft.Color,
		TargetQuantity: draft.TargetQuantity, DueDate: draft.DueDate, Urgency: draft.Urgency,
		Status: types.ProjectStatusPending, IncludeInPlanning: true,
	}
	withDraft := c.engine.GeneratePlan(engine.Input{
		Projects: append(append([]*types.Project{}, projects...), draftProject),
		Products: products, Printers: printers, Spools: spools, ColorInventory: inventory,
		Settings: settings, Calendar: cal, Now: now,
	}, engine.Options{DaysToPlan: 7})

	draftHours := totalHoursForProject(withDraft.Cycles, draftProjectID)

	baselineLastEnd := lastCycleEndByProject(baseline.Cycles)

	result := &DeadlineImpactResult{DraftEstimatedHours: draftHours}
	for _, project := range projects {
		lastEnd, ok := baselineLastEnd[project.ID]
		if !ok {
			continue
		}

		originalSlack := project.DueDate.Sub(lastEnd).Hours()
		fraction := attributionFraction(draft, project)
		impactedSlack := originalSlack - fraction*draftHours

		if impactedSlack < minimumSlackHours {
			result.Affected = append(result.Affected, AffectedProject{
				ProjectID: project.ID, OriginalSlackHours: originalSlack, ImpactedSlackHours: impactedSlack,
			})
		}
	}

	return result, nil
}

func attributionFraction(draft NewProjectDraft, project *types.Project) float64 {
	sameColor := material.NormalizeColor(draft.Color) == material.NormalizeColor(project.Color)
	draftDueFirst := !draft.DueDate.After(project.DueDate)
	if sameColor && draftDueFirst {
		return sharedColorAttribution
	}
	return differentColorAttribution
}

func totalHoursForProject(cycles []*types.PlannedCycle, projectID string) float64 {
	var total float64
	for _, c := range cycles {
		if c.ProjectID == projectID {
			total += c.EndTime.Sub(c.StartTime).Hours()
		}
	}
	return total
}

func lastCycleEndByProject(cycles []*types.PlannedCycle) map[string]time.Time {
	last := make(map[string]time.Time, len(cycles))
	for _, c := range cycles {
		if cur, ok := last[c.ProjectID]; !ok || c.EndTime.After(cur) {
			last[c.ProjectID] = c.EndTime
		}
	}
	return last
}
