package prioritizer

import (
	"math"
	"sort"
	"time"

	"github.com/cuemby/printplan/pkg/types"
)

// ProjectPlanningState is one project ready to be fed into the feasibility
// validator and the rest of the engine pipeline.
type ProjectPlanningState struct {
	Project        *types.Project
	Product        *types.Product
	Preset         *types.PlatePreset
	PresetReason   string
	RemainingUnits int
	Priority       int
	DaysUntilDue   int
}

// Input bundles everything the prioritizer needs from the store snapshot.
type Input struct {
	Projects     []*types.Project
	Products     []*types.Product
	ActiveCycles []*types.PlannedCycle // in-progress cycles; units committed are subtracted from remaining
	Now          time.Time
}

// Prioritize filters to active, planning-enabled projects with remaining
// work, resolves each one's preset, scores priority, and returns the result
// sorted by (priority asc, daysUntilDue asc).
func Prioritize(in Input) []ProjectPlanningState {
	unitsInProgress := make(map[string]int) // projectID -> units
	for _, c := range in.ActiveCycles {
		if c.Status == types.CycleStatusInProgress {
			unitsInProgress[c.ProjectID] += c.UnitsPlanned
		}
	}

	productsByID := make(map[string]*types.Product, len(in.Products))
	for _, p := range in.Products {
		productsByID[p.ID] = p
	}

	var fallbackProduct *types.Product
	var fallbackPreset *types.PlatePreset
	if len(in.Products) > 0 {
		fallbackProduct = in.Products[0]
		if len(fallbackProduct.Presets) > 0 {
			fallbackPreset = fallbackProduct.Presets[0]
		}
	}

	states := make([]ProjectPlanningState, 0, len(in.Projects))

	for _, project := range in.Projects {
		if !project.IncludeInPlanning {
			continue
		}
		if project.Status == types.ProjectStatusCompleted || project.Status == types.ProjectStatusOnHold {
			continue
		}

		remaining := project.TargetQuantity - project.CompletedQuantity - unitsInProgress[project.ID]
		if remaining <= 0 {
			continue
		}

		product, preset, presetReason := resolveProductAndPreset(project, productsByID, fallbackProduct, fallbackPreset)
		if product == nil || preset == nil {
			continue
		}

		daysUntilDue := daysUntil(in.Now, project.DueDate)
		priority := priorityScore(daysUntilDue, project.Urgency)

		states = append(states, ProjectPlanningState{
			Project:        project,
			Product:        product,
			Preset:         preset,
			PresetReason:   presetReason,
			RemainingUnits: remaining,
			Priority:       priority,
			DaysUntilDue:   daysUntilDue,
		})
	}

	sort.SliceStable(states, func(i, j int) bool {
		if states[i].Priority != states[j].Priority {
			return states[i].Priority < states[j].Priority
		}
		return states[i].DaysUntilDue < states[j].DaysUntilDue
	})

	return states
}

// resolveProductAndPreset picks a first-pass product and preset for the
// project using the cheap preferred/recommended/first fallback chain. The
// reason string names which path was taken; engine.GeneratePlan may later
// override this preset with preset.Select once each candidate printer's
// live slot state (available hours, material, night-slot fit) is known.
func resolveProductAndPreset(project *types.Project, productsByID map[string]*types.Product, fallbackProduct *types.Product, fallbackPreset *types.PlatePreset) (*types.Product, *types.PlatePreset, string) {
	product, ok := productsByID[project.ProductID]
	if !ok || product == nil {
		return fallbackProduct, fallbackPreset, "fallback product"
	}

	if project.PreferredPresetID != "" {
		if preset := product.PresetByID(project.PreferredPresetID); preset != nil {
			return product, preset, "preferred preset"
		}
	}

	if preset := product.RecommendedPreset(); preset != nil {
		return product, preset, "recommended preset"
	}

	if len(product.Presets) > 0 {
		return product, product.Presets[0], "first available preset"
	}

	return fallbackProduct, fallbackPreset, "fallback product"
}

// daysUntil returns ceil((due - now) / 24h), never negative.
func daysUntil(now, due time.Time) int {
	diff := due.Sub(now)
	days := int(math.Ceil(diff.Hours() / 24))
	if days < 0 {
		days = 0
	}
	return days
}

// priorityScore starts from daysUntilDue and caps it according to urgency;
// lower scores are planned first.
func priorityScore(daysUntilDue int, urgency types.Urgency) int {
	score := daysUntilDue
	switch urgency {
	case types.UrgencyCritical:
		if score > 5 {
			score = 5
		}
	case types.UrgencyUrgent:
		if score > 15 {
			score = 15
		}
	}
	return score
}
