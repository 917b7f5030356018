package preset

import (
	"fmt"
	"time"

	"github.com/cuemby/printplan/pkg/types"
)

// Input bundles everything Select needs to choose a plate layout for one
// placement decision.
type Input struct {
	Product           *types.Product
	RemainingUnits    int
	AvailableHours    float64
	AvailableGrams    float64
	NightSlot         bool
	PreferredPresetID string
	Now               time.Time // used to detect the pre-weekend window
}

// Result is the chosen preset plus a human-readable reason, surfaced in
// PlannedCycle.SelectionReason.
type Result struct {
	Preset *types.PlatePreset
	Reason string
}

// Select resolves the best plate preset for one placement decision.
func Select(in Input) Result {
	if in.PreferredPresetID != "" {
		if preset := in.Product.PresetByID(in.PreferredPresetID); preset != nil {
			return Result{Preset: preset, Reason: "preferred preset"}
		}
	}

	candidates := filterCandidates(in.Product.Presets, in)
	if len(candidates) == 0 {
		fallback := in.Product.RecommendedPreset()
		if fallback == nil && len(in.Product.Presets) > 0 {
			fallback = in.Product.Presets[0]
		}
		return Result{Preset: fallback, Reason: "no preset fits constraints; using default"}
	}

	preWeekend := isPreWeekend(in.Now)

	maxUnitsPerPlate := 0
	minCycleHours := candidates[0].CycleHours
	maxCycleHoursAmongCandidates := candidates[0].CycleHours
	for _, c := range candidates {
		if c.UnitsPerPlate > maxUnitsPerPlate {
			maxUnitsPerPlate = c.UnitsPerPlate
		}
		if c.CycleHours < minCycleHours {
			minCycleHours = c.CycleHours
		}
		if c.CycleHours > maxCycleHoursAmongCandidates {
			maxCycleHoursAmongCandidates = c.CycleHours
		}
	}

	var best *types.PlatePreset
	var bestScore float64
	for i, c := range candidates {
		score := scoreCandidate(c, in, maxUnitsPerPlate, minCycleHours, maxCycleHoursAmongCandidates, preWeekend)
		if i == 0 || score > bestScore {
			best = c
			bestScore = score
		}
	}

	return Result{Preset: best, Reason: fmt.Sprintf("scored %.1f among %d candidates", bestScore, len(candidates))}
}

func filterCandidates(presets []*types.PlatePreset, in Input) []*types.PlatePreset {
	var out []*types.PlatePreset
	for _, p := range presets {
		if p.CycleHours > in.AvailableHours {
			continue
		}
		if float64(p.UnitsPerPlate)*in.Product.GramsPerUnit > in.AvailableGrams {
			continue
		}
		if in.NightSlot && !p.AllowedForNightCycle {
			continue
		}
		out = append(out, p)
	}
	return out
}

func scoreCandidate(c *types.PlatePreset, in Input, maxUnitsPerPlate int, minCycleHours, maxCycleHoursAmongCandidates float64, preWeekend bool) float64 {
	var score float64

	if maxUnitsPerPlate > 0 {
		score += 40 * float64(c.UnitsPerPlate) / float64(maxUnitsPerPlate)
	}
	if c.CycleHours > 0 {
		score += 20 * minCycleHours / c.CycleHours
	}

	switch c.Risk {
	case types.RiskLow:
		score += 20
	case types.RiskMedium:
		score += 10
	}

	if c.Recommended {
		score += 20
	}

	if c.UnitsPerPlate > in.RemainingUnits {
		score -= 2 * float64(c.UnitsPerPlate-in.RemainingUnits)
	}

	if c.CycleHours > 0.8*in.AvailableHours && in.AvailableHours < 4 {
		score -= 10
	}

	if in.NightSlot && c.Risk == types.RiskLow {
		score += 10
	}

	if preWeekend && maxCycleHoursAmongCandidates > 0 {
		score += 100 * c.CycleHours / maxCycleHoursAmongCandidates
	}

	return score
}

// isPreWeekend reports whether t falls on Thursday at or after 14:00, the
// last practical window to load plates that will run unattended into the
// weekend.
func isPreWeekend(t time.Time) bool {
	return t.Weekday() == time.Thursday && t.Hour() >= 14
}
