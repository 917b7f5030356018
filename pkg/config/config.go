package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cuemby/printplan/pkg/types"
	"gopkg.in/yaml.v3"
)

// fileDaySchedule is one weekday's work window as it appears in YAML.
type fileDaySchedule struct {
	Enabled bool   `yaml:"enabled"`
	Start   string `yaml:"start"`
	End     string `yaml:"end"`
}

// filePriorityRules mirrors types.PriorityRules for YAML decoding.
type filePriorityRules struct {
	UrgentDaysThreshold   int `yaml:"urgentDaysThreshold"`
	CriticalDaysThreshold int `yaml:"criticalDaysThreshold"`
}

// fileFeatureToggles mirrors FactorySettings' feature-toggle fields.
type fileFeatureToggles struct {
	PlannerV2ProjectCentric bool `yaml:"plannerV2ProjectCentric"`
	PhysicalPlatesLimit     bool `yaml:"physicalPlatesLimit"`
}

// fileSettings is the on-disk shape of FactorySettings.
type fileSettings struct {
	AfterHoursBehavior  string                      `yaml:"afterHoursBehavior"`
	TransitionMinutes   int                         `yaml:"transitionMinutes"`
	StandardSpoolWeight float64                     `yaml:"standardSpoolWeight"`
	PriorityRules       filePriorityRules           `yaml:"priorityRules"`
	PlanningHorizonDays int                         `yaml:"planningHorizonDays"`
	WeeklySchedule      map[string]fileDaySchedule  `yaml:"weeklySchedule"`
	FeatureToggles      fileFeatureToggles          `yaml:"featureToggles"`
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// LoadFactorySettings reads and parses a FactorySettings YAML file at path,
// then applies environment-variable overrides to the feature toggles
// (PLANNER_V2_PROJECT_CENTRIC, PHYSICAL_PLATES_LIMIT): a variable that is set
// to a value strconv.ParseBool accepts replaces the file's value.
func LoadFactorySettings(path string) (*types.FactorySettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var file fileSettings
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	settings, err := file.toFactorySettings()
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}

	applyEnvOverrides(settings, os.LookupEnv)
	return settings, nil
}

func (f fileSettings) toFactorySettings() (*types.FactorySettings, error) {
	schedule := make(map[time.Weekday]types.DaySchedule, len(f.WeeklySchedule))
	for name, day := range f.WeeklySchedule {
		weekday, ok := weekdayNames[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q in weeklySchedule", name)
		}
		schedule[weekday] = types.DaySchedule{
			Enabled:   day.Enabled,
			StartTime: day.Start,
			EndTime:   day.End,
		}
	}

	behavior := types.AfterHoursBehavior(f.AfterHoursBehavior)
	switch behavior {
	case "":
		behavior = types.AfterHoursNone
	case types.AfterHoursNone, types.AfterHoursOneCycleEndOfDay, types.AfterHoursFullAutomation:
	default:
		return nil, fmt.Errorf("unknown afterHoursBehavior %q", f.AfterHoursBehavior)
	}

	return &types.FactorySettings{
		WeeklySchedule:      schedule,
		AfterHoursBehavior:  behavior,
		TransitionMinutes:   f.TransitionMinutes,
		StandardSpoolWeight: f.StandardSpoolWeight,
		PriorityRules: types.PriorityRules{
			UrgentDaysThreshold:   f.PriorityRules.UrgentDaysThreshold,
			CriticalDaysThreshold: f.PriorityRules.CriticalDaysThreshold,
		},
		PlanningHorizonDays:     f.PlanningHorizonDays,
		PlannerV2ProjectCentric: f.FeatureToggles.PlannerV2ProjectCentric,
		PhysicalPlatesLimit:     f.FeatureToggles.PhysicalPlatesLimit,
	}, nil
}

// applyEnvOverrides lets PLANNER_V2_PROJECT_CENTRIC and PHYSICAL_PLATES_LIMIT
// override whatever the YAML file set.
func applyEnvOverrides(settings *types.FactorySettings, lookupEnv func(string) (string, bool)) {
	if v, ok := lookupEnv("PLANNER_V2_PROJECT_CENTRIC"); ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			settings.PlannerV2ProjectCentric = parsed
		}
	}
	if v, ok := lookupEnv("PHYSICAL_PLATES_LIMIT"); ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			settings.PhysicalPlatesLimit = parsed
		}
	}
}
