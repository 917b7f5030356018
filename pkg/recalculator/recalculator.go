package recalculator

import (
	"context"
	"fmt"
	"time"

	"github.com/cuemby/printplan/pkg/calendar"
	"github.com/cuemby/printplan/pkg/engine"
	"github.com/cuemby/printplan/pkg/log"
	"github.com/cuemby/printplan/pkg/metrics"
	"github.com/cuemby/printplan/pkg/mirror"
	"github.com/cuemby/printplan/pkg/planninglog"
	"github.com/cuemby/printplan/pkg/store"
	"github.com/cuemby/printplan/pkg/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Recalculator wires the store, the pure engine and the remote mirror
// together into one replanning run.
type Recalculator struct {
	store  store.Store
	engine *engine.Engine
	mirror mirror.Mirror
	broker *planninglog.Broker
	logger zerolog.Logger
}

// New builds a Recalculator. mirror and broker may be nil: a nil mirror
// skips the remote sync step entirely (local-only deployments); a nil
// broker skips sync notifications.
func New(st store.Store, eng *engine.Engine, mir mirror.Mirror, broker *planninglog.Broker) *Recalculator {
	return &Recalculator{
		store:  st,
		engine: eng,
		mirror: mir,
		broker: broker,
		logger: log.WithComponent("recalculator"),
	}
}

// Result is what one recalculation run produced.
type Result struct {
	CyclesPreserved int
	CyclesCreated   int
	CyclesDiscarded int
	UnitsPlanned    int
	Warnings        []string
	Issues          []string

	// CloudSyncSuccess and Deferred distinguish "planned and mirrored" from
	// "planned locally, mirror sync deferred" without the caller having to
	// infer it from cycle counts.
	CloudSyncSuccess bool
	Deferred         bool

	DecisionLog []planninglog.DecisionEvent
	BlockLog    []planninglog.BlockEvent
}

// Recalculate classifies existing planned cycles per scope, replans the
// discarded remainder with the engine over a 7-day horizon, persists the
// merged result, and reconciles it to the remote mirror. now is the
// injected clock; the recalculator never reads time.Now() for planning
// decisions.
func (r *Recalculator) Recalculate(ctx context.Context, scope Scope, lockInProgress bool, reason string, now time.Time) (*Result, error) {
	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.RecalculationDuration)

	logger := r.logger.With().Str("scope", string(scope)).Str("reason", reason).Logger()
	logger.Info().Msg("recalculation starting")

	projects, err := r.store.GetActiveProjects()
	if err != nil {
		metrics.RecalculationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("recalculator: load projects: %w", err)
	}
	products, err := r.store.GetProducts()
	if err != nil {
		metrics.RecalculationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("recalculator: load products: %w", err)
	}
	printers, err := r.store.GetActivePrinters()
	if err != nil {
		metrics.RecalculationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("recalculator: load printers: %w", err)
	}
	spools, err := r.store.GetSpools()
	if err != nil {
		metrics.RecalculationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("recalculator: load spools: %w", err)
	}
	inventory, err := r.store.GetColorInventory()
	if err != nil {
		metrics.RecalculationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("recalculator: load color inventory: %w", err)
	}
	settings, err := r.store.GetFactorySettings()
	if err != nil {
		metrics.RecalculationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("recalculator: load factory settings: %w", err)
	}
	existing, err := r.store.GetPlannedCycles()
	if err != nil {
		metrics.RecalculationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("recalculator: load planned cycles: %w", err)
	}

	cutoff := scope.cutoff(now)
	preserved, discarded := classify(existing, cutoff, lockInProgress)
	logger.Debug().
		Time("cutoff", cutoff).
		Int("preserved", len(preserved)).
		Int("discarded", len(discarded)).
		Msg("classified existing cycles")

	cal := calendar.New(settings, r.dayScheduleOverride)

	plan := r.engine.GeneratePlan(engine.Input{
		Projects:       projects,
		Products:       products,
		Printers:       printers,
		Spools:         spools,
		ColorInventory: inventory,
		Settings:       settings,
		Calendar:       cal,
		ExistingCycles: preserved,
		Now:            now,
	}, engine.Options{DaysToPlan: 7})

	metrics.CyclesScheduled.Add(float64(len(plan.Cycles)))
	for _, b := range plan.BlockLog {
		metrics.CyclesBlocked.WithLabelValues(string(b.Reason)).Inc()
	}

	merged, mergeWarnings := mergeCycles(preserved, plan.Cycles)

	if err := r.store.ReplacePlannedCycles(preserved, plan.Cycles); err != nil {
		metrics.RecalculationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("recalculator: persist planned cycles: %w", err)
	}

	result := &Result{
		CyclesPreserved: len(preserved),
		CyclesCreated:   len(plan.Cycles),
		CyclesDiscarded: len(discarded),
		DecisionLog:     plan.DecisionLog,
		BlockLog:        plan.BlockLog,
	}
	for _, c := range plan.Cycles {
		result.UnitsPlanned += c.UnitsPlanned
	}
	for _, w := range plan.Warnings {
		result.Warnings = append(result.Warnings, w.Detail)
	}
	for _, iss := range plan.Issues {
		result.Issues = append(result.Issues, iss.Detail)
	}
	result.Warnings = append(result.Warnings, mergeWarnings...)

	result.CloudSyncSuccess, result.Deferred = r.syncToMirror(ctx, cutoff, merged, &logger)

	if err := r.store.WritePlanningMeta(&types.PlanningMeta{LastRecalculatedAt: now}); err != nil {
		logger.Error().Err(err).Msg("failed to write planning meta")
	}

	entry := store.PlanningLogEntry{
		ID:                uuid.NewString(),
		RanAt:             now,
		Scope:             string(scope),
		Reason:            reason,
		ProjectsCount:     len(projects),
		PrintersCount:     len(printers),
		CyclesCreated:     result.CyclesCreated,
		UnitsPlanned:      result.UnitsPlanned,
		Warnings:          result.Warnings,
		Errors:            result.Issues,
		DurationMs:        timer.Duration().Milliseconds(),
		ByReasonCounts:    plan.LogSummary.ByReason,
		TopAdvanceReasons: plan.LogSummary.TopAdvanceReasons,
	}
	if err := r.store.AppendPlanningLogEntry(entry); err != nil {
		logger.Error().Err(err).Msg("failed to append planning log entry")
	}

	outcome := "ok"
	if result.Deferred {
		outcome = "deferred"
	}
	metrics.RecalculationsTotal.WithLabelValues(outcome).Inc()

	if r.broker != nil {
		evtType := planninglog.SyncCyclesComplete
		if result.Deferred {
			evtType = planninglog.SyncCyclesSkipped
		}
		r.broker.Publish(&planninglog.SyncEvent{
			Type:    evtType,
			Message: reason,
			Metadata: map[string]string{
				"scope":            string(scope),
				"cycles_created":   fmt.Sprint(result.CyclesCreated),
				"cycles_preserved": fmt.Sprint(result.CyclesPreserved),
			},
		})
	}

	logger.Info().
		Int("cycles_created", result.CyclesCreated).
		Int("cycles_preserved", result.CyclesPreserved).
		Bool("cloud_sync_success", result.CloudSyncSuccess).
		Bool("deferred", result.Deferred).
		Msg("recalculation complete")

	return result, nil
}

// dayScheduleOverride adapts store.Store's pointer-returning lookup to the
// value-returning shape calendar.DayScheduleOverride expects.
func (r *Recalculator) dayScheduleOverride(date time.Time) (types.DaySchedule, bool, error) {
	ds, found, err := r.store.GetDayScheduleForDate(date)
	if err != nil || !found {
		return types.DaySchedule{}, found, err
	}
	return *ds, true, nil
}

// syncToMirror performs the REPLACE-style remote sync: delete everything the
// mirror has from from forward with no upper bound, then upsert the merged
// cycle set. Bounding the delete would let a prior longer-horizon run's
// remote cycles survive un-replaced. If r.mirror is nil, sync is skipped and
// Deferred is reported true so the caller knows the plan is local-only.
func (r *Recalculator) syncToMirror(ctx context.Context, from time.Time, cycles []*types.PlannedCycle, logger *zerolog.Logger) (success, deferred bool) {
	if r.mirror == nil {
		return false, true
	}

	if err := r.mirror.DeleteCyclesByDateRange(ctx, from); err != nil {
		metrics.SyncFailuresTotal.Inc()
		logger.Warn().Err(err).Msg("mirror delete failed, deferring sync")
		return false, true
	}

	for _, c := range cycles {
		if c.StartTime.Before(from) {
			continue
		}
		if _, err := r.mirror.UpsertCycleByLegacyID(ctx, c); err != nil {
			metrics.SyncFailuresTotal.Inc()
			logger.Warn().Err(err).Str("cycle_id", c.ID).Msg("mirror upsert failed, deferring sync")
			return false, true
		}
	}

	return true, false
}
