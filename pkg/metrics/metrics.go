package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Gauges
	ProjectsTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "planner_projects_total",
			Help: "Total number of projects in the store, by status",
		},
		[]string{"status"},
	)

	PrintersTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "planner_printers_total",
			Help: "Total number of printers, by status",
		},
		[]string{"status"},
	)

	CapacityUtilizationRatio = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "planner_capacity_utilization_ratio",
			Help: "Last calculateWeekCapacity utilization ratio, by week start date",
		},
		[]string{"week"},
	)

	// Cycle placement
	CyclesScheduled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "planner_cycles_scheduled_total",
			Help: "Total number of cycles placed by the engine",
		},
	)

	CyclesBlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_cycles_blocked_total",
			Help: "Total number of block events emitted by the engine, by reason",
		},
		[]string{"reason"},
	)

	CyclesDowngraded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "planner_cycles_downgraded_total",
			Help: "Total number of cycles downgraded to waiting_for_plate_reload by the plate-limit post-pass",
		},
	)

	// Timing
	PlanGenerationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "planner_plan_generation_duration_seconds",
			Help:    "Time taken to generate one plan",
			Buckets: prometheus.DefBuckets,
		},
	)

	RecalculationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "planner_recalculation_duration_seconds",
			Help:    "Time taken for one recalculation run",
			Buckets: prometheus.DefBuckets,
		},
	)

	DryRunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "planner_dry_run_duration_seconds",
			Help:    "Time taken to simulate one candidate printer set",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Recalculation outcomes
	RecalculationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_recalculations_total",
			Help: "Total number of recalculation runs, by outcome",
		},
		[]string{"outcome"}, // ok, deferred, error
	)

	SyncFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "planner_sync_failures_total",
			Help: "Total number of remote mirror sync failures",
		},
	)
)

func init() {
	prometheus.MustRegister(ProjectsTotal)
	prometheus.MustRegister(PrintersTotal)
	prometheus.MustRegister(CapacityUtilizationRatio)
	prometheus.MustRegister(CyclesScheduled)
	prometheus.MustRegister(CyclesBlocked)
	prometheus.MustRegister(CyclesDowngraded)
	prometheus.MustRegister(PlanGenerationDuration)
	prometheus.MustRegister(RecalculationDuration)
	prometheus.MustRegister(DryRunDuration)
	prometheus.MustRegister(RecalculationsTotal)
	prometheus.MustRegister(SyncFailuresTotal)
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	histogram.Observe(time.Since(t.start).Seconds())
}

// ObserveDurationVec records the duration to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	duration := time.Since(t.start).Seconds()
	histogram.WithLabelValues(labels...).Observe(duration)
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
