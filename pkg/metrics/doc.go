/*
Package metrics defines and registers the planner's Prometheus metrics:
project/printer gauges kept current by Collector, cycle placement counters
updated inline by pkg/recalculator, and duration histograms timed with
Timer. Call Handler to mount /metrics.

	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.RecalculationDuration)
*/
package metrics
