// Package printerscore scores one candidate printer slot's fitness to run a
// project's next cycle: availability, color match, switch cost, and
// continuity with the printer's last job.
package printerscore
