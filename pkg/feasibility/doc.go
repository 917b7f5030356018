// Package feasibility checks prioritized projects against material
// availability and printer-fleet time budget, reporting warnings and
// blocking issues without ever aborting planning.
package feasibility
