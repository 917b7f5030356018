// Package coordinator is the module's public façade: it wires the store,
// the pure engine, the recalculator, the remote mirror and the planning log
// broker together behind the six operations named in the external
// interface (generatePlan, recalculatePlan, runReplanNow, checkDeadlineImpact,
// validateExistingPlan, calculateWeekCapacity) behind one struct.
package coordinator
