// Package validate implements validateExistingPlan: integrity checks run
// against the persisted plan independent of any replanning run.
package validate
