// Package engine is the pure planning core: given a snapshot of projects,
// products, printers, material and a calendar, GeneratePlan produces planned
// cycles deterministically. It never reads the clock or touches storage;
// pkg/recalculator owns the read/persist/sync lifecycle around it.
package engine
