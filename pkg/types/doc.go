// Package types defines the domain model shared by every planner package:
// projects, products, plate presets, printers, spools, color inventory,
// planned cycles, and factory settings. Nothing in here talks to a store or
// a clock; these are plain data.
package types
