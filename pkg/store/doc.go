// Package store persists projects, products, printers, spools, color
// inventory, planned cycles, factory settings and the planning log to a
// bbolt database, one bucket per entity type keyed by ID.
package store
