// Package recalculator orchestrates a replan around the pure engine: it
// classifies existing cycles into what a replan must preserve versus what it
// may discard, drives pkg/engine over the remainder, persists the result
// locally, and reconciles it to the remote mirror.
package recalculator
