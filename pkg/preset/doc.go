// Package preset scores a product's plate-layout presets against the time,
// material, and night-cycle constraints of one placement decision and picks
// the best fit.
package preset
