// Package prioritizer filters active, planning-enabled projects down to
// those with remaining work, resolves each one's plate preset, and orders
// them by urgency-capped priority.
package prioritizer
