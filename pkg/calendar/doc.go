// Package calendar answers day-schedule and operator-presence questions
// against a factory's weekly schedule and per-date overrides, including
// cross-midnight work windows.
package calendar
