// Package planninglog holds the append-only decision/block log kept for one
// planning run (cleared and summarized each run), plus the notification
// broker the recalculator uses to announce sync outcomes.
package planninglog
