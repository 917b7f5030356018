package planninglog

import (
	"sort"
	"sync"
	"time"
)

// BlockReason classifies why a candidate slot was skipped during placement.
type BlockReason string

const (
	ReasonAfterHoursPolicy       BlockReason = "after_hours_policy"
	ReasonNoNightPreset          BlockReason = "no_night_preset"
	ReasonColorLockNight         BlockReason = "color_lock_night"
	ReasonPlatesLimit            BlockReason = "plates_limit"
	ReasonInsufficientMaterial   BlockReason = "insufficient_material"
	ReasonNoWorkdayWithinHorizon BlockReason = "no_workday_within_horizon"
)

// BlockEvent records one skipped placement attempt.
type BlockEvent struct {
	Reason        BlockReason
	ProjectID     string
	PrinterID     string
	PresetID      string
	Details       string
	ScheduledDate time.Time
	CycleHours    float64
}

// PrinterScoreRecord is one printer's score as considered for a project.
type PrinterScoreRecord struct {
	PrinterID string
	Score     float64
	Reasons   []string
}

// DecisionEvent records a completed printer-set selection for one project.
type DecisionEvent struct {
	ProjectID           string
	Deadline            time.Time
	RemainingUnits      int
	SelectedPrinters    []string
	EstimatedFinishTime time.Time
	MeetsDeadline       bool
	MarginHours         float64
	PerPrinterScores    []PrinterScoreRecord
}

// Summary is the end-of-run rollup of one Log.
type Summary struct {
	ByReason          map[string]int
	TopAdvanceReasons []string
}

// Log is an append-only, per-run record of block and decision events. It is
// not safe to reuse across runs without calling Clear; GeneratePlan creates
// a fresh one per invocation.
type Log struct {
	mu        sync.Mutex
	blocks    []BlockEvent
	decisions []DecisionEvent
}

// New returns an empty Log.
func New() *Log {
	return &Log{}
}

// Clear discards all recorded events, for reuse across runs.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.blocks = nil
	l.decisions = nil
}

// RecordBlock appends a block event.
func (l *Log) RecordBlock(e BlockEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.blocks = append(l.blocks, e)
}

// RecordDecision appends a decision event.
func (l *Log) RecordDecision(e DecisionEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.decisions = append(l.decisions, e)
}

// Blocks returns a snapshot of every recorded block event.
func (l *Log) Blocks() []BlockEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]BlockEvent, len(l.blocks))
	copy(out, l.blocks)
	return out
}

// Decisions returns a snapshot of every recorded decision event.
func (l *Log) Decisions() []DecisionEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]DecisionEvent, len(l.decisions))
	copy(out, l.decisions)
	return out
}

// Summarize rolls the run's block events up into by-reason counts and the
// top-3 reasons that caused the most slot advances.
func (l *Log) Summarize() Summary {
	l.mu.Lock()
	defer l.mu.Unlock()

	byReason := make(map[string]int)
	for _, b := range l.blocks {
		byReason[string(b.Reason)]++
	}

	type reasonCount struct {
		reason string
		count  int
	}
	counts := make([]reasonCount, 0, len(byReason))
	for reason, count := range byReason {
		counts = append(counts, reasonCount{reason, count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].reason < counts[j].reason
	})

	top := make([]string, 0, 3)
	for i := 0; i < len(counts) && i < 3; i++ {
		top = append(top, counts[i].reason)
	}

	return Summary{ByReason: byReason, TopAdvanceReasons: top}
}
