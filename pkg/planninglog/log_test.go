package planninglog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAndSnapshot(t *testing.T) {
	l := New()
	l.RecordBlock(BlockEvent{Reason: ReasonPlatesLimit, ProjectID: "p1"})
	l.RecordDecision(DecisionEvent{ProjectID: "p1", MeetsDeadline: true})

	assert.Len(t, l.Blocks(), 1)
	assert.Len(t, l.Decisions(), 1)
}

func TestClearResetsLog(t *testing.T) {
	l := New()
	l.RecordBlock(BlockEvent{Reason: ReasonPlatesLimit})
	l.Clear()

	assert.Empty(t, l.Blocks())
	assert.Empty(t, l.Decisions())
}

func TestSummarizeTopThreeReasons(t *testing.T) {
	l := New()
	for i := 0; i < 5; i++ {
		l.RecordBlock(BlockEvent{Reason: ReasonPlatesLimit})
	}
	for i := 0; i < 3; i++ {
		l.RecordBlock(BlockEvent{Reason: ReasonColorLockNight})
	}
	for i := 0; i < 2; i++ {
		l.RecordBlock(BlockEvent{Reason: ReasonNoNightPreset})
	}
	l.RecordBlock(BlockEvent{Reason: ReasonAfterHoursPolicy})

	summary := l.Summarize()

	require.Equal(t, 5, summary.ByReason[string(ReasonPlatesLimit)])
	require.Len(t, summary.TopAdvanceReasons, 3)
	assert.Equal(t, string(ReasonPlatesLimit), summary.TopAdvanceReasons[0])
	assert.Equal(t, string(ReasonColorLockNight), summary.TopAdvanceReasons[1])
	assert.Equal(t, string(ReasonNoNightPreset), summary.TopAdvanceReasons[2])
}

func TestBrokerPublishSubscribe(t *testing.T) {
	b := NewBroker()
	b.Start()
	defer b.Stop()

	sub := b.Subscribe()
	defer b.Unsubscribe(sub)

	b.Publish(&SyncEvent{Type: SyncCyclesComplete, Message: "synced 4 cycles"})

	select {
	case evt := <-sub:
		assert.Equal(t, SyncCyclesComplete, evt.Type)
	case <-time.After(time.Second):
		t.Fatal("expected to receive a published event")
	}
}
