package framework

import (
	"context"
	"fmt"
	"time"

	"github.com/cuemby/printplan/pkg/planninglog"
)

// Waiter provides utilities for waiting on conditions with timeouts
type Waiter struct {
	timeout  time.Duration
	interval time.Duration
}

// NewWaiter creates a new Waiter with the given timeout and polling interval
func NewWaiter(timeout, interval time.Duration) *Waiter {
	return &Waiter{
		timeout:  timeout,
		interval: interval,
	}
}

// DefaultWaiter returns a waiter with sensible defaults (5s timeout, 50ms interval)
func DefaultWaiter() *Waiter {
	return NewWaiter(5*time.Second, 50*time.Millisecond)
}

// WaitFor waits for a condition to become true
func (w *Waiter) WaitFor(ctx context.Context, condition func() bool, description string) error {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	if condition() {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for: %s (timeout: %v)", description, w.timeout)
		case <-ticker.C:
			if condition() {
				return nil
			}
		}
	}
}

// WaitForSyncEvent blocks until sub receives an event of the given type or
// the waiter's timeout elapses, the way a UI would wait for a
// sync-cycles-complete notification after triggering a recalculation.
func (w *Waiter) WaitForSyncEvent(ctx context.Context, sub planninglog.SyncSubscriber, eventType planninglog.SyncEventType) (*planninglog.SyncEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("timeout waiting for %s event", eventType)
		case event := <-sub:
			if event.Type == eventType {
				return event, nil
			}
		}
	}
}
