package metrics

import (
	"time"

	"github.com/cuemby/printplan/pkg/store"
)

// Collector periodically samples the store and publishes gauge metrics that
// aren't naturally updated inline by the engine or recalculator (counts and
// ratios, as opposed to per-run counters like CyclesScheduled).
type Collector struct {
	store  store.Store
	stopCh chan struct{}
}

// NewCollector creates a metrics collector reading from s.
func NewCollector(s store.Store) *Collector {
	return &Collector{
		store:  s,
		stopCh: make(chan struct{}),
	}
}

// Start begins collecting metrics on a 15-second tick.
func (c *Collector) Start() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		c.collect()

		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop stops the collector.
func (c *Collector) Stop() {
	close(c.stopCh)
}

func (c *Collector) collect() {
	c.collectProjectMetrics()
	c.collectPrinterMetrics()
}

func (c *Collector) collectProjectMetrics() {
	projects, err := c.store.ListProjects()
	if err != nil {
		return
	}

	counts := make(map[string]int)
	for _, p := range projects {
		counts[string(p.Status)]++
	}

	for status, count := range counts {
		ProjectsTotal.WithLabelValues(status).Set(float64(count))
	}
}

func (c *Collector) collectPrinterMetrics() {
	printers, err := c.store.ListPrinters()
	if err != nil {
		return
	}

	counts := make(map[string]int)
	for _, p := range printers {
		counts[string(p.Status)]++
	}

	for status, count := range counts {
		PrintersTotal.WithLabelValues(status).Set(float64(count))
	}
}
