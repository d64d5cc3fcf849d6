package metrics

import (
	"context"
	"time"

	"github.com/sajidalishaik45/coauthor-network/internal/logger"
)

// Status is a point-in-time view of the running layout.
type Status struct {
	Alpha       float64
	State       int
	PinnedNodes int
	Subscribers int
	Energy      float64
}

// StatusSource reports the state of the layout driver.
type StatusSource interface {
	Status() (Status, error)
}

// Collector periodically samples a StatusSource into Prometheus gauges.
// Tick-level counters are updated inline by the driver; the collector keeps
// the gauges fresh while the simulation is cold and no ticks run.
type Collector struct {
	source   StatusSource
	interval time.Duration
	stop     chan struct{}
}

// NewCollector creates a new metrics collector
func NewCollector(source StatusSource, interval time.Duration) *Collector {
	return &Collector{
		source:   source,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start begins the metrics collection loop
func (c *Collector) Start(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.collect()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Stop stops the metrics collector
func (c *Collector) Stop() {
	close(c.stop)
}

func (c *Collector) collect() {
	st, err := c.source.Status()
	if err != nil {
		logger.Warn("Error sampling layout status", "error", err)
		MetricsCollectionErrors.WithLabelValues("layout").Inc()
		SimulationAlpha.Set(-1) // Signal stale data
		return
	}
	SimulationAlpha.Set(st.Alpha)
	SimulationState.Set(float64(st.State))
	SimulationPinnedNodes.Set(float64(st.PinnedNodes))
	SimulationKineticEnergy.Set(st.Energy)
	SnapshotSubscribers.Set(float64(st.Subscribers))
}
