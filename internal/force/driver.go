package force

import (
	"context"
	"sync"
	"time"

	"github.com/sajidalishaik45/coauthor-network/internal/logger"
	"github.com/sajidalishaik45/coauthor-network/internal/metrics"
)

// DefaultTickInterval is roughly one display frame.
const DefaultTickInterval = 16 * time.Millisecond

// Driver owns a Simulation and schedules its ticks. Mutations (pin, unpin,
// parameter changes) and ticks are serialised, so a tick never observes a
// half-applied change and subscribers only ever see complete snapshots.
type Driver struct {
	mu       sync.Mutex
	sim      *Simulation
	interval time.Duration
	wake     chan struct{}

	subsMu sync.Mutex
	subs   map[int]chan Snapshot
	nextID int
}

// NewDriver wraps sim. interval <= 0 selects DefaultTickInterval.
func NewDriver(sim *Simulation, interval time.Duration) *Driver {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Driver{
		sim:      sim,
		interval: interval,
		wake:     make(chan struct{}, 1),
		subs:     make(map[int]chan Snapshot),
	}
}

// Run ticks the simulation on a fixed-rate timer until ctx is done. While the
// simulation is cold it stops ticking and waits for the next disturbance.
func (d *Driver) Run(ctx context.Context) {
	log := logger.WithComponent("layout")
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	log.Info("Layout driver started", "nodes", d.sim.Len(), "interval", d.interval)

	for {
		select {
		case <-ctx.Done():
			log.Info("Layout driver stopped")
			return
		case <-ticker.C:
			if _, ok := d.Step(); ok {
				continue
			}
			log.Debug("Layout cold, waiting for disturbance")
			select {
			case <-ctx.Done():
				log.Info("Layout driver stopped")
				return
			case <-d.wake:
				log.Debug("Layout woken")
			}
		}
	}
}

// Step runs one tick and publishes the resulting snapshot. It reports false
// when the simulation was cold and nothing happened.
func (d *Driver) Step() (Snapshot, bool) {
	start := time.Now()

	d.mu.Lock()
	if !d.sim.Tick() {
		d.mu.Unlock()
		return Snapshot{}, false
	}
	snap := d.sim.Snapshot()
	energy := d.sim.KineticEnergy()
	d.mu.Unlock()

	metrics.SimulationTicksTotal.Inc()
	metrics.SimulationTickDuration.Observe(time.Since(start).Seconds())
	metrics.SimulationAlpha.Set(snap.Alpha)
	metrics.SimulationState.Set(float64(snap.State))
	metrics.SimulationKineticEnergy.Set(energy)

	d.publish(snap)
	return snap, true
}

// Start warms the simulation and wakes the driver.
func (d *Driver) Start() {
	d.mu.Lock()
	d.sim.Start()
	d.mu.Unlock()
	metrics.SimulationReheats.WithLabelValues("start").Inc()
	d.notify()
}

// Restart resets alpha to 1.
func (d *Driver) Restart() {
	d.mu.Lock()
	d.sim.Reheat()
	d.mu.Unlock()
	metrics.SimulationReheats.WithLabelValues("restart").Inc()
	d.notify()
}

// Stop sets alpha to zero; the driver idles until the next disturbance.
func (d *Driver) Stop() {
	d.mu.Lock()
	d.sim.Stop()
	d.mu.Unlock()
}

// Pin fixes node id at (x, y) and keeps the layout warm.
func (d *Driver) Pin(id string, x, y float64) error {
	d.mu.Lock()
	err := d.sim.Pin(id, x, y)
	pins := d.sim.pins
	d.mu.Unlock()
	if err != nil {
		return err
	}
	metrics.SimulationPinnedNodes.Set(float64(pins))
	metrics.SimulationReheats.WithLabelValues("pin").Inc()
	d.notify()
	return nil
}

// Unpin releases node id.
func (d *Driver) Unpin(id string) error {
	d.mu.Lock()
	err := d.sim.Unpin(id)
	pins := d.sim.pins
	d.mu.Unlock()
	if err != nil {
		return err
	}
	metrics.SimulationPinnedNodes.Set(float64(pins))
	return nil
}

// SetParams applies new force coefficients from the next tick and returns the
// clamped values in effect.
func (d *Driver) SetParams(p Params) Params {
	return d.UpdateParams(func(Params) Params { return p })
}

// UpdateParams derives new coefficients from the ones in effect under a
// single lock, so concurrent partial updates do not lose each other's fields.
func (d *Driver) UpdateParams(fn func(cur Params) Params) Params {
	d.mu.Lock()
	applied := d.sim.SetParams(fn(d.sim.Params()))
	d.mu.Unlock()
	metrics.SimulationReheats.WithLabelValues("params").Inc()
	d.notify()
	return applied
}

// Params returns the parameters in effect.
func (d *Driver) Params() Params {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sim.Params()
}

// Snapshot returns the current layout without ticking.
func (d *Driver) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sim.Snapshot()
}

// Status reports the driver state for the metrics collector.
func (d *Driver) Status() (metrics.Status, error) {
	d.mu.Lock()
	st := metrics.Status{
		Alpha:       d.sim.Alpha(),
		State:       int(d.sim.State()),
		PinnedNodes: d.sim.pins,
		Energy:      d.sim.KineticEnergy(),
	}
	d.mu.Unlock()

	d.subsMu.Lock()
	st.Subscribers = len(d.subs)
	d.subsMu.Unlock()
	return st, nil
}

// Subscribe returns a channel receiving a snapshot after every tick, and a
// cancel function that must be called to release it. A subscriber that falls
// behind misses snapshots rather than blocking the simulation.
func (d *Driver) Subscribe(buffer int) (<-chan Snapshot, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Snapshot, buffer)

	d.subsMu.Lock()
	id := d.nextID
	d.nextID++
	d.subs[id] = ch
	metrics.SnapshotSubscribers.Set(float64(len(d.subs)))
	d.subsMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			d.subsMu.Lock()
			delete(d.subs, id)
			close(ch)
			metrics.SnapshotSubscribers.Set(float64(len(d.subs)))
			d.subsMu.Unlock()
		})
	}
	return ch, cancel
}

func (d *Driver) publish(snap Snapshot) {
	d.subsMu.Lock()
	defer d.subsMu.Unlock()
	for _, ch := range d.subs {
		select {
		case ch <- snap:
		default:
			metrics.SnapshotsDropped.Inc()
		}
	}
}

func (d *Driver) notify() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}
