package chem

import (
	"sync"
	"time"
)

// DefaultTickLength is the simulated seconds one tick advances when the
// caller does not choose a length.
const DefaultTickLength = 0.01

// BeakerSnapshot is a point-in-time view of a beaker, fit for JSON
// encoding. A nil Environment means the beaker is thermally isolated.
type BeakerSnapshot struct {
	ID          BeakerID      `json:"id"`
	Tick        int64         `json:"tick"`
	Clock       float64       `json:"clock"`
	Running     bool          `json:"running"`
	TickLength  float64       `json:"tick_length"`
	Environment *float64      `json:"environment"`
	TotalMass   float64       `json:"total_mass"`
	Contents    []MatterState `json:"contents"`
}

// Beaker hosts one chemical system together with the catalog that defines
// it: it owns the tick length and environment temperature, steps the
// system, and reports fired reactions to the notification layer. All
// methods are safe for concurrent use; one Step is one critical section.
type Beaker struct {
	mu            sync.RWMutex
	id            BeakerID
	catalog       *Catalog
	system        *ChemicalSystem
	tick          int64
	clock         float64
	tickLength    float64
	envTemp       *float64
	stopCh        chan struct{}
	isRunning     bool
	logger        Logger
	notifications *NotificationManager
}

// NewBeaker creates a beaker for the given catalog with the default tick
// length and the ambient environment temperature.
func NewBeaker(id BeakerID, catalog *Catalog) *Beaker {
	ambient := AmbientTemperature
	return &Beaker{
		id:         id,
		catalog:    catalog,
		system:     NewChemicalSystem(),
		tickLength: DefaultTickLength,
		envTemp:    &ambient,
		stopCh:     make(chan struct{}),
		logger:     NewNoOpLogger(),
	}
}

// ID returns the beaker's identifier.
func (b *Beaker) ID() BeakerID {
	return b.id
}

// SetLogger injects the logger used for per-tick reporting.
func (b *Beaker) SetLogger(l Logger) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if l != nil {
		b.logger = l
	}
}

// SetNotificationManager wires the beaker to a notification manager; every
// tick with at least one fired reaction is then published to all
// registered notifiers.
func (b *Beaker) SetNotificationManager(nm *NotificationManager) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notifications = nm
}

// SetTickLength changes how many simulated seconds one tick advances.
// Non-positive lengths are ignored.
func (b *Beaker) SetTickLength(t float64) {
	if t <= 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tickLength = t
}

// TickLength returns the current tick length in simulated seconds.
func (b *Beaker) TickLength() float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tickLength
}

// SetEnvironment sets the environment temperature the system exchanges
// heat with; nil isolates the beaker.
func (b *Beaker) SetEnvironment(t *float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if t == nil {
		b.envTemp = nil
		return
	}
	v := *t
	b.envTemp = &v
}

// Environment returns the current environment temperature, nil when the
// beaker is isolated.
func (b *Beaker) Environment() *float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.envTemp == nil {
		return nil
	}
	v := *b.envTemp
	return &v
}

// Catalog returns the catalog currently driving the beaker.
func (b *Beaker) Catalog() *Catalog {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.catalog
}

// ReplaceCatalog swaps the catalog but keeps all present matter.
func (b *Beaker) ReplaceCatalog(c *Catalog) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.catalog = c
}

// AddMatter folds matter into the beaker's system. The beaker takes
// ownership of m.
func (b *Beaker) AddMatter(m *Matter) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.system.Add(m)
}

// Step advances the simulation by one tick and returns the reactions that
// fired. Firing ticks are reported to the notification manager, if any.
func (b *Beaker) Step() []Firing {
	b.mu.Lock()
	b.tick++
	b.clock += b.tickLength
	firings := b.system.Tick(b.catalog.Reactions(), b.tickLength, b.envTemp)
	tick := b.tick
	clock := b.clock
	nm := b.notifications
	logger := b.logger
	var contents []MatterState
	if len(firings) > 0 && nm != nil {
		contents = b.system.Contents()
	}
	b.mu.Unlock()

	if len(firings) > 0 {
		logger.Debugf("beaker %s tick %d: %d reaction(s) fired", b.id, tick, len(firings))
		if nm != nil {
			nm.Enqueue(TickEvent{
				BeakerID:  b.id,
				Tick:      tick,
				Clock:     clock,
				Timestamp: time.Now().Unix(),
				Firings:   firings,
				Contents:  contents,
			}, nm.ListNotifiers())
		}
	}
	return firings
}

// Snapshot returns a point-in-time view of the beaker.
func (b *Beaker) Snapshot() BeakerSnapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var env *float64
	if b.envTemp != nil {
		v := *b.envTemp
		env = &v
	}
	return BeakerSnapshot{
		ID:          b.id,
		Tick:        b.tick,
		Clock:       b.clock,
		Running:     b.isRunning,
		TickLength:  b.tickLength,
		Environment: env,
		TotalMass:   b.system.TotalMass(),
		Contents:    b.system.Contents(),
	}
}

// Describe returns the human-readable summary of the beaker's contents.
func (b *Beaker) Describe() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Describe(b.system.Contents())
}

// Run will start the beaker in a goroutine, starting its own ticker that
// will run until the stop channel is closed. It can be called multiple
// times to restart after stopping.
func (b *Beaker) Run(interval time.Duration) {
	b.mu.Lock()
	if b.isRunning {
		b.mu.Unlock()
		return
	}
	// Create a new stop channel for this run (allows restart after stop)
	b.stopCh = make(chan struct{})
	b.isRunning = true
	b.mu.Unlock()

	// Run in a goroutine so it doesn't block the caller
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				b.Step()
			case <-b.stopCh:
				b.mu.Lock()
				b.isRunning = false
				b.mu.Unlock()
				return
			}
		}
	}()
}

// Stop will stop the beaker by closing the stop channel.
// After stopping, Run() can be called again to restart.
func (b *Beaker) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.isRunning {
		return
	}

	// Close the channel to signal stop
	// The goroutine will detect this and set isRunning to false
	close(b.stopCh)
}
