package sim

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/san-kum/gravlab/internal/diag"
	"github.com/san-kum/gravlab/internal/gravity"
	"github.com/san-kum/gravlab/internal/particle"
)

// Driver owns the time-stepping loop and sequences snapshot, integration,
// and diagnostics over a fixed number of steps.
type Driver struct {
	cfg       Config
	phase     Phase
	system    *particle.System
	snapshot  *particle.Snapshot
	integ     *gravity.Integrator
	totalMass float64
	observers []Observer
}

// NewDriver returns an Uninitialized driver for cfg. Zero G or Softening
// fall back to the gravity package defaults.
func NewDriver(cfg Config) *Driver {
	if cfg.G == 0 {
		cfg.G = gravity.DefaultG
	}
	if cfg.Softening == 0 {
		cfg.Softening = gravity.DefaultSoftening
	}
	return &Driver{cfg: cfg, phase: Uninitialized}
}

func (d *Driver) Phase() Phase { return d.phase }

// System exposes the live arena for dumps and diagnostics. Callers must
// not mutate it.
func (d *Driver) System() *particle.System { return d.system }

func (d *Driver) TotalMass() float64 { return d.totalMass }

func (d *Driver) AddObserver(o Observer) { d.observers = append(d.observers, o) }

// Setup allocates backing storage and fills it from the seeded source.
// Failure leaves the driver Uninitialized; after success no later phase
// can fail.
func (d *Driver) Setup() error {
	if d.phase != Uninitialized {
		return fmt.Errorf("sim: setup in phase %s", d.phase)
	}
	if d.cfg.Steps < 0 {
		return fmt.Errorf("%w: step count %d must not be negative", particle.ErrInit, d.cfg.Steps)
	}

	sys, err := particle.NewSystem(d.cfg.Particles)
	if err != nil {
		return err
	}
	snap, err := particle.NewSnapshot(d.cfg.Particles)
	if err != nil {
		return err
	}

	src := rand.New(rand.NewSource(d.cfg.Seed))
	if err := particle.Init(sys, src); err != nil {
		return err
	}

	d.system = sys
	d.snapshot = snap
	d.integ = &gravity.Integrator{
		G:         d.cfg.G,
		Softening: d.cfg.Softening,
		Workers:   d.cfg.Workers,
	}
	d.totalMass = diag.TotalMass(sys, d.cfg.Workers)
	d.phase = Running
	return nil
}

// Run executes the full configured step count and returns the completed
// Result. It never terminates early: there is no cancellation and the
// integration step is total on its domain.
func (d *Driver) Run() (*Result, error) {
	if d.phase != Running {
		return nil, fmt.Errorf("sim: run in phase %s", d.phase)
	}

	start := time.Now()
	result := &Result{
		Steps:     d.cfg.Steps,
		TotalMass: d.totalMass,
		COM:       make([]diag.Vec3, 0, d.cfg.Steps+1),
	}

	com := diag.CenterOfMass(d.system, d.totalMass, d.cfg.Workers)
	result.COM = append(result.COM, com)
	d.notify(0, com)

	// Step 0 is the initial condition; steps are strictly sequential and
	// step k+1 starts only after step k's updates and diagnostic commit.
	for step := 1; step <= d.cfg.Steps; step++ {
		d.snapshot.Capture(d.system)
		d.integ.Step(d.system, d.snapshot)

		com = diag.CenterOfMass(d.system, d.totalMass, d.cfg.Workers)
		result.COM = append(result.COM, com)
		d.notify(step, com)
	}

	result.Elapsed = time.Since(start)
	result.FinalCOM = com
	result.Momentum = diag.Momentum(d.system, d.cfg.Workers)
	result.KineticEnergy = diag.KineticEnergy(d.system, d.cfg.Workers)
	d.phase = Terminated
	return result, nil
}

func (d *Driver) notify(step int, com diag.Vec3) {
	for _, o := range d.observers {
		o.OnStep(step, com)
	}
}
