package sim

import (
	"errors"
	"testing"

	"github.com/san-kum/gravlab/internal/diag"
	"github.com/san-kum/gravlab/internal/particle"
)

func TestDriverLifecycle(t *testing.T) {
	d := NewDriver(Config{Particles: 10, Steps: 2, Seed: 1})

	if d.Phase() != Uninitialized {
		t.Fatalf("fresh driver phase = %v", d.Phase())
	}
	if _, err := d.Run(); err == nil {
		t.Fatal("Run before Setup should fail")
	}

	if err := d.Setup(); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if d.Phase() != Running {
		t.Fatalf("post-setup phase = %v", d.Phase())
	}
	if err := d.Setup(); err == nil {
		t.Fatal("second Setup should fail")
	}

	if _, err := d.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if d.Phase() != Terminated {
		t.Fatalf("post-run phase = %v", d.Phase())
	}
	if _, err := d.Run(); err == nil {
		t.Fatal("Run after termination should fail")
	}
}

func TestDriverSetupFailures(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"zero particles", Config{Particles: 0, Steps: 1}, particle.ErrAllocation},
		{"negative particles", Config{Particles: -3, Steps: 1}, particle.ErrAllocation},
		{"negative steps", Config{Particles: 4, Steps: -1}, particle.ErrInit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDriver(tt.cfg)
			err := d.Setup()
			if !errors.Is(err, tt.want) {
				t.Errorf("Setup error = %v, want %v", err, tt.want)
			}
			if d.Phase() != Uninitialized {
				t.Errorf("failed setup left phase %v", d.Phase())
			}
		})
	}
}

func TestDriverRunsConfiguredSteps(t *testing.T) {
	const steps = 7
	d := NewDriver(Config{Particles: 50, Steps: steps, Seed: 3})

	var seen []int
	d.AddObserver(ObserverFunc(func(step int, com diag.Vec3) {
		seen = append(seen, step)
	}))

	if err := d.Setup(); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	result, err := d.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Step 0 plus every configured step, in order, no early exit.
	if len(seen) != steps+1 {
		t.Fatalf("observer called %d times, want %d", len(seen), steps+1)
	}
	for i, s := range seen {
		if s != i {
			t.Fatalf("observer step order: got %v", seen)
		}
	}
	if len(result.COM) != steps+1 {
		t.Errorf("result has %d COM entries, want %d", len(result.COM), steps+1)
	}
	if result.FinalCOM != result.COM[len(result.COM)-1] {
		t.Error("FinalCOM does not match last COM entry")
	}
}

func TestDriverDeterminism(t *testing.T) {
	run := func() (*Result, *particle.System) {
		d := NewDriver(Config{Particles: 80, Steps: 5, Seed: 17, Workers: 4})
		if err := d.Setup(); err != nil {
			t.Fatalf("Setup: %v", err)
		}
		result, err := d.Run()
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		return result, d.System()
	}

	r1, s1 := run()
	r2, s2 := run()

	if r1.FinalCOM != r2.FinalCOM {
		t.Errorf("final COM differs: %v vs %v", r1.FinalCOM, r2.FinalCOM)
	}
	for i := 0; i < s1.N; i++ {
		if s1.X[i] != s2.X[i] || s1.Y[i] != s2.Y[i] || s1.Z[i] != s2.Z[i] ||
			s1.VX[i] != s2.VX[i] || s1.VY[i] != s2.VY[i] || s1.VZ[i] != s2.VZ[i] ||
			s1.Mass[i] != s2.Mass[i] {
			t.Fatalf("trajectory diverged at particle %d", i)
		}
	}
}

// Masses are immutable after init, so the t=0 total must survive the run
// bit-for-bit.
func TestDriverMassConservation(t *testing.T) {
	d := NewDriver(Config{Particles: 120, Steps: 6, Seed: 8})
	if err := d.Setup(); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	before := d.TotalMass()
	result, err := d.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	after := diag.TotalMass(d.System(), 1)
	if after != before {
		t.Errorf("total mass changed: %v -> %v", before, after)
	}
	if result.TotalMass != before {
		t.Errorf("result total mass %v, want %v", result.TotalMass, before)
	}
}

func TestDriverSingleParticle(t *testing.T) {
	d := NewDriver(Config{Particles: 1, Steps: 4, Seed: 2})
	if err := d.Setup(); err != nil {
		t.Fatalf("Setup: %v", err)
	}

	s := d.System()
	vx, vy, vz := s.VX[0], s.VY[0], s.VZ[0]

	if _, err := d.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// No pairwise interactions: velocity is untouched, position just
	// drifts by the constant velocity each step.
	if s.VX[0] != vx || s.VY[0] != vy || s.VZ[0] != vz {
		t.Errorf("lone particle velocity changed: (%v,%v,%v)", s.VX[0], s.VY[0], s.VZ[0])
	}
}

func TestDriverZeroSteps(t *testing.T) {
	d := NewDriver(Config{Particles: 10, Steps: 0, Seed: 1})
	if err := d.Setup(); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	result, err := d.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.COM) != 1 {
		t.Errorf("zero-step run has %d COM entries, want 1", len(result.COM))
	}
	if result.FinalCOM != result.COM[0] {
		t.Error("zero-step FinalCOM should be the initial diagnostic")
	}
}

func TestDriverStateStaysFinite(t *testing.T) {
	d := NewDriver(Config{Particles: 300, Steps: 5, Seed: 42})
	if err := d.Setup(); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	result, err := d.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !d.System().IsFinite() {
		t.Fatal("state contains NaN/Inf after run")
	}
	for step, com := range result.COM {
		for _, v := range []float64{com.X, com.Y, com.Z} {
			if v != v { // NaN
				t.Fatalf("non-finite COM at step %d: %v", step, com)
			}
		}
	}
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{Uninitialized, "uninitialized"},
		{Running, "running"},
		{Terminated, "terminated"},
		{Phase(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %q, want %q", tt.phase, got, tt.want)
		}
	}
}
