package storage

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/gravlab/internal/diag"
	"github.com/san-kum/gravlab/internal/sim"
)

func testResult() (*sim.Result, sim.Config) {
	cfg := sim.Config{
		Particles: 100,
		Steps:     3,
		Seed:      42,
		Workers:   2,
		G:         0.001,
		Softening: 0.01,
	}
	result := &sim.Result{
		Steps:     3,
		Elapsed:   125 * time.Millisecond,
		TotalMass: 512.5,
		COM: []diag.Vec3{
			{X: 1, Y: 2, Z: 3},
			{X: 1.1, Y: 2.1, Z: 3.1},
			{X: 1.2, Y: 2.2, Z: 3.2},
			{X: 1.3, Y: 2.3, Z: 3.3},
		},
		FinalCOM:      diag.Vec3{X: 1.3, Y: 2.3, Z: 3.3},
		Momentum:      diag.Vec3{X: -4, Y: 5, Z: 6},
		KineticEnergy: 99.5,
	}
	return result, cfg
}

func TestSaveLoadRoundTrip(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	result, cfg := testResult()
	runID, err := st.Save(cfg, result)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(runID, "run-") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if meta.Particles != cfg.Particles || meta.Steps != cfg.Steps || meta.Seed != cfg.Seed {
		t.Errorf("metadata mismatch: %+v", meta)
	}
	if meta.TotalMass != result.TotalMass {
		t.Errorf("total mass = %v, want %v", meta.TotalMass, result.TotalMass)
	}
	if meta.FinalCOM != [3]float64{1.3, 2.3, 3.3} {
		t.Errorf("final com = %v", meta.FinalCOM)
	}

	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		t.Fatalf("LoadTrajectory: %v", err)
	}
	if len(traj) != len(result.COM) {
		t.Fatalf("trajectory length %d, want %d", len(traj), len(result.COM))
	}
	// Values round-trip through fixed-precision CSV.
	for i, com := range result.COM {
		if diff := traj[i].X - com.X; diff > 1e-6 || diff < -1e-6 {
			t.Errorf("step %d x = %v, want %v", i, traj[i].X, com.X)
		}
	}
}

func TestListRuns(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("fresh store has %d runs", len(runs))
	}

	result, cfg := testResult()
	for i := 0; i < 3; i++ {
		if _, err := st.Save(cfg, result); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 3 {
		t.Errorf("listed %d runs, want 3", len(runs))
	}
}

func TestListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "never-created"))
	runs, err := st.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("got %d runs from missing dir", len(runs))
	}
}

func TestLoadUnknownRun(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("run-missing"); err == nil {
		t.Error("expected error for unknown run")
	}
}
