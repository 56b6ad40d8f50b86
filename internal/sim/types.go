package sim

import (
	"time"

	"github.com/san-kum/gravlab/internal/diag"
)

// Phase is the driver's lifecycle state.
type Phase int

const (
	Uninitialized Phase = iota
	Running
	Terminated
)

func (p Phase) String() string {
	switch p {
	case Uninitialized:
		return "uninitialized"
	case Running:
		return "running"
	case Terminated:
		return "terminated"
	}
	return "unknown"
}

// Config fixes a run before setup. Particles and Steps are constant for
// the run's lifetime.
type Config struct {
	Particles int
	Steps     int
	Seed      int64
	Workers   int
	G         float64
	Softening float64
}

// Observer receives the per-step diagnostic. Called after each step's
// updates are fully committed, before the next step begins.
type Observer interface {
	OnStep(step int, com diag.Vec3)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(step int, com diag.Vec3)

func (f ObserverFunc) OnStep(step int, com diag.Vec3) { f(step, com) }

// Result summarizes a completed run.
type Result struct {
	Steps     int
	Elapsed   time.Duration
	TotalMass float64

	// COM holds the center of mass at t=0 followed by one entry per step.
	COM []diag.Vec3

	FinalCOM      diag.Vec3
	Momentum      diag.Vec3
	KineticEnergy float64
}
