// Package particle owns the columnar particle arena and its per-step
// snapshot buffer.
//
// The arena is structure-of-arrays: one []float64 per attribute, indexed by
// particle. It is mutated only by [Init] (once) and by the force integrator
// (once per step, each particle writing its own slots); everything else
// reads it.
package particle

import (
	"errors"
	"fmt"
	"math"
)

// MaxParticles bounds a single arena. Seven float64 columns at this count
// is around 56 GB, past any machine this tool targets.
const MaxParticles = 1 << 30

var (
	// ErrAllocation indicates the particle arena could not be sized.
	ErrAllocation = errors.New("particle: allocation failed")

	// ErrInit indicates the random fill step failed before the run started.
	ErrInit = errors.New("particle: initialization failed")
)

// System is the live, mutable state for all N particles.
type System struct {
	N int

	X, Y, Z    []float64
	VX, VY, VZ []float64
	Mass       []float64
}

// NewSystem allocates an arena for n particles.
func NewSystem(n int) (*System, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: particle count %d must be positive", ErrAllocation, n)
	}
	if n > MaxParticles {
		return nil, fmt.Errorf("%w: particle count %d exceeds %d", ErrAllocation, n, MaxParticles)
	}
	return &System{
		N:    n,
		X:    make([]float64, n),
		Y:    make([]float64, n),
		Z:    make([]float64, n),
		VX:   make([]float64, n),
		VY:   make([]float64, n),
		VZ:   make([]float64, n),
		Mass: make([]float64, n),
	}, nil
}

// IsFinite reports whether every position, velocity, and mass entry is a
// finite number.
func (s *System) IsFinite() bool {
	cols := [][]float64{s.X, s.Y, s.Z, s.VX, s.VY, s.VZ, s.Mass}
	for _, col := range cols {
		for _, v := range col {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

// Snapshot is the frozen position/mass view taken at the start of a step.
// Force evaluation reads only this buffer for other particles, so every
// particle sees a consistent, simultaneous state regardless of update order.
type Snapshot struct {
	X, Y, Z []float64
	Mass    []float64
}

// NewSnapshot allocates a snapshot buffer matching the system size.
func NewSnapshot(n int) (*Snapshot, error) {
	if n <= 0 || n > MaxParticles {
		return nil, fmt.Errorf("%w: snapshot for %d particles", ErrAllocation, n)
	}
	return &Snapshot{
		X:    make([]float64, n),
		Y:    make([]float64, n),
		Z:    make([]float64, n),
		Mass: make([]float64, n),
	}, nil
}

// Capture copies the system's current position and mass into the snapshot.
// Must complete before any force evaluation for the step begins.
func (snap *Snapshot) Capture(s *System) {
	copy(snap.X, s.X)
	copy(snap.Y, s.Y)
	copy(snap.Z, s.Z)
	copy(snap.Mass, s.Mass)
}
