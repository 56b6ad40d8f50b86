// Package gravity implements the brute-force pairwise force integrator.
package gravity

import (
	"math"

	"github.com/san-kum/gravlab/internal/par"
	"github.com/san-kum/gravlab/internal/particle"
)

// Simulation-unit defaults; G is not the SI constant.
const (
	DefaultG         = 0.001
	DefaultSoftening = 0.01
)

// Integrator advances particle state by one explicit unit timestep using
// pairwise Newtonian gravity against a per-step snapshot.
//
// Softening is a hard floor on pair separation, not an epsilon added in
// quadrature: separations below it are clamped to exactly Softening.
type Integrator struct {
	G         float64
	Softening float64
	Workers   int
}

// New returns an integrator with the default gravitational constant and
// softening floor, using one worker per CPU.
func New() *Integrator {
	return &Integrator{G: DefaultG, Softening: DefaultSoftening}
}

// Step performs one timestep: for every particle, sum accelerations from
// all other particles using snapshot position and mass, apply the summed
// delta to the velocity, then move the particle by its updated velocity
// (semi-implicit Euler, unit dt).
//
// The particle loop is the parallel axis. Each worker reads only the
// shared snapshot and writes only its own particles' velocity and position
// slots, so no locking is needed. snap must have been captured from s
// before the call and must not change during it.
func (in *Integrator) Step(s *particle.System, snap *particle.Snapshot) {
	n := s.N
	g := in.G
	soft := in.Softening

	par.For(n, in.Workers, func(start, end int) {
		for i := start; i < end; i++ {
			xi, yi, zi := snap.X[i], snap.Y[i], snap.Z[i]

			var dvx, dvy, dvz float64
			for j := 0; j < n; j++ {
				if j == i {
					continue
				}
				dx := snap.X[j] - xi
				dy := snap.Y[j] - yi
				dz := snap.Z[j] - zi
				d := math.Sqrt(dx*dx + dy*dy + dz*dz)
				if d < soft {
					d = soft
				}
				// F = G*mi*mj/d^2; acceleration on i is F/mi along the
				// separation, so mi cancels.
				a := g * snap.Mass[j] / (d * d)
				dvx += a * dx / d
				dvy += a * dy / d
				dvz += a * dz / d
			}

			s.VX[i] += dvx
			s.VY[i] += dvy
			s.VZ[i] += dvz

			s.X[i] = snap.X[i] + s.VX[i]
			s.Y[i] = snap.Y[i] + s.VY[i]
			s.Z[i] = snap.Z[i] + s.VZ[i]
		}
	})
}

// PairForce returns the gravitational force magnitude between particles i
// and j of the snapshot, with the same softening floor the step applies.
// It is symmetric in i and j.
func (in *Integrator) PairForce(snap *particle.Snapshot, i, j int) float64 {
	dx := snap.X[j] - snap.X[i]
	dy := snap.Y[j] - snap.Y[i]
	dz := snap.Z[j] - snap.Z[i]
	d := math.Sqrt(dx*dx + dy*dy + dz*dz)
	if d < in.Softening {
		d = in.Softening
	}
	return in.G * snap.Mass[i] * snap.Mass[j] / (d * d)
}
