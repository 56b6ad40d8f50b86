// Package diag computes conserved-quantity diagnostics over the particle
// arena: total mass, center of mass, momentum, and kinetic energy.
//
// All functions are pure reductions: same state in, same values out. The
// sums run as per-worker partials merged in chunk order, so a fixed worker
// count gives bit-stable results.
package diag

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/gravlab/internal/par"
	"github.com/san-kum/gravlab/internal/particle"
)

// Vec3 is a plain 3-component vector.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%g,%g,%g)", v.X, v.Y, v.Z)
}

// TotalMass sums per-particle masses. Masses never change after
// initialization, so callers compute this once per run.
func TotalMass(s *particle.System, workers int) float64 {
	return par.Sum(s.N, workers, func(start, end int) float64 {
		return floats.Sum(s.Mass[start:end])
	})
}

// CenterOfMass returns the mass-weighted mean position. totalMass must be
// the value computed after initialization; it stays valid because masses
// are immutable once the run starts.
func CenterOfMass(s *particle.System, totalMass float64, workers int) Vec3 {
	cx := par.Sum(s.N, workers, func(start, end int) float64 {
		return floats.Dot(s.Mass[start:end], s.X[start:end])
	})
	cy := par.Sum(s.N, workers, func(start, end int) float64 {
		return floats.Dot(s.Mass[start:end], s.Y[start:end])
	})
	cz := par.Sum(s.N, workers, func(start, end int) float64 {
		return floats.Dot(s.Mass[start:end], s.Z[start:end])
	})
	return Vec3{X: cx / totalMass, Y: cy / totalMass, Z: cz / totalMass}
}

// Momentum returns the total linear momentum vector.
func Momentum(s *particle.System, workers int) Vec3 {
	px := par.Sum(s.N, workers, func(start, end int) float64 {
		return floats.Dot(s.Mass[start:end], s.VX[start:end])
	})
	py := par.Sum(s.N, workers, func(start, end int) float64 {
		return floats.Dot(s.Mass[start:end], s.VY[start:end])
	})
	pz := par.Sum(s.N, workers, func(start, end int) float64 {
		return floats.Dot(s.Mass[start:end], s.VZ[start:end])
	})
	return Vec3{X: px, Y: py, Z: pz}
}

// KineticEnergy returns the total kinetic energy, sum of m*|v|^2/2.
func KineticEnergy(s *particle.System, workers int) float64 {
	return par.Sum(s.N, workers, func(start, end int) float64 {
		ke := 0.0
		for i := start; i < end; i++ {
			v2 := s.VX[i]*s.VX[i] + s.VY[i]*s.VY[i] + s.VZ[i]*s.VZ[i]
			ke += 0.5 * s.Mass[i] * v2
		}
		return ke
	})
}
