package particle

import (
	"fmt"
	"math/rand"
)

// Initial condition ranges. Each value is an affine transform of a uniform
// [0,1) draw.
const (
	minPos    = -50.0
	posSpread = 100.0
	maxVel    = 5.0
	minMass   = 0.1
	massRange = 10.0
)

// Init fills the arena from src, consuming draws in per-particle order
// x, y, z, vx, vy, vz, mass. The order is a reproducibility contract:
// do not parallelize or reorder the draws.
//
// Ranges: x,y in [-50,50), z in [0,100), velocities in [-5,5),
// mass in [0.1,10.1).
func Init(s *System, src *rand.Rand) error {
	if src == nil {
		return fmt.Errorf("%w: nil random source", ErrInit)
	}
	for i := 0; i < s.N; i++ {
		s.X[i] = minPos + posSpread*src.Float64()
		s.Y[i] = minPos + posSpread*src.Float64()
		s.Z[i] = posSpread * src.Float64()
		s.VX[i] = -maxVel + 2*maxVel*src.Float64()
		s.VY[i] = -maxVel + 2*maxVel*src.Float64()
		s.VZ[i] = -maxVel + 2*maxVel*src.Float64()
		s.Mass[i] = minMass + massRange*src.Float64()
	}
	return nil
}
