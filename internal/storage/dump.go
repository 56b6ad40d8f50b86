package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/gravlab/internal/particle"
)

// ParticleRecord is one row of a full-state dump.
type ParticleRecord struct {
	Index int     `csv:"index"`
	X     float64 `csv:"x"`
	Y     float64 `csv:"y"`
	Z     float64 `csv:"z"`
	VX    float64 `csv:"vx"`
	VY    float64 `csv:"vy"`
	VZ    float64 `csv:"vz"`
	Mass  float64 `csv:"mass"`
}

// Records flattens the arena into one record per particle.
func Records(s *particle.System) []ParticleRecord {
	recs := make([]ParticleRecord, s.N)
	for i := 0; i < s.N; i++ {
		recs[i] = ParticleRecord{
			Index: i,
			X:     s.X[i], Y: s.Y[i], Z: s.Z[i],
			VX: s.VX[i], VY: s.VY[i], VZ: s.VZ[i],
			Mass: s.Mass[i],
		}
	}
	return recs
}

// DumpCSV serializes every particle's position, velocity, and mass as CSV.
func DumpCSV(w io.Writer, s *particle.System) error {
	return gocsv.Marshal(Records(s), w)
}

// DumpTable writes the same listing as an aligned text table.
func DumpTable(w io.Writer, s *particle.System) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "num\tposition (x,y,z)\tvelocity (vx,vy,vz)\tmass")
	for i := 0; i < s.N; i++ {
		fmt.Fprintf(tw, "%d\t%f %f %f\t%f %f %f\t%f\n",
			i, s.X[i], s.Y[i], s.Z[i], s.VX[i], s.VY[i], s.VZ[i], s.Mass[i])
	}
	return tw.Flush()
}

// DumpRunCSV stores a particle dump next to a saved run's metadata.
func (s *Store) DumpRunCSV(runID string, sys *particle.System) error {
	file, err := os.Create(filepath.Join(s.baseDir, runID, "particles.csv"))
	if err != nil {
		return err
	}
	defer file.Close()
	return DumpCSV(file, sys)
}
