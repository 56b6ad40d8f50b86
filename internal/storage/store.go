package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/gravlab/internal/diag"
	"github.com/san-kum/gravlab/internal/sim"
)

// Store keeps one directory per run under baseDir: metadata.json plus
// com.csv with the per-step center-of-mass trajectory.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID            string        `json:"id"`
	Timestamp     time.Time     `json:"timestamp"`
	Particles     int           `json:"particles"`
	Steps         int           `json:"steps"`
	Seed          int64         `json:"seed"`
	Workers       int           `json:"workers"`
	G             float64       `json:"g"`
	Softening     float64       `json:"softening"`
	Elapsed       time.Duration `json:"elapsed_ns"`
	TotalMass     float64       `json:"total_mass"`
	FinalCOM      [3]float64    `json:"final_com"`
	Momentum      [3]float64    `json:"momentum"`
	KineticEnergy float64       `json:"kinetic_energy"`
}

// Save writes a completed run and returns its id.
func (s *Store) Save(cfg sim.Config, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("run-%s", uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:            runID,
		Timestamp:     time.Now(),
		Particles:     cfg.Particles,
		Steps:         cfg.Steps,
		Seed:          cfg.Seed,
		Workers:       cfg.Workers,
		G:             cfg.G,
		Softening:     cfg.Softening,
		Elapsed:       result.Elapsed,
		TotalMass:     result.TotalMass,
		FinalCOM:      [3]float64{result.FinalCOM.X, result.FinalCOM.Y, result.FinalCOM.Z},
		Momentum:      [3]float64{result.Momentum.X, result.Momentum.Y, result.Momentum.Z},
		KineticEnergy: result.KineticEnergy,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "com.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"step", "com_x", "com_y", "com_z"}); err != nil {
		return "", err
	}
	for step, com := range result.COM {
		row := []string{
			strconv.Itoa(step),
			strconv.FormatFloat(com.X, 'f', 6, 64),
			strconv.FormatFloat(com.Y, 'f', 6, 64),
			strconv.FormatFloat(com.Z, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadTrajectory reads the stored per-step center of mass, index 0 being
// the initial condition.
func (s *Store) LoadTrajectory(runID string) ([]diag.Vec3, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "com.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []diag.Vec3{}, nil
	}

	traj := make([]diag.Vec3, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < 4 {
			continue
		}
		x, errX := strconv.ParseFloat(rec[1], 64)
		y, errY := strconv.ParseFloat(rec[2], 64)
		z, errZ := strconv.ParseFloat(rec[3], 64)
		if errX != nil || errY != nil || errZ != nil {
			continue
		}
		traj = append(traj, diag.Vec3{X: x, Y: y, Z: z})
	}
	return traj, nil
}
