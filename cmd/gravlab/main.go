package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravlab/internal/config"
	"github.com/san-kum/gravlab/internal/diag"
	"github.com/san-kum/gravlab/internal/particle"
	"github.com/san-kum/gravlab/internal/sim"
	"github.com/san-kum/gravlab/internal/storage"
	"github.com/san-kum/gravlab/internal/viz"
)

var (
	dataDir    string
	particles  int
	steps      int
	seed       int64
	workers    int
	configFile string
	preset     string
	dumpFinal  bool
	dumpCSV    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gravlab",
		Short: "brute-force gravitational n-body simulator",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation",
		RunE:  runSimulation,
	}
	runCmd.Flags().IntVar(&particles, "particles", config.DefaultParticles, "particle count")
	runCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "timestep count")
	runCmd.Flags().Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
	runCmd.Flags().IntVar(&workers, "workers", 0, "worker count (0 = all CPUs)")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().BoolVar(&dumpFinal, "dump", false, "store final particle table with the run")

	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "print the initial particle table",
		RunE:  dumpParticles,
	}
	dumpCmd.Flags().IntVar(&particles, "particles", config.DefaultParticles, "particle count")
	dumpCmd.Flags().Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
	dumpCmd.Flags().BoolVar(&dumpCSV, "csv", false, "emit CSV instead of a table")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run's centre-of-mass trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and trajectory as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				p := config.Presets[name]
				fmt.Printf("  %-10s %d particles, %d steps\n", name, p.Particles, p.Steps)
			}
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark step throughput across particle counts",
		RunE:  benchRun,
	}
	benchCmd.Flags().IntVar(&steps, "steps", 5, "timesteps per size")
	benchCmd.Flags().IntVar(&workers, "workers", 0, "worker count (0 = all CPUs)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with a live terminal view",
		RunE:  runLive,
	}
	liveCmd.Flags().IntVar(&particles, "particles", config.DefaultParticles, "particle count")
	liveCmd.Flags().IntVar(&steps, "steps", 100, "timestep count")
	liveCmd.Flags().Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
	liveCmd.Flags().IntVar(&workers, "workers", 0, "worker count (0 = all CPUs)")

	rootCmd.AddCommand(runCmd, dumpCmd, listCmd, plotCmd, exportJSONCmd, presetsCmd, benchCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		// Allocation and initialization failures are fatal before any
		// simulation state exists; give them a distinct status.
		if errors.Is(err, particle.ErrAllocation) || errors.Is(err, particle.ErrInit) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	// CLI flags override preset and config file values.
	if cmd.Flags().Changed("particles") {
		cfg.Particles = particles
	}
	if cmd.Flags().Changed("steps") {
		cfg.Steps = steps
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	if cmd.Flags().Changed("data") {
		cfg.DataDir = dataDir
	}

	return cfg, cfg.Validate()
}

func simConfig(cfg *config.Config) sim.Config {
	return sim.Config{
		Particles: cfg.Particles,
		Steps:     cfg.Steps,
		Seed:      cfg.Seed,
		Workers:   cfg.Workers,
		G:         cfg.G,
		Softening: cfg.Softening,
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("Initializing for %d particles in x,y,z space...", cfg.Particles)

	driver := sim.NewDriver(simConfig(cfg))
	driver.AddObserver(sim.ObserverFunc(func(step int, com diag.Vec3) {
		if step == 0 {
			fmt.Printf("At t=0, centre of mass = %s\n", com)
			fmt.Printf("Now to integrate for %d timesteps\n", cfg.Steps)
			return
		}
		fmt.Printf("End of timestep %d, centre of mass = (%.3f,%.3f,%.3f)\n", step, com.X, com.Y, com.Z)
	}))

	if err := driver.Setup(); err != nil {
		fmt.Println()
		return err
	}
	fmt.Println("  INIT COMPLETE")

	result, err := driver.Run()
	if err != nil {
		return err
	}

	fmt.Printf("Time to init+solve %d particles for %d timesteps is %v\n",
		cfg.Particles, cfg.Steps, result.Elapsed)
	fmt.Printf("Centre of mass = (%.5f,%.5f,%.5f)\n",
		result.FinalCOM.X, result.FinalCOM.Y, result.FinalCOM.Z)

	runID, err := st.Save(simConfig(cfg), result)
	if err != nil {
		return err
	}
	if dumpFinal {
		if err := st.DumpRunCSV(runID, driver.System()); err != nil {
			return err
		}
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func dumpParticles(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	cfg.Particles = particles
	cfg.Seed = seed
	if err := cfg.Validate(); err != nil {
		return err
	}

	driver := sim.NewDriver(simConfig(cfg))
	if err := driver.Setup(); err != nil {
		return err
	}

	if dumpCSV {
		return storage.DumpCSV(os.Stdout, driver.System())
	}
	return storage.DumpTable(os.Stdout, driver.System())
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tPARTICLES\tSTEPS\tSEED\tELAPSED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%v\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Particles,
			run.Steps,
			run.Seed,
			run.Elapsed,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if len(traj) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("particles: %d, steps: %d\n\n", meta.Particles, meta.Steps)

	axes := []struct {
		name   string
		values func(diag.Vec3) float64
	}{
		{"com x", func(v diag.Vec3) float64 { return v.X }},
		{"com y", func(v diag.Vec3) float64 { return v.Y }},
		{"com z", func(v diag.Vec3) float64 { return v.Z }},
	}
	for _, axis := range axes {
		data := make([]float64, len(traj))
		for i, v := range traj {
			data[i] = axis.values(v)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(axis.name+" vs step"),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	out := struct {
		storage.RunMetadata
		Trajectory []diag.Vec3 `json:"trajectory"`
	}{*meta, traj}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func benchRun(cmd *cobra.Command, args []string) error {
	sizes := []int{500, 1000, 2000, 4000}

	fmt.Printf("benchmarking %d steps per size\n\n", steps)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tSTEPS\tTIME\tSTEPS/SEC")

	for _, n := range sizes {
		driver := sim.NewDriver(sim.Config{
			Particles: n,
			Steps:     steps,
			Seed:      config.DefaultSeed,
			Workers:   workers,
		})
		if err := driver.Setup(); err != nil {
			return err
		}

		start := time.Now()
		result, err := driver.Run()
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%d\t%d\t%v\t%.1f\n",
			n, result.Steps, elapsed, float64(result.Steps)/elapsed.Seconds())
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	cfg.Particles = particles
	cfg.Steps = steps
	cfg.Seed = seed
	cfg.Workers = workers
	if err := cfg.Validate(); err != nil {
		return err
	}

	m := viz.NewModel(simConfig(cfg))
	p := tea.NewProgram(m)
	_, err := p.Run()
	return err
}
