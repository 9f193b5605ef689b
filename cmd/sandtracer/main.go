package main

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/sandtracer/internal/analysis"
	"github.com/san-kum/sandtracer/internal/config"
	"github.com/san-kum/sandtracer/internal/experiment"
	"github.com/san-kum/sandtracer/internal/integrators"
	"github.com/san-kum/sandtracer/internal/sim"
	"github.com/san-kum/sandtracer/internal/storage"
	"github.com/san-kum/sandtracer/internal/trace"
	"github.com/san-kum/sandtracer/internal/viz"
)

var (
	logger = log.New(os.Stderr, "sandtracer: ", 0)
	envCfg config.Env

	dataDir string
	flags   overrides
	noSave  bool

	exportOut string

	phaseAxis  string
	samples    int
	thetaMax   float64
	omegaMax   float64
	trajectory int
	preset     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "sandtracer",
		Short:         "damped 2D pendulum sand tracer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			envCfg, err = config.LoadEnv()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("data") {
				dataDir = envCfg.DataDir
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".sandtracer", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a bounded headless trace and store it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTrace,
	}
	flags.register(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "watch the trace in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	flags.register(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot positions and energy of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")

	phaseCmd := &cobra.Command{
		Use:   "phase [preset]",
		Short: "phase portrait of one axis",
		Args:  cobra.MaximumNArgs(1),
		RunE:  phasePlot,
	}
	flags.register(phaseCmd)
	phaseCmd.Flags().StringVar(&phaseAxis, "axis", "x", "axis to portray (x or y)")
	phaseCmd.Flags().IntVar(&samples, "samples", 31, "grid samples per side")
	phaseCmd.Flags().Float64Var(&thetaMax, "theta-max", 3.0, "angle half range")
	phaseCmd.Flags().Float64Var(&omegaMax, "omega-max", 0, "angular velocity half range (0 = from g/r)")
	phaseCmd.Flags().IntVar(&trajectory, "trajectory", 0, "also plot this many integrated steps from the initial state")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [integrator...]",
		Short: "compare integrators on the same configuration",
		RunE:  compareIntegrators,
	}
	flags.register(compareCmd)
	compareCmd.Flags().StringVar(&preset, "preset", "", "preset to compare on")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, phaseCmd, presetsCmd, compareCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Print(err)
		os.Exit(1)
	}
}

func presetArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func runTrace(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, presetArg(args), envCfg, flags)
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg, trace.WithLogger(logger))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s for %d steps (dt=%g, %s)...\n", displayName(cfg), cfg.Steps, cfg.Dt, cfg.Integrator)
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		if result == nil || len(result.Frames) == 0 {
			return err
		}
		logger.Printf("run stopped after %d frames: %v", len(result.Frames), err)
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	fmt.Printf("frames: %d\n", len(result.Frames))
	fmt.Printf("laps: %d\n", result.Laps)
	fmt.Printf("E0: %.6f\n", result.E0)
	printFrequencies(result.Frames, cfg.Dt)

	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)
	return err
}

func displayName(cfg *config.Config) string {
	if cfg.Preset == "" {
		return "custom"
	}
	return cfg.Preset
}

// printFrequencies reports swing frequencies over the first lap.
func printFrequencies(frames []trace.Frame, dt float64) {
	var xs, ys []float64
	for _, f := range frames {
		if f.Lap > 0 {
			break
		}
		xs = append(xs, f.X.Pos)
		ys = append(ys, f.Y.Pos)
	}

	fx, errX := analysis.DominantFrequency(xs, dt)
	fy, errY := analysis.DominantFrequency(ys, dt)
	if errX != nil || errY != nil {
		return
	}
	fmt.Printf("swing: x %.3f Hz, y %.3f Hz\n", fx, fy)
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, presetArg(args), envCfg, flags)
	if err != nil {
		return err
	}

	// The alt screen owns the terminal, so lap messages are not logged here.
	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}
	return viz.Run(exp.Runner(), displayName(cfg))
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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tFRAMES\tLAPS\tDT\tINTEG")

	for _, run := range runs {
		integ, dt := "", 0.0
		if run.Config != nil {
			integ, dt = run.Config.Integrator, run.Config.Dt
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.4fs\t%s\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Laps,
			dt,
			integ,
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

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("samples: %d\n\n", len(frames))

	series := []struct {
		caption string
		value   func(trace.Frame) float64
	}{
		{"x position", func(f trace.Frame) float64 { return f.X.Pos }},
		{"y position", func(f trace.Frame) float64 { return f.Y.Pos }},
		{"energy", func(f trace.Frame) float64 { return f.Energy }},
	}

	for _, s := range series {
		data := make([]float64, len(frames))
		for i, f := range frames {
			data[i] = s.value(f)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)

	if exportOut == "" {
		return st.ExportJSON(os.Stdout, args[0])
	}

	f, err := os.Create(exportOut)
	if err != nil {
		return err
	}
	if err := st.ExportJSON(f, args[0]); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("exported %s to %s\n", args[0], exportOut)
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, presetArg(args), envCfg, flags)
	if err != nil {
		return err
	}
	sc, err := cfg.SimConfig()
	if err != nil {
		return err
	}
	p, err := sim.New(sc)
	if err != nil {
		return err
	}

	xa, ya := p.Axes()
	axis, x0 := xa, p.InitialX()
	switch strings.ToLower(phaseAxis) {
	case "x":
	case "y":
		axis, x0 = ya, p.InitialY()
	default:
		return fmt.Errorf("unknown axis %q (want x or y)", phaseAxis)
	}

	wMax := omegaMax
	if wMax <= 0 {
		params := axis.Params()
		wMax = 2 * math.Sqrt(params.Gravity/params.Radius)
	}

	arrows, err := analysis.PhasePortrait(axis, [2]float64{-thetaMax, thetaMax}, [2]float64{-wMax, wMax}, samples)
	if err != nil {
		return err
	}

	fmt.Printf("%s axis phase portrait, θ in ±%.2f, θ̇ in ±%.2f\n\n", phaseAxis, thetaMax, wMax)
	fmt.Print(analysis.FieldASCII(analysis.Normalize(arrows), samples))

	if trajectory > 0 {
		factory, err := integrators.Lookup(cfg.Integrator)
		if err != nil {
			return err
		}
		points, err := analysis.Trajectory(axis, factory(), x0, cfg.Dt, trajectory)
		if err != nil {
			logger.Printf("trajectory stopped after %d steps: %v", len(points), err)
		}
		fmt.Printf("\ntrajectory from (%.3f, %.3f), %d steps\n\n", x0[0], x0[1], len(points))
		fmt.Print(analysis.TrajectoryASCII(points, 80, 24))
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tRADIUS\tDRAG\tX0\tY0")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%.3f,%.3f\t%g\t%v\t%v\n", name, p.Radius[0], p.Radius[1], p.Drag, p.X0, p.Y0)
	}
	return w.Flush()
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, preset, envCfg, flags)
	if err != nil {
		return err
	}

	names := args
	if len(names) == 0 {
		names = integrators.Names()
	}

	fmt.Printf("comparing integrators on %s (dt=%g, %d steps)\n\n", displayName(cfg), cfg.Dt, cfg.Steps)
	fmt.Printf("%-10s  %12s  %12s  %12s  %5s  %10s\n", "integrator", "final_E", "E/E0", "max_rise", "laps", "time_ms")
	fmt.Println(strings.Repeat("-", 70))

	for _, c := range experiment.Compare(cmd.Context(), cfg, names) {
		if c.Err != nil && c.Laps == 0 && c.Elapsed == 0 {
			fmt.Printf("%-10s  error: %v\n", c.Integrator, c.Err)
			continue
		}
		fmt.Printf("%-10s  %12.6f  %12.6f  %12.2e  %5d  %10.2f\n",
			c.Integrator, c.FinalEnergy, c.EnergyRatio, c.MaxRise, c.Laps, float64(c.Elapsed.Microseconds())/1000)
		if c.Err != nil {
			fmt.Printf("%-10s  stopped: %v\n", "", c.Err)
		}
	}
	return nil
}
