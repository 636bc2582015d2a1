package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gravsim/internal/automation"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/export"
	"github.com/san-kum/gravsim/internal/gui"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/san-kum/gravsim/internal/tui"
	"github.com/san-kum/gravsim/internal/viz"
	"github.com/spf13/cobra"
)

// loadConfig builds the configuration for cmd: defaults, then the config
// file, then the preset, then flags the user actually set.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cfg := config.DefaultConfig()
	name := config.DefaultPreset

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg, name = loaded, "custom"
	}

	if preset != "" {
		bodies, ok := config.GetPreset(preset)
		if !ok {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg.Bodies, name = bodies, preset
	}

	flags := cmd.Flags()
	if flags.Changed("g") {
		cfg.GravityConstant = g
	}
	if flags.Changed("dt") {
		cfg.Run.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Run.Duration = duration
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, name, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if pick {
		return viz.RunInteractive(cfg)
	}

	s, err := experiment.Build(cfg)
	if err != nil {
		return err
	}
	return viz.Run(s, cfg, name)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := experiment.Build(cfg)
	if err != nil {
		return err
	}
	return gui.Run(s, cfg, name)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if runName != "" {
		name = runName
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}
	exp.Setup(experiment.NewRegistry().DefaultMetrics(cfg))

	if watch {
		r := tui.NewLiveRenderer(os.Stdout, name, cfg.BaseSphereRadius, cfg.GravityConstant, frameRate)
		exp.Simulator().AddObserver(r)
		r.Start()
		defer r.Stop()
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %s (%d bodies)...\n", name, len(cfg.Bodies))
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunMetadata{
		Name:             name,
		Dt:               cfg.Run.Dt,
		Duration:         cfg.Run.Duration,
		GravityConstant:  cfg.GravityConstant,
		BaseSphereRadius: cfg.BaseSphereRadius,
		Bodies:           len(cfg.Bodies),
	}, result)
	if err != nil {
		return err
	}
	log.Printf("gravsim: saved run %s", runID)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("merges: %d\n", result.Merges)
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}
	printMetrics(result.Metrics)
	return nil
}

func printMetrics(metrics map[string]float64) {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, metrics[name])
	}
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
	fmt.Fprintln(w, "ID\tNAME\tTIME\tDURATION\tDT\tBODIES\tMERGES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.4f\t%d\t%d\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Bodies,
			run.Merges,
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

	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("bodies: %d  merges: %d\n", meta.Bodies, meta.Merges)
	fmt.Printf("samples: %d\n\n", len(samples))

	energy := make([]float64, len(samples))
	live := make([]float64, len(samples))
	momentum := make([]float64, len(samples))
	for i, s := range samples {
		energy[i] = s.Energy
		live[i] = float64(s.Live)
		momentum[i] = s.Momentum.Len()
	}

	for _, series := range []struct {
		caption string
		data    []float64
	}{
		{"total energy", energy},
		{"live bodies", live},
		{"|momentum|", momentum},
	} {
		graph := asciigraph.Plot(series.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
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
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	if output == "" {
		return storage.ExportJSON(os.Stdout, *meta, samples)
	}
	if err := storage.ExportJSONFile(output, *meta, samples); err != nil {
		return err
	}
	fmt.Printf("exported %s to %s\n", runID, output)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tBODIES\tMASS")
	for _, name := range config.ListPresets() {
		bodies, _ := config.GetPreset(name)
		mass := 0.0
		for _, b := range bodies {
			mass += b.Mass
		}
		fmt.Fprintf(w, "%s\t%d\t%.2f\n", name, len(bodies), mass)
	}
	return w.Flush()
}

func runScript(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	base, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running scenario %s...\n", sc.Name)
	result, err := automation.RunScenario(ctx, sc, base, experiment.NewRegistry())
	if err != nil {
		return err
	}

	final := result.Samples[len(result.Samples)-1]
	fmt.Printf("steps: %d  merges: %d  live: %d\n", result.StepsTaken, result.Merges, final.Live)
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}
	printMetrics(result.Metrics)

	if sc.SaveAs == "" {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	cfg, err := sc.Config(base)
	if err != nil {
		return err
	}
	runID, err := st.Save(storage.RunMetadata{
		Name:             sc.SaveAs,
		Dt:               cfg.Run.Dt,
		Duration:         cfg.Run.Duration,
		GravityConstant:  cfg.GravityConstant,
		BaseSphereRadius: cfg.BaseSphereRadius,
		Bodies:           len(cfg.Bodies),
	}, result)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Base:      cfg,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
	}, experiment.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tLIVE\tMERGES\tENERGY DRIFT\n", sweepParam)
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%d\t%d\t%.3e\n", r.ParamValue, r.FinalLive, r.Merges, r.EnergyDrift)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Base:         cfg,
		Perturbation: perturbation,
		NumTrials:    trials,
		Seed:         seed,
	}, experiment.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tLIVE\tMERGES\tSTABLE")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%d\t%v\n", r.TrialID, r.FinalLive, r.Merges, r.Stable)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("\nstable: %d  unstable: %d\n", stable, unstable)
	return nil
}

func runTrace(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}
	tracer := export.NewTracer(traceEvery)
	exp.Simulator().AddObserver(tracer)

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("tracing %s...\n", name)
	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := tracer.WriteSVG(f, svgSize, cfg.BaseSphereRadius); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d bodies, %d merges)\n", output, len(tracer.Tracks()), result.Merges)

	if viewFile == "" {
		return nil
	}
	canvas := viz.NewCanvas(svgSize/8, svgSize/16)
	cam := viz.NewCamera(viz.DefaultCameraPosition, viz.DefaultCameraTarget)
	viz.RenderAxes(canvas, cam, 1)
	viz.Render(canvas, cam, exp.Simulator().Snapshot())
	if err := os.WriteFile(viewFile, []byte(export.CanvasToSVG(canvas, 4)), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", viewFile)
	return nil
}
