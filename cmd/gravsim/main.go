package main

import (
	"fmt"
	"os"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	debug      bool

	dt        float64
	duration  float64
	g         float64
	runName   string
	watch     bool
	frameRate int
	pick      bool
	output    string

	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int

	traceEvery int
	viewFile   string
	svgSize    int

	trials       int
	perturbation float64
	seed         int64
)

// main is the entry point for the gravsim CLI. With no subcommand it opens
// the live terminal view.
func main() {
	var logClose func()

	rootCmd := &cobra.Command{
		Use:          "gravsim",
		Short:        "3D n-body gravity sandbox",
		SilenceUsage: true,
		RunE:         runLive,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			f, err := setupLogging(".", debug)
			if err != nil {
				return fmt.Errorf("logging: %w", err)
			}
			if f != nil {
				logClose = func() { f.Close() }
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "seed bodies from a preset")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "write logs to logs/gravsim.log")
	rootCmd.PersistentFlags().Float64Var(&g, "g", config.DefaultGravityConstant, "gravity constant")
	rootCmd.Flags().BoolVar(&pick, "pick", false, "choose a preset before starting")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive terminal view",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	liveCmd.Flags().BoolVar(&pick, "pick", false, "choose a preset before starting")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "windowed 3D view",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and save the diagnostics",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	runCmd.Flags().StringVar(&runName, "name", "", "run name (default: preset name)")
	runCmd.Flags().BoolVar(&watch, "watch", false, "draw the run in the terminal")
	runCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate for --watch")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "run a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep a physical parameter",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "gravity_constant", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 4, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 12, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	sweepCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "run randomly perturbed trials",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	monteCarloCmd.Flags().IntVar(&trials, "trials", 8, "number of trials")
	monteCarloCmd.Flags().Float64Var(&perturbation, "perturb", 0.05, "relative perturbation")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0: time based)")
	monteCarloCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	monteCarloCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")

	traceCmd := &cobra.Command{
		Use:   "trace",
		Short: "run headless and draw the orbits as SVG",
		Args:  cobra.NoArgs,
		RunE:  runTrace,
	}
	traceCmd.Flags().StringVarP(&output, "output", "o", "orbits.svg", "orbit SVG file")
	traceCmd.Flags().StringVar(&viewFile, "view", "", "also write the final camera view as SVG")
	traceCmd.Flags().IntVar(&traceEvery, "every", 5, "keep one point every N ticks")
	traceCmd.Flags().IntVar(&svgSize, "size", 800, "image size in pixels")
	traceCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	traceCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")

	rootCmd.AddCommand(liveCmd, guiCmd, runCmd, listCmd, plotCmd, exportJSONCmd, presetsCmd, scriptCmd, sweepCmd, monteCarloCmd, traceCmd)

	err := rootCmd.Execute()
	if logClose != nil {
		logClose()
	}
	if err != nil {
		os.Exit(1)
	}
}
