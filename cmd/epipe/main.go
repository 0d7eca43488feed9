package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/epipe/internal/config"
	"github.com/san-kum/epipe/internal/experiment"
)

var (
	dt           float64
	timesteps    int
	saveInterval int
	numCells     int
	seed         uint64
	workers      int
	noise        float64
	k1           float64
	k2           float64
	fs           float64
	bias         float64
	fex          float64
	// Config file
	configFile string
	// Preset name
	preset string
	// Logging
	logLevel  string
	logFormat string
	logFile   string
	// Output
	theme     string
	plotWidth int
	traced    int
	// Ensemble and sweep
	runs      int
	sweepName string
	sweepFrom float64
	sweepTo   float64
	sweepN    int
	// Landscape check
	extent float64
	grid   int
	// Tuning
	axes       []string
	metricName string
	metricGoal float64
)

// main registers the epipe commands and executes the root command, exiting
// with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "epipe",
		Short:         "epiblast / primitive endoderm fate landscape simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write JSON logs to this rotated file")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", "cyberpunk", "output color theme")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "simulate a population and summarize its fates",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)
	runCmd.Flags().IntVar(&plotWidth, "width", 60, "plot width in columns")
	runCmd.Flags().IntVar(&traced, "trace", 5, "number of cell trajectories to draw")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [model]",
		Short: "run independent replicates with consecutive seeds",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEnsemble,
	}
	addRunFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&runs, "runs", 8, "number of replicates")

	sweepCmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "sweep one landscape parameter and plot final fates",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepName, "param", "fs", "parameter to sweep (k1, k2, fs, b, fex)")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0, "first parameter value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 2, "last parameter value")
	sweepCmd.Flags().IntVar(&sweepN, "steps", 11, "number of parameter values")

	checkCmd := &cobra.Command{
		Use:   "check [model]",
		Short: "compare a model's flow with finite differences of its potential",
		Args:  cobra.MaximumNArgs(1),
		RunE:  checkLandscape,
	}
	addRunFlags(checkCmd)
	checkCmd.Flags().Float64Var(&extent, "extent", 1.0, "half-width of the sampled square")
	checkCmd.Flags().IntVar(&grid, "grid", 11, "grid points per axis")

	tuneCmd := &cobra.Command{
		Use:   "tune [model]",
		Short: "grid search landscape parameters toward a target metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTune,
	}
	addRunFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&axes, "grid", []string{"fs=0:2:5"}, "parameter axis as name=from:to:n (repeatable)")
	tuneCmd.Flags().StringVar(&metricName, "metric", "positive_x_fraction", "metric to drive toward the target")
	tuneCmd.Flags().Float64Var(&metricGoal, "target", 0.5, "target metric value")

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list available models",
		Run: func(cmd *cobra.Command, args []string) {
			for _, m := range experiment.NewRegistry().ListModels() {
				fmt.Println(m)
			}
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for model: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, ensembleCmd, sweepCmd, tuneCmd, checkCmd, modelsCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	d := config.DefaultConfig()
	f := cmd.Flags()
	f.Float64Var(&dt, "dt", d.Dt, "timestep")
	f.IntVar(&timesteps, "timesteps", d.Timesteps, "number of ticks")
	f.IntVar(&saveInterval, "save-interval", d.SaveInterval, "record a snapshot every N ticks")
	f.IntVar(&numCells, "cells", d.NumCells, "number of cells")
	f.Uint64Var(&seed, "seed", d.Seed, "random seed")
	f.IntVar(&workers, "workers", d.Workers, "parallel workers (0 = all CPUs)")
	f.Float64Var(&noise, "noise", d.NoiseLevel, "noise level of every cell")
	f.Float64Var(&k1, "k1", d.Params.K1, "dual cusp tilt")
	f.Float64Var(&k2, "k2", d.Params.K2, "heteroclinic flip tilt")
	f.Float64Var(&fs, "fs", d.Params.Fs, "feedback strength")
	f.Float64Var(&bias, "b", d.Params.B, "feedback bias")
	f.Float64Var(&fex, "fex", d.Params.Fex, "external signal")
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
}
