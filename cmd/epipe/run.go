package main

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"os/signal"
	"slices"
	"strconv"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/epipe/internal/analysis"
	"github.com/san-kum/epipe/internal/config"
	"github.com/san-kum/epipe/internal/dynamo"
	"github.com/san-kum/epipe/internal/experiment"
	"github.com/san-kum/epipe/internal/metrics"
	"github.com/san-kum/epipe/internal/observability"
	"github.com/san-kum/epipe/internal/viz"
)

// resolveConfig layers defaults, preset, config file, the model argument
// and explicitly set flags, in that order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	model := cfg.Model
	if len(args) > 0 {
		model = args[0]
	}

	if preset != "" {
		p := config.GetPreset(model, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if len(args) > 0 {
		cfg.Model = args[0]
	}
	applyFlags(cmd, cfg)
	return cfg, cfg.Validate()
}

// applyFlags copies every flag the user set on cmd into cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	if changed("dt") {
		cfg.Dt = dt
	}
	if changed("timesteps") {
		cfg.Timesteps = timesteps
	}
	if changed("save-interval") {
		cfg.SaveInterval = saveInterval
	}
	if changed("cells") {
		cfg.NumCells = numCells
	}
	if changed("seed") {
		cfg.Seed = seed
	}
	if changed("workers") {
		cfg.Workers = workers
	}
	if changed("noise") {
		cfg.NoiseLevel = noise
	}
	if changed("k1") {
		cfg.Params.K1 = k1
	}
	if changed("k2") {
		cfg.Params.K2 = k2
	}
	if changed("fs") {
		cfg.Params.Fs = fs
	}
	if changed("b") {
		cfg.Params.B = bias
	}
	if changed("fex") {
		cfg.Params.Fex = fex
	}
	if changed("log-level") || cfg.Log.Level == "" {
		cfg.Log.Level = logLevel
	}
	if changed("log-format") {
		cfg.Log.Format = logFormat
	}
	if changed("log-file") {
		cfg.Log.File = logFile
	}
}

// setup resolves the configuration and builds the logger and experiment.
func setup(cmd *cobra.Command, args []string) (*config.Config, *experiment.Experiment, *zap.Logger, error) {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := observability.NewStderr(cfg.Log)
	if err != nil {
		return nil, nil, nil, err
	}

	registry := experiment.NewRegistry()
	exp, err := experiment.New(cfg, registry, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := exp.Setup(registry.DefaultMetrics()); err != nil {
		return nil, nil, nil, err
	}
	return cfg, exp, logger, nil
}

func styles() viz.Styles {
	t, _ := viz.GetTheme(theme)
	return viz.NewStyles(t)
}

// interruptible returns a context canceled on SIGINT. The run stops after
// its current tick and keeps what was recorded.
func interruptible() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, exp, logger, err := setup(cmd, args)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := interruptible()
	defer stop()

	s := styles()
	fmt.Printf("running %s with %d cells for %d ticks...\n", exp.Model().Name(), cfg.NumCells, cfg.Timesteps)

	res, runErr := exp.Run(ctx)
	if res == nil || res.History == nil || res.History.Len() == 0 {
		return runErr
	}
	if runErr != nil {
		fmt.Println(s.Error.Render("run stopped early: " + runErr.Error()))
	}

	printSummary(s, cfg, exp.Model(), res)
	printPlots(s, res)

	if errors.Is(runErr, dynamo.ErrCanceled) {
		return nil
	}
	return runErr
}

func printSummary(s viz.Styles, cfg *config.Config, m dynamo.Model, res *experiment.Result) {
	last := res.Stats[len(res.Stats)-1]

	rows := [][2]string{
		{"model", m.Name()},
		{"cells", strconv.Itoa(last.Cells)},
		{"ticks", strconv.Itoa(last.Tick)},
		{"snapshots", strconv.Itoa(res.History.Len())},
		{"dt", strconv.FormatFloat(cfg.Dt, 'g', -1, 64)},
		{"seed", strconv.FormatUint(cfg.Seed, 10)},
		{"elapsed", res.Elapsed.String()},
	}
	if p, ok := m.(interface{ Params() map[string]float64 }); ok {
		for _, name := range []string{"k1", "k2", "fs", "b", "fex"} {
			if v, ok := p.Params()[name]; ok {
				rows = append(rows, [2]string{name, strconv.FormatFloat(v, 'g', -1, 64)})
			}
		}
	}
	fmt.Println(s.Box("Run", s.KeyValues(rows)))

	fates := [][2]string{
		{"mean x", fmt.Sprintf("%+.4f ± %.4f", last.MeanX, last.StdX)},
		{"mean y", fmt.Sprintf("%+.4f ± %.4f", last.MeanY, last.StdY)},
		{"mean V", fmt.Sprintf("%+.4f", last.MeanPotential)},
		{"x > 0", fmt.Sprintf("%s %5.1f%%", s.Bar(last.PositiveX, 20), 100*last.PositiveX)},
	}
	for _, name := range slices.Sorted(maps.Keys(res.Metrics)) {
		fates = append(fates, [2]string{name, fmt.Sprintf("%.4f", res.Metrics[name])})
	}
	fmt.Println(s.Box("Final fates", s.KeyValues(fates)))
}

func printPlots(s viz.Styles, res *experiment.Result) {
	meanX := make([]float64, len(res.Stats))
	meanY := make([]float64, len(res.Stats))
	for i, st := range res.Stats {
		meanX[i], meanY[i] = st.MeanX, st.MeanY
	}

	if len(res.Stats) > 1 {
		graph := asciigraph.PlotMany([][]float64{meanX, meanY},
			asciigraph.Height(10),
			asciigraph.Width(plotWidth),
			asciigraph.SeriesColors(asciigraph.Red, asciigraph.Blue),
			asciigraph.Caption("mean x (red) and mean y (blue) per snapshot"),
		)
		fmt.Println()
		fmt.Println(graph)
	}

	fmt.Println()
	fmt.Println(s.Title.Render("Phase plane (all snapshots)"))
	fmt.Print(analysis.PhasePortraitToASCII(analysis.GeneratePhasePortrait(res.History), plotWidth, 16))

	last := res.History.Last()
	var paths []viz.Path
	for i := range min(traced, last.Len()) {
		p := analysis.CellTrajectory(last.Cell(i))
		paths = append(paths, viz.Path{Xs: p.Xs, Ys: p.Ys})
	}
	if len(paths) > 0 {
		fmt.Println()
		fmt.Println(s.Title.Render(fmt.Sprintf("Trajectories (%d cells)", len(paths))))
		fmt.Print(viz.PlotPaths(paths, plotWidth/2, 8).String())
	}

	crossings := analysis.Crossings(res.History, 0)
	switched := 0
	for _, c := range crossings {
		if c > 0 {
			switched++
		}
	}
	fmt.Println(s.Muted.Render(fmt.Sprintf("%d of %d cells crossed x = 0 upward between snapshots", switched, len(crossings))))
	fmt.Println(s.Muted.Render("positive x fraction " + s.Sparkline(seriesOf(res.Stats, func(st metrics.Sample) float64 { return st.PositiveX }), plotWidth/2)))
}

// meanStd is stat.MeanStdDev with a zero deviation for fewer than two values.
func meanStd(xs []float64) (float64, float64) {
	switch len(xs) {
	case 0:
		return 0, 0
	case 1:
		return xs[0], 0
	}
	return stat.MeanStdDev(xs, nil)
}

func seriesOf(samples []metrics.Sample, field func(metrics.Sample) float64) []float64 {
	out := make([]float64, len(samples))
	for i, st := range samples {
		out[i] = field(st)
	}
	return out
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, exp, logger, err := setup(cmd, args)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := interruptible()
	defer stop()

	fmt.Printf("running %d replicates of %s...\n", runs, exp.Model().Name())
	samples, err := exp.RunEnsemble(ctx, runs)
	if err != nil {
		return err
	}

	s := styles()
	rows := make([][2]string, len(samples))
	fractions := make([]float64, len(samples))
	for i, st := range samples {
		rows[i] = [2]string{
			fmt.Sprintf("seed %d", cfg.Seed+uint64(i)),
			fmt.Sprintf("%s x>0 %5.1f%%  mean x %+.4f", s.Bar(st.PositiveX, 20), 100*st.PositiveX, st.MeanX),
		}
		fractions[i] = st.PositiveX
	}
	fmt.Println(s.Box("Ensemble", s.KeyValues(rows)))

	mean, std := meanStd(fractions)
	fmt.Printf("x > 0 fraction across replicates: %.4f ± %.4f\n", mean, std)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, exp, logger, err := setup(cmd, args)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	registry := experiment.NewRegistry()
	build := func(p float64) (*dynamo.Embryo, error) {
		c := cfg.Clone()
		if err := c.Params.Set(sweepName, p); err != nil {
			return nil, err
		}
		e, err := experiment.New(c, registry, logger)
		if err != nil {
			return nil, err
		}
		return e.Initial()
	}

	ctx, stop := interruptible()
	defer stop()

	fmt.Printf("sweeping %s of %s over [%g, %g]...\n", sweepName, exp.Model().Name(), sweepFrom, sweepTo)
	data, err := analysis.BifurcationDiagram(ctx, exp.GetSimulator(), build, sweepFrom, sweepTo, sweepN, cfg.Timesteps)
	if err != nil {
		return err
	}

	s := styles()
	fmt.Println(s.Title.Render(fmt.Sprintf("final x vs %s", sweepName)))
	fmt.Print(analysis.BifurcationToASCII(data, max(sweepN, 20), 16))
	for _, p := range data {
		fmt.Printf("  %s=%-8.4g %d distinct fates\n", sweepName, p.Param, len(p.Values))
	}
	return nil
}

func checkLandscape(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	m, err := experiment.NewRegistry().GetModel(cfg.Model, cfg.Params)
	if err != nil {
		return err
	}

	r := analysis.Residuals(m, extent, grid)
	mean, _ := meanStd(r)
	worst := 0.0
	for _, v := range r {
		worst = max(worst, v)
	}

	s := styles()
	fmt.Println(s.Box(m.Name(), s.KeyValues([][2]string{
		{"grid", fmt.Sprintf("%d×%d over [-%g, %g]²", grid, grid, extent, extent)},
		{"mean |flow + ∇V|", fmt.Sprintf("%.6g", mean)},
		{"max |flow + ∇V|", fmt.Sprintf("%.6g", worst)},
	})))
	if worst > 1e-6 {
		fmt.Println(s.Muted.Render("the flow field is not the negative gradient of the published potential"))
	}
	return nil
}
