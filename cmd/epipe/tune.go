package main

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/epipe/internal/experiment"
	"github.com/san-kum/epipe/internal/optim"
)

// parseAxis parses "name=from:to:n".
func parseAxis(s string) (string, []float64, error) {
	name, spec, ok := strings.Cut(s, "=")
	if !ok {
		return "", nil, fmt.Errorf("grid axis %q: want name=from:to:n", s)
	}
	parts := strings.Split(spec, ":")
	if len(parts) != 3 {
		return "", nil, fmt.Errorf("grid axis %q: want name=from:to:n", s)
	}
	from, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return "", nil, fmt.Errorf("grid axis %q: %w", s, err)
	}
	to, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", nil, fmt.Errorf("grid axis %q: %w", s, err)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n < 1 {
		return "", nil, fmt.Errorf("grid axis %q: point count must be a positive integer", s)
	}
	return name, optim.Linspace(from, to, n), nil
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, exp, logger, err := setup(cmd, args)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	names := make([]string, 0, len(axes))
	ranges := make([][]float64, 0, len(axes))
	for _, a := range axes {
		name, values, err := parseAxis(a)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	registry := experiment.NewRegistry()
	build := func(params map[string]float64) (*experiment.Experiment, error) {
		c := cfg.Clone()
		for name, v := range params {
			if err := c.Params.Set(name, v); err != nil {
				return nil, err
			}
		}
		e, err := experiment.New(c, registry, logger)
		if err != nil {
			return nil, err
		}
		return e, e.Setup(registry.DefaultMetrics())
	}

	ctx, stop := interruptible()
	defer stop()

	fmt.Printf("tuning %s of %s toward %s = %g...\n", strings.Join(names, ", "), exp.Model().Name(), metricName, metricGoal)
	best, score, err := optim.NewGridSearch(names, ranges).Search(ctx, build, optim.MetricDistance(metricName, metricGoal))
	if err != nil {
		return err
	}

	s := styles()
	rows := [][2]string{{"|" + metricName + " - target|", fmt.Sprintf("%.4g", score)}}
	for _, name := range slices.Sorted(maps.Keys(best)) {
		rows = append(rows, [2]string{name, strconv.FormatFloat(best[name], 'g', 6, 64)})
	}
	fmt.Println(s.Box("Best parameters", s.KeyValues(rows)))
	return nil
}
