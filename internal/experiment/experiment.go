package experiment

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/epipe/internal/config"
	"github.com/san-kum/epipe/internal/dynamo"
	"github.com/san-kum/epipe/internal/metrics"
)

// initStream is the PCG stream used for sampling initial fates. Cell noise
// uses streams 0..n-1 of the same seed.
const initStream = math.MaxUint64

// Result is the outcome of one experiment run. History holds every
// snapshot recorded before any error.
type Result struct {
	Initial *dynamo.Embryo
	History *dynamo.History
	Stats   []metrics.Sample
	Metrics map[string]float64
	Elapsed time.Duration
}

type Experiment struct {
	cfg       *config.Config
	model     dynamo.Model
	logger    *zap.Logger
	simulator *dynamo.Simulator
	stats     *metrics.FateStats
	metrics   []metrics.Metric
}

// New validates cfg and resolves its model from reg.
func New(cfg *config.Config, reg *Registry, logger *zap.Logger) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	model, err := reg.GetModel(cfg.Model, cfg.Params)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Experiment{
		cfg:    cfg.Clone(),
		model:  model,
		logger: logger,
	}, nil
}

// Setup builds the simulator and attaches ms alongside the fate statistics
// recorder.
func (e *Experiment) Setup(ms []metrics.Metric, observers ...dynamo.Observer) error {
	e.stats = metrics.NewFateStats()
	e.metrics = ms

	opts := []dynamo.Option{
		dynamo.WithLogger(e.logger),
		dynamo.WithObserver(e.stats),
	}
	for _, m := range ms {
		opts = append(opts, dynamo.WithObserver(m))
	}
	for _, o := range observers {
		opts = append(opts, dynamo.WithObserver(o))
	}

	s, err := dynamo.New(e.cfg.SimConfig(), opts...)
	if err != nil {
		return err
	}
	e.simulator = s
	return nil
}

func (e *Experiment) Model() dynamo.Model { return e.model }

// Initial samples the starting embryo. The same config always yields the
// same embryo.
func (e *Experiment) Initial() (*dynamo.Embryo, error) {
	return dynamo.Initialize(e.model, e.cfg.NumCells, e.cfg.Distribution(), rand.NewPCG(e.cfg.Seed, initStream))
}

// Run samples the initial embryo and simulates it. On divergence or
// cancellation the partial Result is returned with the error.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.simulator == nil {
		return nil, errors.New("experiment not setup")
	}
	for _, m := range e.metrics {
		m.Reset()
	}
	e.stats.Reset()

	initial, err := e.Initial()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	h, runErr := e.simulator.Run(ctx, initial, e.cfg.Timesteps, e.cfg.SaveInterval)
	res := &Result{
		Initial: initial,
		History: h,
		Stats:   e.stats.Samples(),
		Metrics: metrics.Collect(append([]metrics.Metric{e.stats}, e.metrics...)),
		Elapsed: time.Since(start),
	}
	return res, runErr
}

// RunEnsemble runs n replicates of the same initial embryo with seeds
// cfg.Seed, cfg.Seed+1, ... and returns the final-snapshot statistics of each.
func (e *Experiment) RunEnsemble(ctx context.Context, n int) ([]metrics.Sample, error) {
	if e.simulator == nil {
		return nil, errors.New("experiment not setup")
	}
	initial, err := e.Initial()
	if err != nil {
		return nil, err
	}

	hs, err := dynamo.NewEnsemble(e.simulator, n, e.cfg.Seed).Run(ctx, initial, e.cfg.Timesteps, e.cfg.SaveInterval)
	if err != nil {
		return nil, err
	}

	out := make([]metrics.Sample, len(hs))
	for i, h := range hs {
		out[i] = metrics.Summarize(e.cfg.Timesteps/e.cfg.SaveInterval*e.cfg.SaveInterval, h.Last())
	}
	return out, nil
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *dynamo.Simulator {
	return e.simulator
}
