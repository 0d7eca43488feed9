package dynamo

import (
	"context"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Ensemble runs independent replicates of one initial embryo, each with
// its own seed.
type Ensemble struct {
	base      *Simulator
	numRuns   int
	seedStart uint64
}

func NewEnsemble(s *Simulator, numRuns int, seedStart uint64) *Ensemble {
	return &Ensemble{base: s, numRuns: numRuns, seedStart: seedStart}
}

// Run returns one History per replicate, in seed order. The first failing
// replicate cancels the rest. Observers of the base simulator are not
// attached to replicates.
func (e *Ensemble) Run(ctx context.Context, initial *Embryo, timesteps, saveInterval int) ([]*History, error) {
	if e.numRuns < 0 {
		return nil, &ConfigError{Field: "runs", Value: e.numRuns, Reason: "must be >= 0"}
	}
	results := make([]*History, e.numRuns)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			cfg := e.base.cfg
			cfg.Seed = e.seedStart + uint64(i)
			s := &Simulator{cfg: cfg, logger: e.base.logger.With(zap.Int("replicate", i))}

			h, err := s.Run(gctx, initial, timesteps, saveInterval)
			if err != nil {
				return err
			}
			results[i] = h
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ParallelFor executes fn over [0, n) split into at most workers chunks of
// at least minChunk elements, and returns once every chunk has finished.
// fn cannot fail; the errgroup is used only to join the chunks.
func ParallelFor(n, workers, minChunk int, fn func(start, end int)) {
	if minChunk < 1 {
		minChunk = 1
	}
	if workers > n/minChunk {
		workers = n / minChunk
	}
	if workers <= 1 {
		fn(0, n)
		return
	}

	chunkSize := (n + workers - 1) / workers

	var g errgroup.Group
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		g.Go(func() error {
			fn(start, end)
			return nil
		})
	}
	g.Wait() //nolint:errcheck // every chunk returns nil
}
