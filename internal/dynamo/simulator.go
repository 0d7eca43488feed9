package dynamo

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"

	"go.uber.org/zap"
)

// minChunk is the smallest number of cells handed to one worker.
const minChunk = 8

type Option func(*Simulator)

func WithLogger(l *zap.Logger) Option {
	return func(s *Simulator) { s.logger = l }
}

func WithObserver(o Observer) Option {
	return func(s *Simulator) { s.observers = append(s.observers, o) }
}

// Simulator advances an embryo tick by tick and records snapshots.
type Simulator struct {
	cfg       Config
	logger    *zap.Logger
	observers []Observer
}

// New validates cfg and returns a Simulator.
func New(cfg Config, opts ...Option) (*Simulator, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}

	s := &Simulator{cfg: cfg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Simulator) Config() Config { return s.cfg }

func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) || !finite(cfg.Dt) {
		return &ConfigError{Field: "dt", Value: cfg.Dt, Reason: "must be positive"}
	}
	if cfg.Workers < 0 {
		return &ConfigError{Field: "workers", Value: cfg.Workers, Reason: "must be >= 0"}
	}
	return nil
}

func validateEmbryo(e *Embryo) error {
	if e == nil {
		return &ConfigError{Field: "embryo", Value: nil, Reason: "is required"}
	}
	if e.model == nil {
		return &ConfigError{Field: "model", Value: nil, Reason: "is required"}
	}
	for i, c := range e.cells {
		if err := c.fate.Validate(); err != nil {
			return fmt.Errorf("cell %d: %w", i, err)
		}
	}
	return nil
}

// Run simulates timesteps ticks starting from a copy of initial, which is
// never modified. Snapshot 0 is the initial state and one snapshot follows
// every saveInterval ticks, so the History holds timesteps/saveInterval+1
// entries.
//
// Cancellation is checked between ticks. On cancellation or divergence the
// snapshots recorded so far are returned together with the error; a tick
// that diverged leaves no trace in the History.
func (s *Simulator) Run(ctx context.Context, initial *Embryo, timesteps, saveInterval int) (*History, error) {
	if timesteps < 0 {
		return nil, &ConfigError{Field: "timesteps", Value: timesteps, Reason: "must be >= 0"}
	}
	if saveInterval < 1 {
		return nil, &ConfigError{Field: "save_interval", Value: saveInterval, Reason: "must be >= 1"}
	}
	if err := validateEmbryo(initial); err != nil {
		return nil, err
	}

	log := s.logger.With(zap.String("model", initial.ModelName()))
	log.Info("starting run",
		zap.Int("cells", initial.Len()),
		zap.Int("timesteps", timesteps),
		zap.Int("save_interval", saveInterval),
		zap.Int("workers", s.cfg.Workers),
		zap.Float64("dt", s.cfg.Dt),
		zap.Uint64("seed", s.cfg.Seed),
	)

	live := initial.Clone()
	history := NewHistory(timesteps/saveInterval + 1)
	s.record(history, 0, live)

	streams := NewStreams(s.cfg.Seed, live.Len())
	for step := 1; step <= timesteps; step++ {
		if err := ctx.Err(); err != nil {
			log.Warn("run canceled", zap.Int("step", step), zap.Int("snapshots", history.Len()))
			return history, fmt.Errorf("%w before step %d: %w", ErrCanceled, step, err)
		}

		if err := s.Tick(live, step, streams); err != nil {
			log.Error("run aborted", zap.Int("step", step), zap.Error(err))
			return history, err
		}

		if step%saveInterval == 0 {
			s.record(history, step, live)
		}
	}

	log.Info("run complete", zap.Int("snapshots", history.Len()))
	return history, nil
}

func (s *Simulator) record(h *History, step int, live *Embryo) {
	snap := live.Clone()
	h.Add(snap)
	for _, o := range s.observers {
		o.OnSnapshot(step, snap)
	}
	s.logger.Debug("snapshot recorded", zap.Int("step", step), zap.Int("index", h.Len()-1))
}

type pending struct {
	loc  Point
	fate Fate
	err  error
}

// Tick advances every cell of e by one step, drawing cell i's noise from
// streams[i].
//
// All cells see the same pre-tick fates. New states are computed into a
// buffer, possibly concurrently, and committed only after every cell
// succeeded; if any cell diverges e is left untouched and the error for
// the lowest-indexed diverging cell is returned.
func (s *Simulator) Tick(e *Embryo, step int, streams []rand.Source) error {
	if len(streams) != e.Len() {
		return &ConfigError{Field: "streams", Value: len(streams), Reason: fmt.Sprintf("must match %d cells", e.Len())}
	}

	before := e.Fates()
	next := make([]pending, len(before))

	ParallelFor(len(before), s.cfg.Workers, minChunk, func(start, end int) {
		for i := start; i < end; i++ {
			loc, fate, err := propose(e.model, before[i], before, s.cfg.Dt, streams[i])
			next[i] = pending{loc: loc, fate: fate, err: err}
		}
	})

	for i, p := range next {
		if p.err != nil {
			return &SimulationError{Step: step, Cell: i, Fate: before[i], Wrapped: p.err}
		}
	}

	for i, c := range e.cells {
		c.advance(next[i].loc, next[i].fate)
	}
	return nil
}
