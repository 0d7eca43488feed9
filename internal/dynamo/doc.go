// Package dynamo provides the dynamics engine for populations of cells
// moving on a potential landscape.
//
// The package defines the state types and the loop that evolves them:
//
//   - [Point], [Fate]: immutable value types for a cell's location and phase-plane state
//   - [Cell]: current state plus an append-only per-cell history
//   - [Embryo]: ordered cells bound to one [Model]
//   - [History]: append-only sequence of independent embryo snapshots
//   - [Step], [Advance]: the single-cell update rule
//   - [Initialize]: samples an initial embryo
//   - [Simulator]: runs ticks, sequentially or fanned out over workers
//
// # Example
//
//	model := landscape.NewHeteroclinicFlip()
//	e, _ := dynamo.Initialize(model, 50, dynamo.DefaultDistribution(), rand.NewPCG(1, 2))
//	s, _ := dynamo.New(dynamo.DefaultConfig())
//	history, _ := s.Run(ctx, e, 1000, 10)
//
// # Thread Safety
//
// A tick reads a frozen copy of every cell's pre-tick fate and writes each
// cell from exactly one goroutine, so feedback models never observe a
// partially updated population. Simulator instances are NOT safe for
// concurrent Run calls that share observers; use [Ensemble] for replicates.
package dynamo
