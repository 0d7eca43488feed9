package dynamo

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// NewStreams returns one independent noise source per cell, all derived
// from seed. Cell i always draws from stream i, so results do not depend
// on the order in which cells are updated.
func NewStreams(seed uint64, n int) []rand.Source {
	streams := make([]rand.Source, n)
	for i := range streams {
		streams[i] = rand.NewPCG(seed, uint64(i))
	}
	return streams
}

// Advance computes the location and fate that follow f after one tick.
//
// Gaussian noise with standard deviation f.Noise is added to each gradient
// component before the increment is scaled by dt. The location's Z is the
// potential of the new fate. Advance does not check for divergence.
func Advance(m Model, f Fate, population []Fate, dt float64, src rand.Source) (Point, Fate) {
	dx, dy := m.Gradient(f, population)

	noise := distuv.Normal{Mu: 0, Sigma: f.Noise, Src: src}
	dx += noise.Rand()
	dy += noise.Rand()

	next := f.Moved(dx*dt, dy*dt)
	return Point{X: next.X, Y: next.Y, Z: m.Potential(next)}, next
}

// Step advances a single cell by one tick and appends the new state to its
// history. population is the pre-tick fate of every cell and may be nil for
// models without feedback. On divergence c is left unchanged and
// ErrDiverged is returned.
//
// Step commits immediately. Simulator.Tick buffers the same update for
// every cell and commits only once all of them succeeded.
func Step(m Model, c *Cell, population []Fate, dt float64, src rand.Source) error {
	loc, next, err := propose(m, c.fate, population, dt, src)
	if err != nil {
		return err
	}
	c.advance(loc, next)
	return nil
}

// propose is Advance followed by the finiteness check.
func propose(m Model, f Fate, population []Fate, dt float64, src rand.Source) (Point, Fate, error) {
	loc, next := Advance(m, f, population, dt, src)
	if !next.IsValid() || !loc.IsValid() {
		return loc, next, ErrDiverged
	}
	return loc, next, nil
}
