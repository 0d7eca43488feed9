package metrics

import (
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/epipe/internal/dynamo"
)

// Sample summarizes one snapshot of a population.
type Sample struct {
	Tick          int
	Cells         int
	MeanX, StdX   float64
	MeanY, StdY   float64
	PositiveX     float64 // fraction of cells with x > 0
	MeanPotential float64
}

// Summarize computes a Sample for e. Standard deviations are 0 for fewer
// than two cells and every field is 0 for an empty embryo.
func Summarize(tick int, e *dynamo.Embryo) Sample {
	s := Sample{Tick: tick, Cells: e.Len()}
	if e.Len() == 0 {
		return s
	}

	xs := make([]float64, e.Len())
	ys := make([]float64, e.Len())
	zs := make([]float64, e.Len())
	positive := 0
	for i, c := range e.Cells() {
		f := c.Fate()
		xs[i], ys[i], zs[i] = f.X, f.Y, c.Location().Z
		if f.X > 0 {
			positive++
		}
	}

	if len(xs) > 1 {
		s.MeanX, s.StdX = stat.MeanStdDev(xs, nil)
		s.MeanY, s.StdY = stat.MeanStdDev(ys, nil)
	} else {
		s.MeanX, s.MeanY = xs[0], ys[0]
	}
	s.PositiveX = float64(positive) / float64(len(xs))
	s.MeanPotential = stat.Mean(zs, nil)
	return s
}

// FateStats records a Sample for every snapshot it observes.
type FateStats struct {
	samples []Sample
}

func NewFateStats() *FateStats {
	return &FateStats{}
}

func (f *FateStats) OnSnapshot(tick int, e *dynamo.Embryo) {
	f.samples = append(f.samples, Summarize(tick, e))
}

func (f *FateStats) Samples() []Sample {
	out := make([]Sample, len(f.samples))
	copy(out, f.samples)
	return out
}

// Series extracts one field across all recorded samples.
func (f *FateStats) Series(field func(Sample) float64) []float64 {
	out := make([]float64, len(f.samples))
	for i, s := range f.samples {
		out[i] = field(s)
	}
	return out
}

func (f *FateStats) Name() string { return "positive_x_fraction" }

// Value returns the fraction of cells with x > 0 in the latest snapshot.
func (f *FateStats) Value() float64 {
	if len(f.samples) == 0 {
		return 0
	}
	return f.samples[len(f.samples)-1].PositiveX
}

func (f *FateStats) Reset() { f.samples = f.samples[:0] }
