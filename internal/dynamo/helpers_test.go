package dynamo

import "math"

// bowl is the quadratic potential (x²+y²)/2 with flow (-x, -y).
type bowl struct{}

func (bowl) Name() string                                 { return "bowl" }
func (bowl) Potential(f Fate) float64                     { return 0.5 * (f.X*f.X + f.Y*f.Y) }
func (bowl) Gradient(f Fate, _ []Fate) (float64, float64) { return -f.X, -f.Y }

// flat has zero flow everywhere.
type flat struct{}

func (flat) Name() string                             { return "flat" }
func (flat) Potential(Fate) float64                   { return 0 }
func (flat) Gradient(Fate, []Fate) (float64, float64) { return 0, 0 }

// meanPull moves every cell along x by the population's mean x.
type meanPull struct{}

func (meanPull) Name() string             { return "mean pull" }
func (meanPull) Potential(f Fate) float64 { return f.X }
func (meanPull) Gradient(f Fate, pop []Fate) (float64, float64) {
	if len(pop) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, p := range pop {
		sum += p.X
	}
	return sum / float64(len(pop)), -f.Y
}

// cliff diverges for any cell beyond x = 10.
type cliff struct{}

func (cliff) Name() string             { return "cliff" }
func (cliff) Potential(f Fate) float64 { return f.X }
func (cliff) Gradient(f Fate, _ []Fate) (float64, float64) {
	if f.X > 10 {
		return math.Inf(1), 0
	}
	return 1, 0
}

// hole has a non-finite potential everywhere.
type hole struct{}

func (hole) Name() string                             { return "hole" }
func (hole) Potential(Fate) float64                   { return math.NaN() }
func (hole) Gradient(Fate, []Fate) (float64, float64) { return 0, 0 }

func embryoAt(m Model, noise float64, xs ...float64) *Embryo {
	cells := make([]*Cell, len(xs))
	for i, x := range xs {
		f := Fate{X: x, Y: 0.1 * float64(i), Noise: noise}
		cells[i] = NewCell(Point{X: f.X, Y: f.Y, Z: m.Potential(f)}, f)
	}
	return NewEmbryo(m, cells)
}
