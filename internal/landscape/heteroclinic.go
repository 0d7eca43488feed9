package landscape

import "github.com/san-kum/epipe/internal/dynamo"

const (
	DefaultK2  = 1.5
	DefaultFs  = 1.0
	DefaultB   = 0.0
	DefaultFex = 0.0
)

// HeteroclinicFlip couples cells through a feedback term on the x
// component of the flow, computed from the whole population.
type HeteroclinicFlip struct {
	k2  float64
	fs  float64 // feedback scale
	b   float64 // feedback bias
	fex float64 // external forcing, e.g. inhibitors
}

func NewHeteroclinicFlip() *HeteroclinicFlip {
	return &HeteroclinicFlip{k2: DefaultK2, fs: DefaultFs, b: DefaultB, fex: DefaultFex}
}

func NewHeteroclinicFlipWith(k2, fs, b, fex float64) *HeteroclinicFlip {
	return &HeteroclinicFlip{k2: k2, fs: fs, b: b, fex: fex}
}

func (h *HeteroclinicFlip) Name() string { return "Heteroclinic Flip" }

// Feedback returns fs·avg + b + fex, where avg is the sum of the strictly
// positive x coordinates divided by the population size, and 0 for an
// empty population.
func (h *HeteroclinicFlip) Feedback(population []dynamo.Fate) float64 {
	avg := 0.0
	if len(population) > 0 {
		sum := 0.0
		for _, f := range population {
			if f.X > 0 {
				sum += f.X
			}
		}
		avg = sum / float64(len(population))
	}
	return avg*h.fs + h.b + h.fex
}

// Potential evaluates x⁴ + y⁴ − y³ + 2x²y − y² + K2·y.
func (h *HeteroclinicFlip) Potential(f dynamo.Fate) float64 {
	x, y := f.X, f.Y
	return x*x*x*x + y*y*y*y - y*y*y + 2*x*x*y - y*y + h.k2*y
}

// Flow evaluates the potential whose negated derivative is Gradient for a
// fixed feedback value f2: x⁴ + y⁴ − y³ − 2x²y − K2·y² − f2·x.
func (h *HeteroclinicFlip) Flow(f dynamo.Fate, f2 float64) float64 {
	x, y := f.X, f.Y
	return x*x*x*x + y*y*y*y - y*y*y - 2*x*x*y - h.k2*y*y - f2*x
}

// Gradient adds the population feedback to the x component. A nil or
// empty population contributes no feedback.
func (h *HeteroclinicFlip) Gradient(f dynamo.Fate, population []dynamo.Fate) (float64, float64) {
	x, y := f.X, f.Y
	f2 := 0.0
	if len(population) > 0 {
		f2 = h.Feedback(population)
	}
	dx := -4*x*x*x + 4*x*y + f2
	dy := -4*y*y*y + 3*y*y + 2*x*x + 2*h.k2*y
	return dx, dy
}

func (h *HeteroclinicFlip) Params() map[string]float64 {
	return map[string]float64{"k2": h.k2, "fs": h.fs, "b": h.b, "fex": h.fex}
}
