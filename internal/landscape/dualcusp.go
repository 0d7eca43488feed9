package landscape

import "github.com/san-kum/epipe/internal/dynamo"

const DefaultK1 = 0.15

// DualCusp has no population feedback.
type DualCusp struct {
	k1 float64
}

func NewDualCusp() *DualCusp { return &DualCusp{k1: DefaultK1} }

func NewDualCuspWith(k1 float64) *DualCusp { return &DualCusp{k1: k1} }

func (d *DualCusp) Name() string { return "Dual Cusp" }
func (d *DualCusp) K1() float64  { return d.k1 }

// Potential evaluates x⁴ + y⁴ − y³ + 4x²y + y² − K1·y.
func (d *DualCusp) Potential(f dynamo.Fate) float64 {
	x, y := f.X, f.Y
	return x*x*x*x + y*y*y*y - y*y*y + 4*x*x*y + y*y - d.k1*y
}

// Flow evaluates the potential whose negated derivative is Gradient:
// x⁴ + y⁴ − y³ − 4x²y + K1·y².
func (d *DualCusp) Flow(f dynamo.Fate) float64 {
	x, y := f.X, f.Y
	return x*x*x*x + y*y*y*y - y*y*y - 4*x*x*y + d.k1*y*y
}

// Gradient ignores population.
func (d *DualCusp) Gradient(f dynamo.Fate, _ []dynamo.Fate) (float64, float64) {
	x, y := f.X, f.Y
	dx := -4*x*x*x + 8*x*y
	dy := -4*y*y*y + 3*y*y + 4*x*x - 2*d.k1*y
	return dx, dy
}

func (d *DualCusp) Params() map[string]float64 {
	return map[string]float64{"k1": d.k1}
}
