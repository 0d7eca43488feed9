package analysis

import (
	"math"

	"gonum.org/v1/gonum/diff/fd"

	"github.com/san-kum/epipe/internal/dynamo"
)

var central = &fd.Settings{Formula: fd.Central, Step: 1e-5}

// NumericalDescent estimates -∇V at f by central differences of the
// model's published potential.
func NumericalDescent(m dynamo.Model, f dynamo.Fate) (dx, dy float64) {
	g := fd.Gradient(nil, func(v []float64) float64 {
		return m.Potential(dynamo.Fate{X: v[0], Y: v[1], Noise: f.Noise})
	}, []float64{f.X, f.Y}, central)
	return -g[0], -g[1]
}

// GradientResidual is the Euclidean distance between the model's flow at f
// and the numerical descent of its potential. Zero means the flow is a
// pure gradient flow of Potential.
func GradientResidual(m dynamo.Model, f dynamo.Fate, population []dynamo.Fate) float64 {
	gx, gy := m.Gradient(f, population)
	nx, ny := NumericalDescent(m, f)
	return math.Hypot(gx-nx, gy-ny)
}

// Residuals evaluates GradientResidual on a square grid of n×n points
// spanning [-extent, extent] on both axes, row-major from the bottom left.
func Residuals(m dynamo.Model, extent float64, n int) []float64 {
	if n < 2 {
		return []float64{GradientResidual(m, dynamo.Fate{}, nil)}
	}
	step := 2 * extent / float64(n-1)
	out := make([]float64, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			f := dynamo.Fate{X: -extent + float64(j)*step, Y: -extent + float64(i)*step}
			out = append(out, GradientResidual(m, f, nil))
		}
	}
	return out
}
