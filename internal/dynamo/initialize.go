package dynamo

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Distribution describes how initial fates are sampled: independent
// normals per axis. Noise is the noise level given to every sampled fate.
type Distribution struct {
	MeanX, StdX float64
	MeanY, StdY float64
	Noise       float64
}

// DefaultDistribution seeds cells near the origin, slightly up the
// specification axis.
func DefaultDistribution() Distribution {
	return Distribution{
		MeanX: 0, StdX: 0.1,
		MeanY: 0.1, StdY: 0.1,
		Noise: DefaultNoise,
	}
}

func (d Distribution) Validate() error {
	switch {
	case d.StdX < 0 || !finite(d.StdX):
		return &ConfigError{Field: "std_x", Value: d.StdX, Reason: "must be a finite value >= 0"}
	case d.StdY < 0 || !finite(d.StdY):
		return &ConfigError{Field: "std_y", Value: d.StdY, Reason: "must be a finite value >= 0"}
	case !finite(d.MeanX):
		return &ConfigError{Field: "mean_x", Value: d.MeanX, Reason: "must be finite"}
	case !finite(d.MeanY):
		return &ConfigError{Field: "mean_y", Value: d.MeanY, Reason: "must be finite"}
	}
	return Fate{Noise: d.Noise}.Validate()
}

// Initialize samples numCells cells from d, placing each at the model's
// potential for its fate. Every returned cell has a history of length 1.
func Initialize(m Model, numCells int, d Distribution, src rand.Source) (*Embryo, error) {
	if m == nil {
		return nil, &ConfigError{Field: "model", Value: nil, Reason: "is required"}
	}
	if numCells < 0 {
		return nil, &ConfigError{Field: "num_cells", Value: numCells, Reason: "must be >= 0"}
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}

	xs := distuv.Normal{Mu: d.MeanX, Sigma: d.StdX, Src: src}
	ys := distuv.Normal{Mu: d.MeanY, Sigma: d.StdY, Src: src}

	cells := make([]*Cell, numCells)
	for i := range cells {
		fate := Fate{X: xs.Rand(), Y: ys.Rand(), Noise: d.Noise}
		z := m.Potential(fate)
		if !finite(z) {
			return nil, fmt.Errorf("cell %d potential %v at (%g, %g): %w", i, z, fate.X, fate.Y, ErrInvalidState)
		}
		cells[i] = NewCell(Point{X: fate.X, Y: fate.Y, Z: z}, fate)
	}

	return NewEmbryo(m, cells), nil
}
