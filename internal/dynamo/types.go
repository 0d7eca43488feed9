package dynamo

import (
	"fmt"
	"math"
)

// DefaultNoise is the standard deviation of the gradient noise applied to a
// fate when none is configured.
const DefaultNoise = 0.05

// Point is a location in 3D space. Z carries the landscape height of the
// fate it was derived from.
type Point struct {
	X, Y, Z float64
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	dx, dy, dz := p.X-q.X, p.Y-q.Y, p.Z-q.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Coord returns the i-th coordinate (0: x, 1: y, 2: z).
func (p Point) Coord(i int) float64 {
	switch i {
	case 0:
		return p.X
	case 1:
		return p.Y
	case 2:
		return p.Z
	}
	panic(fmt.Sprintf("dynamo: point coordinate %d out of range", i))
}

func (p Point) Array() [3]float64 { return [3]float64{p.X, p.Y, p.Z} }

func (p Point) IsValid() bool { return finite(p.X) && finite(p.Y) && finite(p.Z) }

// Fate is a cell's position on the EPI-PE / specification phase plane
// together with the noise level used when it is advanced.
type Fate struct {
	X, Y  float64
	Noise float64
}

// NewFate returns a fate at (x, y) with DefaultNoise.
func NewFate(x, y float64) Fate {
	return Fate{X: x, Y: y, Noise: DefaultNoise}
}

// WithNoise returns a copy of f with the given noise level.
func (f Fate) WithNoise(sigma float64) Fate {
	f.Noise = sigma
	return f
}

// Moved returns a copy of f displaced by (dx, dy).
func (f Fate) Moved(dx, dy float64) Fate {
	f.X += dx
	f.Y += dy
	return f
}

func (f Fate) IsValid() bool { return finite(f.X) && finite(f.Y) }

// Validate reports a configuration error for a negative or non-finite noise level.
func (f Fate) Validate() error {
	if f.Noise < 0 || !finite(f.Noise) {
		return &ConfigError{Field: "noise_level", Value: f.Noise, Reason: "must be a finite value >= 0"}
	}
	return nil
}

// Model is a potential landscape over the fate plane.
//
// Gradient returns the descent direction at f. Models with population
// feedback read the supplied fates; a nil population means no feedback.
// Implementations must be safe for concurrent use.
type Model interface {
	Name() string
	Potential(f Fate) float64
	Gradient(f Fate, population []Fate) (dx, dy float64)
}

// Observer is notified each time a snapshot is appended to a History.
type Observer interface {
	OnSnapshot(tick int, e *Embryo)
}

// Config holds the run parameters fixed at Simulator construction.
// Workers is the number of goroutines a tick fans out to; 0 selects
// GOMAXPROCS and 1 runs ticks sequentially.
type Config struct {
	Dt      float64
	Seed    uint64
	Workers int
}

func DefaultConfig() Config {
	return Config{
		Dt:      0.001,
		Workers: 1,
	}
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
