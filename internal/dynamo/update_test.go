package dynamo

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
)

func TestAdvance_Deterministic(t *testing.T) {
	m := bowl{}
	f := Fate{X: 1, Y: 2, Noise: 0}

	loc, next := Advance(m, f, nil, 0.1, rand.NewPCG(1, 1))

	if math.Abs(next.X-0.9) > 1e-12 || math.Abs(next.Y-1.8) > 1e-12 {
		t.Errorf("next fate = (%v, %v), want (0.9, 1.8)", next.X, next.Y)
	}
	if next.Noise != 0 {
		t.Errorf("noise level not carried over: %v", next.Noise)
	}
	if loc.X != next.X || loc.Y != next.Y || loc.Z != m.Potential(next) {
		t.Errorf("location %v does not track new fate %v", loc, next)
	}
	if f.X != 1 || f.Y != 2 {
		t.Error("Advance mutated its input")
	}
}

func TestAdvance_NoiseOnIncrement(t *testing.T) {
	const (
		sigma = 0.3
		dt    = 0.01
	)

	ref := rand.New(rand.NewPCG(7, 11))
	wantX := ref.NormFloat64() * sigma * dt
	wantY := ref.NormFloat64() * sigma * dt

	_, next := Advance(flat{}, Fate{Noise: sigma}, nil, dt, rand.NewPCG(7, 11))

	if math.Abs(next.X-wantX) > 1e-15 || math.Abs(next.Y-wantY) > 1e-15 {
		t.Errorf("next = (%v, %v), want (%v, %v)", next.X, next.Y, wantX, wantY)
	}
}

func TestStep(t *testing.T) {
	m := bowl{}
	c := NewCell(Point{1, 1, m.Potential(Fate{X: 1, Y: 1})}, Fate{X: 1, Y: 1})

	for i := 0; i < 5; i++ {
		before := c.Fate()
		if err := Step(m, c, nil, 0.1, rand.NewPCG(1, 2)); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if c.HistoryLen() != i+2 {
			t.Fatalf("step %d: history length %d, want %d", i, c.HistoryLen(), i+2)
		}
		if c.Fate().X >= before.X {
			t.Errorf("step %d: bowl flow did not move toward origin: %v -> %v", i, before, c.Fate())
		}
		last := c.At(c.HistoryLen() - 1)
		if last.Fate != c.Fate() || last.Loc != c.Location() {
			t.Errorf("step %d: last record %v does not match current state", i, last)
		}
	}

	if c.At(0).Fate.X != 1 {
		t.Error("earlier history entry was rewritten")
	}
}

func TestStep_Divergence(t *testing.T) {
	c := NewCell(Point{X: 11}, Fate{X: 11})

	err := Step(cliff{}, c, nil, 0.01, rand.NewPCG(1, 2))
	if !errors.Is(err, ErrDiverged) {
		t.Fatalf("expected ErrDiverged, got %v", err)
	}
	if c.HistoryLen() != 1 || c.Fate().X != 11 {
		t.Errorf("diverged step modified the cell: %v", c)
	}
}

func TestStep_MatchesTick(t *testing.T) {
	s := newTestSimulator(t, Config{Dt: 0.1, Workers: 1})
	ticked := embryoAt(bowl{}, 0.3, 0.5, -0.4, 1.2)
	stepped := ticked.Clone()

	population := stepped.Fates()
	streams := NewStreams(9, stepped.Len())
	for i, c := range stepped.Cells() {
		if err := Step(stepped.Model(), c, population, 0.1, streams[i]); err != nil {
			t.Fatalf("cell %d: %v", i, err)
		}
	}
	if err := s.Tick(ticked, 1, NewStreams(9, ticked.Len())); err != nil {
		t.Fatal(err)
	}

	for i := range ticked.Len() {
		if ticked.Cell(i).Fate() != stepped.Cell(i).Fate() {
			t.Errorf("cell %d: Tick %v, Step %v", i, ticked.Cell(i).Fate(), stepped.Cell(i).Fate())
		}
	}
}

func TestNewStreams(t *testing.T) {
	a := NewStreams(42, 3)
	b := NewStreams(42, 3)

	for i := range a {
		if a[i].Uint64() != b[i].Uint64() {
			t.Errorf("stream %d not reproducible", i)
		}
	}

	c := NewStreams(42, 2)
	if c[0].Uint64() == c[1].Uint64() {
		t.Error("streams for different cells should differ")
	}
}
