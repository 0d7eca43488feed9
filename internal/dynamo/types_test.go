package dynamo

import (
	"errors"
	"math"
	"testing"
)

func TestPoint_Dist(t *testing.T) {
	tests := []struct {
		a, b     Point
		expected float64
	}{
		{Point{0, 0, 0}, Point{3, 4, 0}, 5.0},
		{Point{1, 1, 1}, Point{2, 2, 2}, math.Sqrt(3)},
		{Point{-1, 2, 5}, Point{-1, 2, 5}, 0},
		{Point{0, 0, 0}, Point{0, 0, -2}, 2},
	}

	for _, tt := range tests {
		if got := tt.a.Dist(tt.b); math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("Dist(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.expected)
		}
		if tt.a.Dist(tt.b) != tt.b.Dist(tt.a) {
			t.Errorf("Dist not symmetric for %v, %v", tt.a, tt.b)
		}
		if tt.a.Dist(tt.a) != 0 {
			t.Errorf("Dist(%v, itself) != 0", tt.a)
		}
	}
}

func TestPoint_Coord(t *testing.T) {
	p := Point{1, 2, 3}
	for i, want := range p.Array() {
		if got := p.Coord(i); got != want {
			t.Errorf("Coord(%d) = %v, want %v", i, got, want)
		}
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic for out of range coordinate")
		}
	}()
	p.Coord(3)
}

func TestPoint_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		p     Point
		valid bool
	}{
		{"zero", Point{}, true},
		{"normal", Point{1, -2, 3}, true},
		{"NaN z", Point{1, 2, math.NaN()}, false},
		{"+Inf x", Point{math.Inf(1), 0, 0}, false},
		{"-Inf y", Point{0, math.Inf(-1), 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestFate_ValueSemantics(t *testing.T) {
	f := NewFate(0.5, 0.7)
	if f.Noise != DefaultNoise {
		t.Errorf("NewFate noise = %v, want %v", f.Noise, DefaultNoise)
	}

	moved := f.Moved(0.1, -0.2)
	if f.X != 0.5 || f.Y != 0.7 {
		t.Errorf("Moved mutated receiver: %+v", f)
	}
	if math.Abs(moved.X-0.6) > 1e-12 || math.Abs(moved.Y-0.5) > 1e-12 {
		t.Errorf("Moved = %+v, want (0.6, 0.5)", moved)
	}

	quiet := f.WithNoise(0)
	if quiet.Noise != 0 || f.Noise != DefaultNoise {
		t.Errorf("WithNoise: got %v / receiver %v", quiet.Noise, f.Noise)
	}
}

func TestFate_Validate(t *testing.T) {
	tests := []struct {
		name    string
		noise   float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"default", DefaultNoise, false},
		{"negative", -0.01, true},
		{"NaN", math.NaN(), true},
		{"Inf", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Fate{Noise: tt.noise}.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrConfiguration) {
				t.Errorf("expected ErrConfiguration, got %v", err)
			}
		})
	}
}

func TestNewCell(t *testing.T) {
	loc := Point{1, 2, 3}
	fate := NewFate(0.5, 0.7)
	c := NewCell(loc, fate)

	if c.Location() != loc || c.Fate() != fate {
		t.Errorf("cell state = (%v, %v), want (%v, %v)", c.Location(), c.Fate(), loc, fate)
	}
	if c.HistoryLen() != 1 {
		t.Fatalf("expected history length 1, got %d", c.HistoryLen())
	}
	if got := c.At(0); got != (Record{Loc: loc, Fate: fate}) {
		t.Errorf("history[0] = %v, want (%v, %v)", got, loc, fate)
	}
}

func TestCell_RecordGrowsHistory(t *testing.T) {
	c := NewCell(Point{1, 2, 0}, NewFate(0.5, 0.7))

	for i := 2; i <= 5; i++ {
		c.Record()
		if c.HistoryLen() != i {
			t.Fatalf("after record %d: history length %d", i-1, c.HistoryLen())
		}
	}

	h := c.History()
	h[0].Fate.X = 99
	if c.At(0).Fate.X == 99 {
		t.Error("History() did not return an independent copy")
	}
}

func TestCell_Clone(t *testing.T) {
	c := NewCell(Point{1, 2, 0}, NewFate(0.5, 0.7))
	clone := c.Clone()

	c.advance(Point{3, 3, 3}, NewFate(3, 3))
	if clone.HistoryLen() != 1 {
		t.Errorf("clone history grew to %d", clone.HistoryLen())
	}
	if clone.Fate().X != 0.5 {
		t.Errorf("clone fate changed to %v", clone.Fate())
	}

	clone.Record()
	if c.HistoryLen() != 2 || c.At(1).Fate.X != 3 {
		t.Errorf("original history corrupted by clone: %v", c.History())
	}
}

func TestCell_CloneSharesPrefixSafely(t *testing.T) {
	live := NewCell(Point{}, NewFate(0, 0))
	for i := 1; i <= 5; i++ {
		live.advance(Point{X: float64(i)}, NewFate(float64(i), 0))
	}
	if cap(live.history) == len(live.history) {
		t.Fatal("live history has no spare capacity to exercise sharing")
	}

	snap := live.Clone()
	want := snap.History()

	live.advance(Point{X: 100}, NewFate(100, 0))
	live.advance(Point{X: 101}, NewFate(101, 0))
	snap.advance(Point{X: -1}, NewFate(-1, 0))

	for i, r := range want {
		if snap.At(i) != r {
			t.Errorf("snapshot record %d = %v, want %v", i, snap.At(i), r)
		}
	}
	if live.At(6).Fate.X != 100 || live.At(7).Fate.X != 101 {
		t.Errorf("live history overwritten by snapshot append: %v", live.History())
	}
	if snap.At(6).Fate.X != -1 || snap.HistoryLen() != 7 {
		t.Errorf("snapshot append lost: %v", snap.History())
	}
}

func TestCell_String(t *testing.T) {
	c := NewCell(Point{1, 2, 3}, NewFate(0.5, 0.7))
	expected := "Cell(loc=(1.00, 2.00, 3.00), fate=(0.50, 0.70))"
	if c.String() != expected {
		t.Errorf("String() = %q, want %q", c.String(), expected)
	}
}

func TestEmbryo(t *testing.T) {
	cell := NewCell(Point{1, 2, 0}, NewFate(0.5, 0.7))
	e := NewEmbryo(nil, []*Cell{cell})

	if e.Len() != 1 || e.Cell(0) != cell {
		t.Fatalf("unexpected cells: %v", e.Cells())
	}
	if e.String() != "Embryo(model=none, #cells=1)" {
		t.Errorf("String() = %q", e.String())
	}

	e2 := NewEmbryo(bowl{}, []*Cell{cell})
	if e2.String() != "Embryo(model=bowl, #cells=1)" {
		t.Errorf("String() = %q", e2.String())
	}
	if fates := e2.Fates(); len(fates) != 1 || fates[0] != cell.Fate() {
		t.Errorf("Fates() = %v", fates)
	}
	if locs := e2.Locations(); len(locs) != 1 || locs[0] != cell.Location() {
		t.Errorf("Locations() = %v", locs)
	}
}

func TestEmbryo_Clone(t *testing.T) {
	e := embryoAt(bowl{}, 0, 1, 2, 3)
	clone := e.Clone()

	if clone.Model() != e.Model() {
		t.Error("clone should share the model")
	}
	for i := range e.Len() {
		if clone.Cell(i) == e.Cell(i) {
			t.Fatalf("cell %d shared between clone and original", i)
		}
	}

	e.Cell(0).advance(Point{}, NewFate(-1, -1))
	if clone.Cell(0).Fate().X != 1 || clone.Cell(0).HistoryLen() != 1 {
		t.Error("mutating original changed the clone")
	}
}

func TestHistory(t *testing.T) {
	h := NewHistory(0)
	if h.Last() != nil {
		t.Error("Last() on empty history should be nil")
	}

	embryos := []*Embryo{embryoAt(bowl{}, 0, 1), embryoAt(bowl{}, 0, 2), embryoAt(bowl{}, 0, 3)}
	for i, e := range embryos {
		h.Add(e)
		if h.Len() != i+1 {
			t.Fatalf("after %d adds: Len() = %d", i+1, h.Len())
		}
	}

	if h.At(0) != embryos[0] || h.Last() != embryos[2] {
		t.Error("At/Last returned wrong snapshot")
	}

	n := 0
	for i, e := range h.All() {
		if e != embryos[i] {
			t.Errorf("All() index %d out of order", i)
		}
		n++
	}
	if n != 3 {
		t.Errorf("All() yielded %d snapshots", n)
	}

	if h.String() != "History(#snapshots=3)" {
		t.Errorf("String() = %q", h.String())
	}
}

func TestErrors(t *testing.T) {
	var err error = &ConfigError{Field: "dt", Value: 0.0, Reason: "must be positive"}
	if !errors.Is(err, ErrConfiguration) {
		t.Error("ConfigError should unwrap to ErrConfiguration")
	}
	expected := "dynamo: invalid configuration: dt=0 must be positive"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}

	err = &SimulationError{Step: 3, Cell: 1, Fate: Fate{X: 1, Y: 2}, Wrapped: ErrDiverged}
	if !errors.Is(err, ErrDiverged) {
		t.Error("SimulationError should unwrap to ErrDiverged")
	}
	var se *SimulationError
	if !errors.As(err, &se) || se.Step != 3 || se.Cell != 1 {
		t.Errorf("errors.As failed: %v", err)
	}
}
