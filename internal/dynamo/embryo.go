package dynamo

import (
	"fmt"
	"iter"
)

// Embryo is an ordered population of cells governed by one model.
// Cell order is stable for the lifetime of the embryo and its snapshots.
type Embryo struct {
	model Model
	cells []*Cell
}

func NewEmbryo(model Model, cells []*Cell) *Embryo {
	cs := make([]*Cell, len(cells))
	copy(cs, cells)
	return &Embryo{model: model, cells: cs}
}

func (e *Embryo) Model() Model { return e.model }

// ModelName returns the model's name, or "none" for an embryo without a model.
func (e *Embryo) ModelName() string {
	if e.model == nil {
		return "none"
	}
	return e.model.Name()
}

func (e *Embryo) Len() int         { return len(e.cells) }
func (e *Embryo) Cell(i int) *Cell { return e.cells[i] }
func (e *Embryo) Cells() []*Cell {
	out := make([]*Cell, len(e.cells))
	copy(out, e.cells)
	return out
}

// Fates returns the current fate of every cell, in cell order.
func (e *Embryo) Fates() []Fate {
	fates := make([]Fate, len(e.cells))
	for i, c := range e.cells {
		fates[i] = c.fate
	}
	return fates
}

// Locations returns the current location of every cell, in cell order.
func (e *Embryo) Locations() []Point {
	locs := make([]Point, len(e.cells))
	for i, c := range e.cells {
		locs[i] = c.loc
	}
	return locs
}

// Clone returns an independent copy. The model is shared since models are
// immutable, and cell histories share their recorded prefix.
func (e *Embryo) Clone() *Embryo {
	cells := make([]*Cell, len(e.cells))
	for i, c := range e.cells {
		cells[i] = c.Clone()
	}
	return &Embryo{model: e.model, cells: cells}
}

func (e *Embryo) String() string {
	return fmt.Sprintf("Embryo(model=%s, #cells=%d)", e.ModelName(), len(e.cells))
}

// History is an append-only sequence of embryo snapshots.
type History struct {
	snapshots []*Embryo
}

func NewHistory(capacity int) *History {
	return &History{snapshots: make([]*Embryo, 0, capacity)}
}

// Add appends e as the next snapshot. Callers that keep mutating e must
// pass a clone.
func (h *History) Add(e *Embryo) {
	h.snapshots = append(h.snapshots, e)
}

func (h *History) Len() int         { return len(h.snapshots) }
func (h *History) At(i int) *Embryo { return h.snapshots[i] }

// Last returns the most recent snapshot, or nil if none was added.
func (h *History) Last() *Embryo {
	if len(h.snapshots) == 0 {
		return nil
	}
	return h.snapshots[len(h.snapshots)-1]
}

func (h *History) Snapshots() []*Embryo {
	out := make([]*Embryo, len(h.snapshots))
	copy(out, h.snapshots)
	return out
}

// All iterates over the snapshots in recording order.
func (h *History) All() iter.Seq2[int, *Embryo] {
	return func(yield func(int, *Embryo) bool) {
		for i, e := range h.snapshots {
			if !yield(i, e) {
				return
			}
		}
	}
}

func (h *History) String() string {
	return fmt.Sprintf("History(#snapshots=%d)", len(h.snapshots))
}
