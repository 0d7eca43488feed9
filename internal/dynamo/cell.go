package dynamo

import "fmt"

// Record is one entry of a cell's history.
type Record struct {
	Loc  Point
	Fate Fate
}

// Cell holds a current location and fate plus an append-only history that
// starts with the state the cell was created in.
type Cell struct {
	loc     Point
	fate    Fate
	history []Record
}

func NewCell(loc Point, fate Fate) *Cell {
	return &Cell{
		loc:     loc,
		fate:    fate,
		history: []Record{{Loc: loc, Fate: fate}},
	}
}

func (c *Cell) Location() Point { return c.loc }
func (c *Cell) Fate() Fate      { return c.fate }

// HistoryLen returns the number of recorded states.
func (c *Cell) HistoryLen() int { return len(c.history) }

// History returns a copy of the recorded states, oldest first.
func (c *Cell) History() []Record {
	out := make([]Record, len(c.history))
	copy(out, c.history)
	return out
}

// At returns the i-th recorded state.
func (c *Cell) At(i int) Record { return c.history[i] }

// Record appends the current location and fate to the history.
func (c *Cell) Record() {
	c.history = append(c.history, Record{Loc: c.loc, Fate: c.fate})
}

// advance replaces the current state and records it.
func (c *Cell) advance(loc Point, fate Fate) {
	c.loc = loc
	c.fate = fate
	c.Record()
}

// Clone returns an independent copy of c. The recorded prefix is shared
// with its capacity capped at its length, so an append on either cell
// reallocates and never writes into the other's records.
func (c *Cell) Clone() *Cell {
	n := len(c.history)
	return &Cell{loc: c.loc, fate: c.fate, history: c.history[:n:n]}
}

func (c *Cell) String() string {
	return fmt.Sprintf("Cell(loc=(%.2f, %.2f, %.2f), fate=(%.2f, %.2f))",
		c.loc.X, c.loc.Y, c.loc.Z, c.fate.X, c.fate.Y)
}
