package analysis

import (
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/epipe/internal/dynamo"
)

// PhasePortrait2D holds points of the (x, y) fate plane.
type PhasePortrait2D struct {
	Xs, Ys []float64
}

func (p *PhasePortrait2D) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Xs)
}

func (p *PhasePortrait2D) add(f dynamo.Fate) {
	p.Xs = append(p.Xs, f.X)
	p.Ys = append(p.Ys, f.Y)
}

// GeneratePhasePortrait collects the fate of every cell in every snapshot.
func GeneratePhasePortrait(h *dynamo.History) *PhasePortrait2D {
	portrait := &PhasePortrait2D{}
	for _, snap := range h.All() {
		for _, f := range snap.Fates() {
			portrait.add(f)
		}
	}
	return portrait
}

// CellTrajectory returns the full per-tick path of one cell.
func CellTrajectory(c *dynamo.Cell) *PhasePortrait2D {
	portrait := &PhasePortrait2D{
		Xs: make([]float64, 0, c.HistoryLen()),
		Ys: make([]float64, 0, c.HistoryLen()),
	}
	for _, r := range c.History() {
		portrait.add(r.Fate)
	}
	return portrait
}

// PhasePortraitToASCII converts phase portrait to ASCII art
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait.Len() == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minX, maxX := floats.Min(portrait.Xs), floats.Max(portrait.Xs)
	minY, maxY := floats.Min(portrait.Ys), floats.Max(portrait.Ys)

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for i := range portrait.Xs {
		col := int((portrait.Xs[i] - minX) / rangeX * float64(width-1))
		row := height - 1 - int((portrait.Ys[i]-minY)/rangeY*float64(height-1))

		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	// Draw axes if they cross the visible area
	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// Crossings counts, per cell, how many times x passes threshold going up
// between consecutive snapshots. Cells are matched by index.
func Crossings(h *dynamo.History, threshold float64) []int {
	if h.Len() == 0 {
		return nil
	}

	counts := make([]int, h.At(0).Len())
	prev := h.At(0).Fates()
	for i := 1; i < h.Len(); i++ {
		curr := h.At(i).Fates()
		for j := range min(len(prev), len(curr), len(counts)) {
			if prev[j].X < threshold && curr[j].X >= threshold {
				counts[j]++
			}
		}
		prev = curr
	}
	return counts
}
