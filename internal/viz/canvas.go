package viz

import (
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = []rune(strings.Repeat("⠀", w))
	}
	return c
}

// Set sets a pixel at (x, y) in sub-pixel coordinates. The canvas size in
// sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Path is a polyline in the fate plane.
type Path struct {
	Xs, Ys []float64
}

// PlotPaths draws every path on a w×h braille canvas scaled to the joint
// bounds of all points, with +y pointing up.
func PlotPaths(paths []Path, w, h int) *Canvas {
	c := NewCanvas(w, h)

	var xs, ys []float64
	for _, p := range paths {
		xs = append(xs, p.Xs...)
		ys = append(ys, p.Ys...)
	}
	if len(xs) == 0 || w <= 0 || h <= 0 {
		return c
	}

	minX, maxX := floats.Min(xs), floats.Max(xs)
	minY, maxY := floats.Min(ys), floats.Max(ys)
	if maxX == minX {
		maxX = minX + 1
	}
	if maxY == minY {
		maxY = minY + 1
	}

	pw, ph := w*2-1, h*4-1
	px := func(x float64) int { return int((x - minX) / (maxX - minX) * float64(pw)) }
	py := func(y float64) int { return ph - int((y-minY)/(maxY-minY)*float64(ph)) }

	for _, p := range paths {
		for i := range p.Xs {
			if i == 0 {
				c.Set(px(p.Xs[0]), py(p.Ys[0]))
				continue
			}
			c.DrawLine(px(p.Xs[i-1]), py(p.Ys[i-1]), px(p.Xs[i]), py(p.Ys[i]))
		}
	}
	return c
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
