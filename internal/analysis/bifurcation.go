package analysis

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/san-kum/epipe/internal/dynamo"
)

// BifurcationPoint holds the distinct final fates reached for one
// parameter value.
type BifurcationPoint struct {
	Param  float64
	Values []float64 // distinct final x values, ascending
}

// EmbryoFunc builds the starting embryo for a given parameter value.
type EmbryoFunc func(param float64) (*dynamo.Embryo, error)

// BifurcationDiagram sweeps a parameter across [paramMin, paramMax], runs
// each resulting embryo for timesteps ticks and records where the cells
// end up along x. A population splitting into two fates shows up as two
// clusters of values.
func BifurcationDiagram(
	ctx context.Context,
	s *dynamo.Simulator,
	build EmbryoFunc,
	paramMin, paramMax float64,
	paramSteps int,
	timesteps int,
) ([]BifurcationPoint, error) {
	if paramSteps <= 1 {
		paramSteps = 2 // Prevent division by zero
	}
	paramStep := (paramMax - paramMin) / float64(paramSteps-1)
	interval := max(timesteps, 1)

	results := make([]BifurcationPoint, 0, paramSteps)
	for i := 0; i < paramSteps; i++ {
		param := paramMin + float64(i)*paramStep

		e, err := build(param)
		if err != nil {
			return results, fmt.Errorf("param %g: %w", param, err)
		}
		h, err := s.Run(ctx, e, timesteps, interval)
		if err != nil {
			return results, fmt.Errorf("param %g: %w", param, err)
		}

		results = append(results, BifurcationPoint{
			Param:  param,
			Values: distinctX(h.Last()),
		})
	}
	return results, nil
}

// distinctX quantizes x to three decimals and keeps one value per bucket.
func distinctX(e *dynamo.Embryo) []float64 {
	seen := make(map[int64]bool)
	values := make([]float64, 0, e.Len())
	for _, f := range e.Fates() {
		key := int64(math.Round(f.X * 1000))
		if !seen[key] {
			seen[key] = true
			values = append(values, f.X)
		}
	}
	slices.Sort(values)
	return values
}

// BifurcationToASCII converts bifurcation data to ASCII art
func BifurcationToASCII(data []BifurcationPoint, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	var minVal, maxVal float64
	foundFirst := false
	for _, p := range data {
		for _, v := range p.Values {
			if !foundFirst {
				minVal, maxVal = v, v
				foundFirst = true
				continue
			}
			minVal = math.Min(minVal, v)
			maxVal = math.Max(maxVal, v)
		}
	}
	if !foundFirst {
		return ""
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for i, p := range data {
		col := min(i*width/len(data), width-1)
		for _, v := range p.Values {
			row := height - 1 - int((v-minVal)/(maxVal-minVal)*float64(height-1))
			if row >= 0 && row < height {
				canvas[row][col] = '•'
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
