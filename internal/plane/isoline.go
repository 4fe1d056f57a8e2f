package plane

import (
	"fmt"
	"image"
	"math"
	"strings"
)

// IsCrossing reports whether the field crosses t around interior cell
// (col, row): either the cells above and below, or the cells left and
// right, lie strictly on opposite sides of t. The cell itself is not
// inspected, and a neighbour equal to t never counts.
func (g Grid) IsCrossing(col, row int, t float32) bool {
	up := g.ValueAt(col, row-1)
	down := g.ValueAt(col, row+1)
	if up < t && down > t {
		return true
	}
	if up > t && down < t {
		return true
	}
	left := g.ValueAt(col-1, row)
	right := g.ValueAt(col+1, row)
	if left > t && right < t {
		return true
	}
	if left < t && right > t {
		return true
	}
	return false
}

// Crossings returns every interior cell (the outermost one-pixel border is
// skipped) at which the field crosses t, in row-major order.
func (g Grid) Crossings(t float32) []image.Point {
	var pts []image.Point
	for row := 1; row < g.Height-1; row++ {
		for col := 1; col < g.Width-1; col++ {
			if g.IsCrossing(col, row, t) {
				pts = append(pts, image.Point{X: col, Y: row})
			}
		}
	}
	return pts
}

// LevelMode selects how the positive-mode isoline ladder is stepped.
type LevelMode int

const (
	// LevelStepped computes each level as min + k*binsize. Its level count
	// is always bins+2.
	LevelStepped LevelMode = iota
	// LevelAccumulate repeatedly adds binsize to a float32 accumulator, as
	// earlier releases did. Rounding drift can drop the final level.
	LevelAccumulate
)

func (m LevelMode) String() string {
	switch m {
	case LevelStepped:
		return "stepped"
	case LevelAccumulate:
		return "accumulate"
	}
	return fmt.Sprintf("LevelMode(%d)", int(m))
}

// ParseLevelMode accepts "stepped" or "accumulate".
func ParseLevelMode(s string) (LevelMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "stepped":
		return LevelStepped, nil
	case "accumulate":
		return LevelAccumulate, nil
	}
	return LevelStepped, fmt.Errorf("unknown level mode %q", s)
}

// Levels returns the raw-value thresholds at which isolines are drawn.
//
// In negative mode the ladder is fixed: -10^k and 10^k for k = -5..1,
// followed by zero. Otherwise [min, max] (in log10 units) is split into
// bins+1 equal steps and 10^val is emitted for each step value from min to
// max inclusive, followed by zero.
func Levels(mode LevelMode, bins int, negative bool, min, max float64) []float64 {
	var levels []float64
	if negative {
		for k := -5; k <= 1; k++ {
			p := math.Pow(10, float64(k))
			levels = append(levels, -p, p)
		}
		return append(levels, 0)
	}

	if bins < 0 {
		bins = 0
	}
	switch mode {
	case LevelAccumulate:
		binsize := float32(max-min) / float32(bins+1)
		if binsize <= 0 {
			levels = append(levels, math.Pow(10, min))
			break
		}
		for val := float32(min); val <= float32(max); val += binsize {
			levels = append(levels, math.Pow(10, float64(val)))
		}
	default:
		binsize := (max - min) / float64(bins+1)
		steps := bins + 1
		if binsize <= 0 {
			steps = 0
		}
		for k := 0; k <= steps; k++ {
			levels = append(levels, math.Pow(10, min+float64(k)*binsize))
		}
	}
	tracef("%s ladder over [%g, %g] with %d bins: %d levels", mode, min, max, bins, len(levels))
	return append(levels, 0)
}
