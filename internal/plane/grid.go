// Package plane samples a 2D slice through a scalar field and prepares it
// for colour mapping: log-like compression, auto-cropping to the non-empty
// region and isoline detection.
package plane

import (
	"gonum.org/v1/gonum/floats"
)

// Grid holds two parallel row-major rasters of the same size: the raw
// sampled values and their display (log-compressed) counterparts. Cell
// (col, row) lives at index row*Width + col in both slices.
type Grid struct {
	Width, Height int
	Value         []float32
	Display       []float32
}

// NewGrid allocates a zeroed width × height grid.
func NewGrid(width, height int) Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	n := width * height
	return Grid{
		Width:   width,
		Height:  height,
		Value:   make([]float32, n),
		Display: make([]float32, n),
	}
}

// Index returns the slice offset of cell (col, row).
func (g Grid) Index(col, row int) int {
	return row*g.Width + col
}

// ValueAt returns the raw sample at (col, row).
func (g Grid) ValueAt(col, row int) float32 {
	return g.Value[g.Index(col, row)]
}

// DisplayAt returns the compressed value at (col, row).
func (g Grid) DisplayAt(col, row int) float32 {
	return g.Display[g.Index(col, row)]
}

// Empty reports whether the grid has no cells.
func (g Grid) Empty() bool {
	return g.Width == 0 || g.Height == 0
}

// hasData reports whether any raw sample is non-zero.
func (g Grid) hasData() bool {
	for _, v := range g.Value {
		if v != 0 {
			return true
		}
	}
	return false
}

// Stats summarises the raw values of a grid.
type Stats struct {
	Min, Max, Mean float64
	NonZero        int
}

// Stats computes summary statistics over Value. An empty grid yields the
// zero Stats.
func (g Grid) Stats() Stats {
	if len(g.Value) == 0 {
		return Stats{}
	}
	vs := make([]float64, len(g.Value))
	nz := 0
	for i, v := range g.Value {
		vs[i] = float64(v)
		if v != 0 {
			nz++
		}
	}
	return Stats{
		Min:     floats.Min(vs),
		Max:     floats.Max(vs),
		Mean:    floats.Sum(vs) / float64(len(vs)),
		NonZero: nz,
	}
}
