package plane

import "fmt"

// Bounds is a half-open pixel window [MinX, MaxX) × [MinY, MaxY).
type Bounds struct {
	MinX, MaxX int
	MinY, MaxY int
}

// Width returns MaxX - MinX.
func (b Bounds) Width() int { return b.MaxX - b.MinX }

// Height returns MaxY - MinY.
func (b Bounds) Height() int { return b.MaxY - b.MinY }

func (b Bounds) String() string {
	return fmt.Sprintf("[%d:%d] x [%d:%d]", b.MinX, b.MaxX, b.MinY, b.MaxY)
}

// FindBounds returns the smallest window holding every sample of g.Value
// that is not exactly zero. When the grid holds no such sample the full
// extent is returned.
func FindBounds(g Grid) Bounds {
	b := Bounds{MaxX: g.Width, MaxY: g.Height}

	colHasData := func(i int) bool {
		found := false
		for j := 0; j < g.Height; j++ {
			if g.ValueAt(i, j) != 0 {
				found = true
			}
		}
		return found
	}
	rowHasData := func(j int) bool {
		found := false
		for _, v := range g.Value[j*g.Width : (j+1)*g.Width] {
			if v != 0 {
				found = true
			}
		}
		return found
	}

	for i := 0; i < g.Width; i++ {
		if colHasData(i) {
			b.MinX = i
			break
		}
	}
	for i := g.Width - 1; i >= 0; i-- {
		if colHasData(i) {
			b.MaxX = i + 1
			break
		}
	}
	for j := 0; j < g.Height; j++ {
		if rowHasData(j) {
			b.MinY = j
			break
		}
	}
	for j := g.Height - 1; j >= 0; j-- {
		if rowHasData(j) {
			b.MaxY = j + 1
			break
		}
	}
	return b
}

// Window copies the cells inside b into a newly allocated grid. b must lie
// within g.
func (g Grid) Window(b Bounds) Grid {
	out := NewGrid(b.Width(), b.Height())
	for j := 0; j < out.Height; j++ {
		src := g.Index(b.MinX, j+b.MinY)
		dst := j * out.Width
		copy(out.Value[dst:dst+out.Width], g.Value[src:src+out.Width])
		copy(out.Display[dst:dst+out.Width], g.Display[src:src+out.Width])
	}
	return out
}

// Crop trims g to the bounding box of its non-zero samples and returns the
// new grid together with the window it was cut from. The input grid is left
// untouched; callers replace their copy with the result.
func Crop(g Grid) (Grid, Bounds) {
	b := FindBounds(g)
	diagf("Recasting to %s", b)
	if b.MinX == 0 && b.MinY == 0 && b.MaxX == g.Width && b.MaxY == g.Height && !g.hasData() {
		opsf("plane holds no non-zero samples, keeping full %dx%d extent", g.Width, g.Height)
	}
	return g.Window(b), b
}
