package plane

import (
	"math"
	"runtime"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/planeview/internal/field"
)

// Basis positions the sampling plane in world space. V1 and V2 span the
// plane and are normalised before use; they are expected, not required, to
// be orthogonal. Scale is the number of pixels per world unit.
type Basis struct {
	V1, V2 r3.Vec
	Origin r3.Vec
	Scale  float64
}

// Window is the sampled extent along V1 ([LI, HI)) and V2 ([LJ, HJ)) in
// world units.
type Window struct {
	LI, HI float64
	LJ, HJ float64
}

// Size returns the pixel dimensions of w at the given scale.
func (w Window) Size(scale float64) (width, height int) {
	width = int(math.Round((w.HI - w.LI) * scale))
	height = int(math.Round((w.HJ - w.LJ) * scale))
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return width, height
}

type extractOptions struct {
	workers int
}

// ExtractOption configures Extract.
type ExtractOption func(*extractOptions)

// WithWorkers bounds the number of goroutines sampling rows. Values below
// one select runtime.GOMAXPROCS(0).
func WithWorkers(n int) ExtractOption {
	return func(o *extractOptions) { o.workers = n }
}

// Extract samples s over the plane described by b and w and returns the
// raw and display rasters. Pixel (i, j) samples the point
//
//	V1*(i - width/2)/Scale + V2*(j - height/2)/Scale + Origin
//
// where width/2 and height/2 are integer divisions, so the origin sits at
// the centre pixel of the raster. Extract does not crop; see Crop.
func Extract(s field.Sampler, b Basis, w Window, negative bool, opts ...ExtractOption) Grid {
	o := extractOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers < 1 {
		o.workers = runtime.GOMAXPROCS(0)
	}

	v1 := r3.Unit(b.V1)
	v2 := r3.Unit(b.V2)
	width, height := w.Size(b.Scale)
	diagf("Creating %dx%dpx image...", width, height)

	g := NewGrid(width, height)
	if g.Empty() {
		opsf("sampling window %+v at scale %g is empty", w, b.Scale)
		return g
	}

	cx, cy := width/2, height/2
	parallelRange(0, height, o.workers, func(j int) {
		dj := float64(j-cy) / b.Scale
		row := r3.Add(r3.Scale(dj, v2), b.Origin)
		base := j * width
		for i := 0; i < width; i++ {
			di := float64(i-cx) / b.Scale
			p := r3.Add(r3.Scale(di, v1), row)
			raw := float32(s.Sample(p.X, p.Y, p.Z))
			g.Value[base+i] = raw
			g.Display[base+i] = DisplayValue(float64(raw), negative)
		}
		tracef("sampled row %d", j)
	})
	return g
}
