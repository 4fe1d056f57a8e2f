package field

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Grid is a scalar field stored on a regular, possibly skewed, lattice of
// points origin + i*Voxel[0] + j*Voxel[1] + k*Voxel[2]. Values between
// lattice points are obtained by trilinear interpolation.
//
// Points outside the lattice sample as zero unless the grid is periodic,
// in which case indices wrap around each axis.
type Grid struct {
	Origin   r3.Vec
	Voxel    [3]r3.Vec
	N        [3]int
	Periodic bool

	// Data is indexed as (i*N[1]+j)*N[2]+k, i.e. the last axis varies fastest.
	Data []float32

	// reciprocal vectors scaled by 1/det, used to map world points to
	// fractional lattice coordinates.
	recip [3]r3.Vec
}

// NewGrid validates the lattice and prepares it for sampling.
func NewGrid(origin r3.Vec, voxel [3]r3.Vec, n [3]int, data []float32) (*Grid, error) {
	for a, v := range n {
		if v < 1 {
			return nil, fmt.Errorf("axis %d has %d points", a, v)
		}
	}
	if want := n[0] * n[1] * n[2]; len(data) != want {
		return nil, fmt.Errorf("grid data has %d values, want %d", len(data), want)
	}
	det := r3.Dot(voxel[0], r3.Cross(voxel[1], voxel[2]))
	if det == 0 || math.IsNaN(det) {
		return nil, fmt.Errorf("voxel vectors are degenerate (det=%g)", det)
	}
	g := &Grid{Origin: origin, Voxel: voxel, N: n, Data: data}
	g.recip[0] = r3.Scale(1/det, r3.Cross(voxel[1], voxel[2]))
	g.recip[1] = r3.Scale(1/det, r3.Cross(voxel[2], voxel[0]))
	g.recip[2] = r3.Scale(1/det, r3.Cross(voxel[0], voxel[1]))
	return g, nil
}

// At returns the stored value at lattice point (i, j, k).
func (g *Grid) At(i, j, k int) float32 {
	return g.Data[(i*g.N[1]+j)*g.N[2]+k]
}

// Sample implements Sampler.
func (g *Grid) Sample(x, y, z float64) float64 {
	d := r3.Sub(r3.Vec{X: x, Y: y, Z: z}, g.Origin)
	var (
		idx  [3]int
		frac [3]float64
	)
	for a := 0; a < 3; a++ {
		u := r3.Dot(d, g.recip[a])
		if g.Periodic {
			u = math.Mod(u, float64(g.N[a]))
			if u < 0 {
				u += float64(g.N[a])
			}
			// A tiny negative u rounds up to exactly N when shifted.
			if u >= float64(g.N[a]) {
				u = 0
			}
		} else if u < 0 || u > float64(g.N[a]-1) {
			return 0
		}
		f := math.Floor(u)
		idx[a] = int(f)
		frac[a] = u - f
	}

	var sum float64
	for c := 0; c < 8; c++ {
		w := 1.0
		var p [3]int
		for a := 0; a < 3; a++ {
			if c&(1<<a) != 0 {
				w *= frac[a]
				p[a] = g.next(a, idx[a])
			} else {
				w *= 1 - frac[a]
				p[a] = idx[a]
			}
		}
		if w == 0 {
			continue
		}
		sum += w * float64(g.At(p[0], p[1], p[2]))
	}
	return sum
}

// next returns the index after i on axis a, wrapping on periodic grids and
// clamping at the last point otherwise.
func (g *Grid) next(a, i int) int {
	i++
	if i < g.N[a] {
		return i
	}
	if g.Periodic {
		return 0
	}
	return g.N[a] - 1
}

// Scaled returns a copy of g sharing its data with all lengths multiplied
// by f, e.g. BohrToAngstrom.
func (g *Grid) Scaled(f float64) *Grid {
	var voxel [3]r3.Vec
	for a := range voxel {
		voxel[a] = r3.Scale(f, g.Voxel[a])
	}
	s, err := NewGrid(r3.Scale(f, g.Origin), voxel, g.N, g.Data)
	if err != nil {
		// Scaling a valid lattice by a non-zero factor keeps it valid.
		panic(err)
	}
	s.Periodic = g.Periodic
	return s
}
