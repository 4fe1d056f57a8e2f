package palette

import (
	"fmt"
	"image/color"
	"math"

	gonumpalette "gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/brewer"
)

// Ramp maps values on [Low, High] onto a piecewise-linear colour gradient.
// Values outside the interval saturate to the first or last colour.
type Ramp struct {
	low, high float64
	colors    []Color
}

// NewRamp builds a ramp over [low, high] from a built-in palette. Unknown
// schemes fall back to Default without error.
func NewRamp(low, high float64, s Scheme) *Ramp {
	return &Ramp{low: low, high: high, colors: s.Colors()}
}

// NewRampColors builds a ramp from an explicit colour list. At least two
// colours are required.
func NewRampColors(low, high float64, colors []Color) (*Ramp, error) {
	if len(colors) < 2 {
		return nil, fmt.Errorf("palette needs at least 2 colours, got %d", len(colors))
	}
	if !(low < high) {
		return nil, fmt.Errorf("palette range low (%g) must be below high (%g)", low, high)
	}
	cs := make([]Color, len(colors))
	copy(cs, colors)
	return &Ramp{low: low, high: high, colors: cs}, nil
}

// Low returns the lower bound of the ramp.
func (r *Ramp) Low() float64 { return r.low }

// High returns the upper bound of the ramp.
func (r *Ramp) High() float64 { return r.high }

// Len returns the number of reference colours.
func (r *Ramp) Len() int { return len(r.colors) }

// Stops returns a copy of the reference colours.
func (r *Ramp) Stops() []Color {
	out := make([]Color, len(r.colors))
	copy(out, r.colors)
	return out
}

// Color returns the interpolated colour for v.
func (r *Ramp) Color(v float64) Color {
	n := len(r.colors)
	if v > r.high {
		return r.colors[n-1]
	}
	if v < r.low || r.high <= r.low || math.IsNaN(v) {
		return r.colors[0]
	}

	binsize := (r.high - r.low) / float64(n-1)
	bin := int(math.Floor((v - r.low) / binsize))
	// v == high lands one past the last bin.
	if bin > n-2 {
		bin = n - 2
	}
	residual := (v - r.low - float64(bin)*binsize) / binsize

	lo, hi := r.colors[bin], r.colors[bin+1]
	return FromNormalized(
		residual*hi.NormR()+(1-residual)*lo.NormR(),
		residual*hi.NormG()+(1-residual)*lo.NormG(),
		residual*hi.NormB()+(1-residual)*lo.NormB(),
	)
}

// Palette samples the ramp at n evenly spaced values from Low to High and
// returns them as a gonum palette, for use with gonum/plot plotters.
func (r *Ramp) Palette(n int) gonumpalette.Palette {
	if n < 2 {
		n = 2
	}
	cs := make(sampled, n)
	step := (r.high - r.low) / float64(n-1)
	for i := range cs {
		cs[i] = r.Color(r.low + float64(i)*step)
	}
	// Guard against the last step drifting above High.
	cs[n-1] = r.colors[len(r.colors)-1]
	return cs
}

type sampled []color.Color

func (s sampled) Colors() []color.Color { return s }

// BrewerColors loads an n-colour palette by colorbrewer name (for example
// "Spectral" or "RdBu") from gonum's brewer tables.
func BrewerColors(name string, n int) ([]Color, error) {
	p, err := brewer.GetPalette(brewer.TypeAny, name, n)
	if err != nil {
		return nil, fmt.Errorf("brewer palette %s/%d: %w", name, n, err)
	}
	src := p.Colors()
	out := make([]Color, len(src))
	for i, c := range src {
		out[i] = fromStd(c)
	}
	return out, nil
}

func fromStd(c color.Color) Color {
	r, g, b, _ := c.RGBA()
	return Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
}
