package render

import (
	"fmt"

	"github.com/banshee-data/planeview/internal/palette"
)

// exponentRatio sizes the superscript exponent relative to the "10".
const exponentRatio = 20.0 / 32.0

// DrawLegend paints the unit label and one swatch per integer power of
// ten from max down to min along the right edge of the plot. Every length
// is derived from the pixel scale of the last extraction, so the legend
// stays proportional to the sampled window.
func (p *Projector) DrawLegend() error {
	if p.surface == nil {
		return ErrNotPlotted
	}
	s := p.surface
	ix := float64(p.grid.Width)

	size := p.basis.Scale
	fontsize := 28.0 / 100.0 * size
	offset := size / 10

	label := s.TextBounds(fontsize, p.unit)
	s.Text(ix-size/2-label.Width, size/2-label.Height/2, fontsize, palette.Black, p.unit)

	ten := s.TextBounds(fontsize, "10")
	exp := s.TextBounds(exponentRatio*fontsize, "00")

	swatches := 0
	yy := 0.0
	for val := p.max; val >= p.min; val-- {
		s.FillRect(ix-size, size/2+yy, size/2, size/2, p.ramp.Color(val))
		s.StrokeRect(ix-size, size/2+yy, size/2, size/2, palette.Black, 1)

		base := (yy + 0.75*size) + (ten.Height+exp.Height)/2
		s.Text(ix-size-(ten.Width+exp.Width)-offset, base, fontsize, palette.Black, "10")
		s.Text(ix-size-exp.Width-offset, base-ten.Height, exponentRatio*fontsize, palette.Black, exponentLabel(val))

		yy += size / 2
		swatches++
	}
	diagf("Legend: %d swatches at font size %.1f", swatches, fontsize)
	return nil
}

// exponentLabel formats an exponent with a leading space for
// non-negative values so positive and negative labels line up.
func exponentLabel(v float64) string {
	return fmt.Sprintf("% g", v)
}
