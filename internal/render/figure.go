package render

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// figurePaletteSize is the number of colours the ramp is sampled into for
// the heat map.
const figurePaletteSize = 256

// planeXYZ exposes one raster of the grid to gonum/plot in world units
// relative to the plane origin. Y grows with the row index, so the figure
// shows V2 pointing up while the raw PNG has row 0 at the top.
type planeXYZ struct {
	w, h   int
	z      []float32
	x0, y0 float64
	step   float64
}

func (g planeXYZ) Dims() (c, r int)   { return g.w, g.h }
func (g planeXYZ) Z(c, r int) float64 { return float64(g.z[r*g.w+c]) }
func (g planeXYZ) X(c int) float64    { return g.x0 + float64(c)*g.step }
func (g planeXYZ) Y(r int) float64    { return g.y0 + float64(r)*g.step }

func (p *Projector) xyz(z []float32) planeXYZ {
	step := 1 / p.basis.Scale
	return planeXYZ{
		w:    p.grid.Width,
		h:    p.grid.Height,
		z:    z,
		x0:   float64(p.bounds.MinX-p.full[0]/2) * step,
		y0:   float64(p.bounds.MinY-p.full[1]/2) * step,
		step: step,
	}
}

// Figure builds an annotated plot of the current grid: a heat map of the
// display values with world-unit axes, overlaid with contours of the raw
// field at every isoline level drawn so far.
func (p *Projector) Figure(title string) (*plot.Plot, error) {
	if !p.hasGrid {
		return nil, ErrNotExtracted
	}
	if p.grid.Width < 2 || p.grid.Height < 2 {
		return nil, fmt.Errorf("figure needs at least a 2x2 grid, have %dx%d", p.grid.Width, p.grid.Height)
	}

	plt := plot.New()
	plt.Title.Text = title
	plt.X.Label.Text = "v1"
	plt.Y.Label.Text = "v2"

	hm := plotter.NewHeatMap(p.xyz(p.grid.Display), p.ramp.Palette(figurePaletteSize))
	hm.Min, hm.Max = p.ramp.Low(), p.ramp.High()
	stops := p.ramp.Stops()
	hm.Underflow = stops[0]
	hm.Overflow = stops[len(stops)-1]
	hm.Rasterized = true
	plt.Add(hm)

	if levels := p.Levels(); len(levels) > 0 {
		c := plotter.NewContour(p.xyz(p.grid.Value), levels, nil)
		c.Min, c.Max = math.Inf(-1), math.Inf(1)
		c.LineStyles[0].Color = color.Black
		c.LineStyles[0].Width = vg.Points(0.5)
		plt.Add(c)
	}
	return plt, nil
}

// WriteFigure renders Figure at the given size. The format follows the
// file extension (png, svg, pdf, eps, jpg or tiff).
func (p *Projector) WriteFigure(path string, width, height vg.Length, title string) error {
	plt, err := p.Figure(title)
	if err != nil {
		return err
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	wt, err := plt.WriterTo(width, height, format)
	if err != nil {
		return fmt.Errorf("failed to render figure: %w", err)
	}
	return writeTo(p.fs, path, func(w io.Writer) error {
		_, err := wt.WriteTo(w)
		return err
	})
}
