package canvas

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/font/liberation"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/vgimg"
)

// Background is the default canvas colour.
var Background = color.RGBA{R: 255, G: 252, B: 213, A: 255}

// MonoFont is the face used for all text.
var MonoFont = font.Font{Typeface: "Liberation", Variant: "Mono"}

var fonts = font.NewCache(liberation.Collection())

// dpi makes one vg point map onto one pixel.
const dpi = 72

// Canvas is a Surface backed by a gonum vgimg canvas.
type Canvas struct {
	c    *vgimg.Canvas
	w, h int
}

// New allocates a width × height canvas filled with bg. A nil bg selects
// Background.
func New(width, height int, bg color.Color) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("canvas size %dx%d must be positive", width, height)
	}
	if bg == nil {
		bg = Background
	}
	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(width), vg.Length(height)),
		vgimg.UseDPI(dpi),
		vgimg.UseBackgroundColor(bg),
	)
	return &Canvas{c: c, w: width, h: height}, nil
}

// Size implements Surface.
func (c *Canvas) Size() (int, int) { return c.w, c.h }

// Image returns the underlying raster.
func (c *Canvas) Image() image.Image { return c.c.Image() }

// pt flips a top-down pixel coordinate into vg space.
func (c *Canvas) pt(x, y float64) vg.Point {
	return vg.Point{X: vg.Length(x), Y: vg.Length(float64(c.h) - y)}
}

func (c *Canvas) rect(x, y, w, h float64) vg.Path {
	var p vg.Path
	p.Move(c.pt(x, y))
	p.Line(c.pt(x+w, y))
	p.Line(c.pt(x+w, y+h))
	p.Line(c.pt(x, y+h))
	p.Close()
	return p
}

func (c *Canvas) circle(cx, cy, r float64) vg.Path {
	var p vg.Path
	p.Move(c.pt(cx+r, cy))
	p.Arc(c.pt(cx, cy), vg.Length(r), 0, 2*math.Pi)
	p.Close()
	return p
}

// FillRect implements Surface.
func (c *Canvas) FillRect(x, y, w, h float64, col color.Color) {
	c.c.SetColor(col)
	c.c.Fill(c.rect(x, y, w, h))
}

// StrokeRect implements Surface.
func (c *Canvas) StrokeRect(x, y, w, h float64, col color.Color, lineWidth float64) {
	c.c.SetColor(col)
	c.c.SetLineWidth(vg.Length(lineWidth))
	c.c.Stroke(c.rect(x, y, w, h))
}

// FillCircle implements Surface.
func (c *Canvas) FillCircle(cx, cy, r float64, col color.Color) {
	c.c.SetColor(col)
	c.c.Fill(c.circle(cx, cy, r))
}

// StrokeCircle implements Surface.
func (c *Canvas) StrokeCircle(cx, cy, r float64, col color.Color, lineWidth float64) {
	c.c.SetColor(col)
	c.c.SetLineWidth(vg.Length(lineWidth))
	c.c.Stroke(c.circle(cx, cy, r))
}

// Line implements Surface.
func (c *Canvas) Line(x0, y0, x1, y1 float64, col color.Color, lineWidth float64) {
	var p vg.Path
	p.Move(c.pt(x0, y0))
	p.Line(c.pt(x1, y1))
	c.c.SetColor(col)
	c.c.SetLineWidth(vg.Length(lineWidth))
	c.c.Stroke(p)
}

// Text implements Surface.
func (c *Canvas) Text(x, y, size float64, col color.Color, s string) {
	if size <= 0 || s == "" {
		return
	}
	c.c.SetColor(col)
	c.c.FillString(fonts.Lookup(MonoFont, vg.Length(size)), c.pt(x, y), s)
}

// TextBounds implements Surface. Height is the ascent of the face.
func (c *Canvas) TextBounds(size float64, s string) Extents {
	return MeasureText(size, s)
}

// MeasureText returns the extents of s in MonoFont at the given size.
func MeasureText(size float64, s string) Extents {
	if size <= 0 {
		return Extents{}
	}
	face := fonts.Lookup(MonoFont, vg.Length(size))
	ext := face.Extents()
	return Extents{
		Width:   float64(face.Width(s)),
		Height:  float64(ext.Ascent),
		Descent: float64(ext.Descent),
	}
}

// WritePNG implements Surface.
func (c *Canvas) WritePNG(w io.Writer) error {
	if _, err := (vgimg.PngCanvas{Canvas: c.c}).WriteTo(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
