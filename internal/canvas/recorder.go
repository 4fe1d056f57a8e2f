package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
)

// Op is one drawing call captured by a Recorder.
type Op struct {
	Kind       string // "fill-rect", "stroke-rect", "fill-circle", "stroke-circle", "line", "text"
	X, Y, W, H float64
	Color      color.Color
	Text       string
}

// Recorder is a Surface that records every call. Filled rectangles are
// also rasterised (snapped to whole pixels) so the result can be encoded;
// all other primitives are recorded only.
type Recorder struct {
	Ops []Op
	img *image.RGBA
}

// NewRecorder returns a Recorder of the given size painted with Background.
func NewRecorder(width, height int) *Recorder {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: Background}, image.Point{}, draw.Src)
	return &Recorder{img: img}
}

// Size implements Surface.
func (r *Recorder) Size() (int, int) {
	b := r.img.Bounds()
	return b.Dx(), b.Dy()
}

// Image returns the rasterised filled rectangles.
func (r *Recorder) Image() image.Image { return r.img }

// Count returns the number of recorded ops of the given kind.
func (r *Recorder) Count(kind string) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// FillRect implements Surface.
func (r *Recorder) FillRect(x, y, w, h float64, c color.Color) {
	r.Ops = append(r.Ops, Op{Kind: "fill-rect", X: x, Y: y, W: w, H: h, Color: c})
	rect := image.Rect(
		int(math.Floor(x)), int(math.Floor(y)),
		int(math.Ceil(x+w)), int(math.Ceil(y+h)),
	)
	draw.Draw(r.img, rect, &image.Uniform{C: c}, image.Point{}, draw.Src)
}

// StrokeRect implements Surface.
func (r *Recorder) StrokeRect(x, y, w, h float64, c color.Color, lineWidth float64) {
	r.Ops = append(r.Ops, Op{Kind: "stroke-rect", X: x, Y: y, W: w, H: h, Color: c})
}

// FillCircle implements Surface.
func (r *Recorder) FillCircle(cx, cy, rad float64, c color.Color) {
	r.Ops = append(r.Ops, Op{Kind: "fill-circle", X: cx, Y: cy, W: rad, H: rad, Color: c})
}

// StrokeCircle implements Surface.
func (r *Recorder) StrokeCircle(cx, cy, rad float64, c color.Color, lineWidth float64) {
	r.Ops = append(r.Ops, Op{Kind: "stroke-circle", X: cx, Y: cy, W: rad, H: rad, Color: c})
}

// Line implements Surface.
func (r *Recorder) Line(x0, y0, x1, y1 float64, c color.Color, lineWidth float64) {
	r.Ops = append(r.Ops, Op{Kind: "line", X: x0, Y: y0, W: x1 - x0, H: y1 - y0, Color: c})
}

// Text implements Surface.
func (r *Recorder) Text(x, y, size float64, c color.Color, s string) {
	r.Ops = append(r.Ops, Op{Kind: "text", X: x, Y: y, H: size, Color: c, Text: s})
}

// TextBounds implements Surface using the same metrics as Canvas.
func (r *Recorder) TextBounds(size float64, s string) Extents {
	return MeasureText(size, s)
}

// WritePNG implements Surface.
func (r *Recorder) WritePNG(w io.Writer) error {
	if err := png.Encode(w, r.img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
