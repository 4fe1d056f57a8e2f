// Package canvas provides the raster drawing surface images are painted on.
//
// Coordinates are in pixels with the origin at the top-left corner and y
// growing downwards.
package canvas

import (
	"image/color"
	"io"
)

// Surface is a mutable 2D raster. A Surface is not safe for concurrent use.
type Surface interface {
	// Size returns the surface dimensions in pixels.
	Size() (width, height int)

	// FillRect paints the rectangle with top-left corner (x, y).
	FillRect(x, y, w, h float64, c color.Color)
	// StrokeRect outlines the rectangle with top-left corner (x, y).
	StrokeRect(x, y, w, h float64, c color.Color, lineWidth float64)

	FillCircle(cx, cy, r float64, c color.Color)
	StrokeCircle(cx, cy, r float64, c color.Color, lineWidth float64)

	// Line strokes a segment from (x0, y0) to (x1, y1).
	Line(x0, y0, x1, y1 float64, c color.Color, lineWidth float64)

	// Text draws s in the monospace face with its baseline starting at (x, y).
	Text(x, y, size float64, c color.Color, s string)
	// TextBounds measures s in the monospace face at the given size.
	TextBounds(size float64, s string) Extents

	// WritePNG encodes the surface as a PNG image.
	WritePNG(w io.Writer) error
}

// Extents describes the size of a run of text.
type Extents struct {
	Width  float64
	Height float64
	// Descent is the distance the text extends below its baseline.
	Descent float64
}
