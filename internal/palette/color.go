// Package palette maps scalar values to colours using piecewise-linear
// interpolation over a fixed set of reference colours.
package palette

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Color is an opaque 8-bit RGB triple.
type Color struct {
	R, G, B uint8
}

// Black is used for isolines and legend outlines.
var Black = Color{}

// NormR returns the red channel on the [0,1] interval.
func (c Color) NormR() float64 { return float64(c.R) / 255 }

// NormG returns the green channel on the [0,1] interval.
func (c Color) NormG() float64 { return float64(c.G) / 255 }

// NormB returns the blue channel on the [0,1] interval.
func (c Color) NormB() float64 { return float64(c.B) / 255 }

// RGBA implements image/color.Color. The colour is always fully opaque.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

// Hex returns the colour as six lowercase hex digits without a prefix.
func (c Color) Hex() string {
	return fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B)
}

// String implements fmt.Stringer.
func (c Color) String() string {
	return "#" + c.Hex()
}

// FromNormalized converts [0,1] channels back to 8 bit, rounding to the
// nearest integer and clamping out-of-range input.
func FromNormalized(r, g, b float64) Color {
	return Color{R: to8(r), G: to8(g), B: to8(b)}
}

func to8(v float64) uint8 {
	v = math.Round(v * 255)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// ParseHex decodes a six digit RGB hex string such as "2166ac".
// A leading "#" or "0x" is accepted.
func ParseHex(s string) (Color, error) {
	h := strings.TrimPrefix(s, "#")
	h = strings.TrimPrefix(strings.TrimPrefix(h, "0x"), "0X")
	if len(h) != 6 {
		return Color{}, fmt.Errorf("hex colour %q must have 6 digits", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// MustParseHex is like ParseHex but panics on malformed input. It is meant
// for the static palette tables.
func MustParseHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}
