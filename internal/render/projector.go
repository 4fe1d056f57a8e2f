package render

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/banshee-data/planeview/internal/canvas"
	"github.com/banshee-data/planeview/internal/field"
	"github.com/banshee-data/planeview/internal/fsutil"
	"github.com/banshee-data/planeview/internal/palette"
	"github.com/banshee-data/planeview/internal/plane"
	"github.com/banshee-data/planeview/internal/timeutil"
)

// DefaultUnit labels the legend of electron density plots.
const DefaultUnit = "eV / A^3"

var (
	// ErrNotPlotted is returned by drawing and writing calls made before Plot.
	ErrNotPlotted = errors.New("plane has not been plotted")
	// ErrNotExtracted is returned when a plane is plotted before Extract.
	ErrNotExtracted = errors.New("plane has not been extracted")
)

// SurfaceFactory allocates the drawing surface for a plot.
type SurfaceFactory func(width, height int) (canvas.Surface, error)

func newCanvas(width, height int) (canvas.Surface, error) {
	return canvas.New(width, height, canvas.Background)
}

// Option configures a Projector.
type Option func(*Projector)

// WithWorkers bounds the extraction fan-out.
func WithWorkers(n int) Option {
	return func(p *Projector) { p.workers = n }
}

// WithLevelMode selects how positive isoline levels are stepped.
func WithLevelMode(m plane.LevelMode) Option {
	return func(p *Projector) { p.levelMode = m }
}

// WithFileSystem routes Write, WriteFigure and WriteManifest through fsys.
func WithFileSystem(fsys fsutil.FileSystem) Option {
	return func(p *Projector) { p.fs = fsys }
}

// WithSurfaceFactory replaces the gonum-backed canvas used by Plot.
func WithSurfaceFactory(f SurfaceFactory) Option {
	return func(p *Projector) { p.newSurface = f }
}

// WithUnit sets the legend unit label.
func WithUnit(unit string) Option {
	return func(p *Projector) { p.unit = unit }
}

// WithClock sets the clock used for manifest timestamps and extraction timing.
func WithClock(c timeutil.Clock) Option {
	return func(p *Projector) { p.clock = c }
}

// Projector runs one plane through extraction, cropping and painting. It
// owns its grid and surface and is not safe for concurrent use.
type Projector struct {
	sampler  field.Sampler
	min, max float64
	ramp     *palette.Ramp

	workers    int
	levelMode  plane.LevelMode
	fs         fsutil.FileSystem
	newSurface SurfaceFactory
	unit       string
	clock      timeutil.Clock

	basis    plane.Basis
	window   plane.Window
	negative bool
	// full is the pre-crop raster size; bounds locates the grid inside it.
	full    [2]int
	bounds  plane.Bounds
	grid    plane.Grid
	hasGrid bool

	surface canvas.Surface
	levels  []float64
}

// NewProjector returns a Projector sampling s and colouring values in
// [min, max] with ramp. A nil ramp selects the default scheme over
// [min, max].
func NewProjector(s field.Sampler, min, max float64, ramp *palette.Ramp, opts ...Option) *Projector {
	if ramp == nil {
		ramp = palette.NewRamp(min, max, palette.Default)
	}
	p := &Projector{
		sampler:    s,
		min:        min,
		max:        max,
		ramp:       ramp,
		fs:         fsutil.OSFileSystem{},
		newSurface: newCanvas,
		unit:       DefaultUnit,
		clock:      timeutil.RealClock{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Extract samples the plane and crops it to its non-zero region,
// replacing any previously extracted grid and discarding the surface.
func (p *Projector) Extract(b plane.Basis, w plane.Window, negative bool) {
	start := p.clock.Now()
	g := plane.Extract(p.sampler, b, w, negative, plane.WithWorkers(p.workers))
	p.full = [2]int{g.Width, g.Height}
	p.grid, p.bounds = plane.Crop(g)
	diagf("Extracted %dx%d px, kept %dx%d in %v", g.Width, g.Height, p.grid.Width, p.grid.Height, p.clock.Since(start))
	p.basis, p.window, p.negative = b, w, negative
	p.hasGrid = true
	p.surface = nil
	p.levels = nil
}

// Grid returns the current (cropped) grid.
func (p *Projector) Grid() plane.Grid { return p.grid }

// Bounds returns the crop window relative to the uncropped raster.
func (p *Projector) Bounds() plane.Bounds { return p.bounds }

// Surface returns the surface painted by Plot, or nil.
func (p *Projector) Surface() canvas.Surface { return p.surface }

// Ramp returns the colour ramp.
func (p *Projector) Ramp() *palette.Ramp { return p.ramp }

// Plot allocates a surface the size of the grid and paints every cell
// with the ramp colour of its display value.
func (p *Projector) Plot() error {
	if !p.hasGrid {
		return ErrNotExtracted
	}
	if p.grid.Empty() {
		return fmt.Errorf("cannot plot empty %dx%d grid", p.grid.Width, p.grid.Height)
	}
	s, err := p.newSurface(p.grid.Width, p.grid.Height)
	if err != nil {
		return fmt.Errorf("failed to allocate surface: %w", err)
	}
	for row := 0; row < p.grid.Height; row++ {
		for col := 0; col < p.grid.Width; col++ {
			c := p.ramp.Color(float64(p.grid.DisplayAt(col, row)))
			s.FillRect(float64(col), float64(row), 1, 1, c)
		}
	}
	p.surface = s
	p.levels = nil
	return nil
}

// DrawIsoline marks every interior pixel where the raw field crosses t
// with a black 1x1 square.
func (p *Projector) DrawIsoline(t float64) error {
	if p.surface == nil {
		return ErrNotPlotted
	}
	pts := p.grid.Crossings(float32(t))
	for _, pt := range pts {
		p.surface.FillRect(float64(pt.X), float64(pt.Y), 1, 1, palette.Black)
	}
	p.levels = append(p.levels, t)
	tracef("isoline %g: %d px", t, len(pts))
	return nil
}

// Isolines draws the full level ladder for the given bin count.
func (p *Projector) Isolines(bins int, negative bool) error {
	if p.surface == nil {
		return ErrNotPlotted
	}
	levels := plane.Levels(p.levelMode, bins, negative, p.min, p.max)
	diagf("Drawing %d isolines", len(levels))
	for _, t := range levels {
		if err := p.DrawIsoline(t); err != nil {
			return err
		}
	}
	return nil
}

// Levels returns the isoline thresholds drawn since the last Plot.
func (p *Projector) Levels() []float64 {
	return append([]float64(nil), p.levels...)
}

// Write encodes the surface as PNG at path. Only the .png extension is
// supported.
func (p *Projector) Write(path string) error {
	if p.surface == nil {
		return ErrNotPlotted
	}
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".png" {
		return fmt.Errorf("unsupported image format %q: only .png is written", ext)
	}
	return writeTo(p.fs, path, p.surface.WritePNG)
}

// writeTo creates path (and its parent directory) and streams encode into it.
func writeTo(fsys fsutil.FileSystem, path string, encode func(w io.Writer) error) (err error) {
	if err := fsutil.EnsureParent(fsys, path); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()
	if err := encode(f); err != nil {
		opsf("write %s failed: %v", path, err)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	diagf("Wrote %s", path)
	return nil
}
