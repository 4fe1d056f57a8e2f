package render

import (
	"bytes"
	"encoding/json"
	"image/color"
	"image/png"
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/planeview/internal/canvas"
	"github.com/banshee-data/planeview/internal/field"
	"github.com/banshee-data/planeview/internal/fsutil"
	"github.com/banshee-data/planeview/internal/palette"
	"github.com/banshee-data/planeview/internal/plane"
	"github.com/banshee-data/planeview/internal/timeutil"
)

func xyBasis(scale float64) plane.Basis {
	return plane.Basis{
		V1:    r3.Vec{X: 1},
		V2:    r3.Vec{Y: 1},
		Scale: scale,
	}
}

// recorderFactory returns a SurfaceFactory and a pointer to the last
// Recorder it handed out.
func recorderFactory() (SurfaceFactory, **canvas.Recorder) {
	var last *canvas.Recorder
	return func(w, h int) (canvas.Surface, error) {
		last = canvas.NewRecorder(w, h)
		return last, nil
	}, &last
}

// patch is 5 on the 2x2 block x, y in [-1, 0] and zero elsewhere.
var patch = field.Func(func(x, y, z float64) float64 {
	if x >= -1 && x <= 0 && y >= -1 && y <= 0 {
		return 5
	}
	return 0
})

// ramp10 is x + 10, strictly positive over [-5, 5].
var ramp10 = field.Func(func(x, y, z float64) float64 { return x + 10 })

func rgba(c color.Color) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}

func TestProjectorExtractCropsToPatch(t *testing.T) {
	t.Parallel()

	p := NewProjector(patch, -5, 1, nil, WithWorkers(2))
	p.Extract(xyBasis(1), plane.Window{LI: -2, HI: 2, LJ: -2, HJ: 2}, false)

	g := p.Grid()
	assert.Equal(t, 2, g.Width)
	assert.Equal(t, 2, g.Height)
	assert.Equal(t, plane.Bounds{MinX: 1, MaxX: 3, MinY: 1, MaxY: 3}, p.Bounds())
	assert.Equal(t, []float32{5, 5, 5, 5}, g.Value)
}

func TestProjectorOrderErrors(t *testing.T) {
	t.Parallel()

	p := NewProjector(ramp10, -5, 1, nil)
	assert.ErrorIs(t, p.Plot(), ErrNotExtracted)
	assert.ErrorIs(t, p.DrawIsoline(1), ErrNotPlotted)
	assert.ErrorIs(t, p.Isolines(3, false), ErrNotPlotted)
	assert.ErrorIs(t, p.DrawLegend(), ErrNotPlotted)
	assert.ErrorIs(t, p.Write("out.png"), ErrNotPlotted)

	_, err := p.Figure("x")
	assert.ErrorIs(t, err, ErrNotExtracted)

	p.Extract(xyBasis(1), plane.Window{}, false)
	assert.Error(t, p.Plot(), "empty grid cannot be plotted")
}

func TestProjectorPlotPaintsEveryCell(t *testing.T) {
	t.Parallel()

	factory, rec := recorderFactory()
	ramp := palette.NewRamp(0, 2, palette.RdBu)
	p := NewProjector(ramp10, 0, 2, ramp, WithSurfaceFactory(factory))
	p.Extract(xyBasis(1), plane.Window{LI: -5, HI: 5, LJ: -3, HJ: 3}, false)
	require.NoError(t, p.Plot())

	g := p.Grid()
	r := *rec
	require.NotNil(t, r)
	assert.Same(t, r, p.Surface())
	assert.Equal(t, g.Width*g.Height, r.Count("fill-rect"))

	w, h := r.Size()
	assert.Equal(t, g.Width, w)
	assert.Equal(t, g.Height, h)
	for _, pt := range [][2]int{{0, 0}, {3, 2}, {g.Width - 1, g.Height - 1}} {
		want := ramp.Color(float64(g.DisplayAt(pt[0], pt[1])))
		assert.Equal(t, rgba(want), rgba(r.Image().At(pt[0], pt[1])), "pixel %v", pt)
	}
}

func TestProjectorDrawIsoline(t *testing.T) {
	t.Parallel()

	factory, rec := recorderFactory()
	p := NewProjector(ramp10, -5, 1, nil, WithSurfaceFactory(factory))
	p.Extract(xyBasis(1), plane.Window{LI: -5, HI: 5, LJ: -5, HJ: 5}, false)
	require.NoError(t, p.Plot())
	before := (*rec).Count("fill-rect")

	// Column c holds c+5; the horizontal pair around columns 4 and 5
	// straddles 9.5 on each of the 8 interior rows.
	require.NoError(t, p.DrawIsoline(9.5))

	r := *rec
	assert.Equal(t, 16, r.Count("fill-rect")-before)
	assert.Equal(t, rgba(palette.Black), rgba(r.Image().At(4, 1)))
	assert.Equal(t, rgba(palette.Black), rgba(r.Image().At(5, 8)))
	assert.NotEqual(t, rgba(palette.Black), rgba(r.Image().At(4, 0)), "border row is never marked")
	assert.Equal(t, []float64{9.5}, p.Levels())
}

func TestProjectorIsolines(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name     string
		mode     plane.LevelMode
		negative bool
	}{
		{"stepped", plane.LevelStepped, false},
		{"accumulate", plane.LevelAccumulate, false},
		{"negative", plane.LevelStepped, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			factory, _ := recorderFactory()
			p := NewProjector(ramp10, 0, 1.2, nil, WithSurfaceFactory(factory), WithLevelMode(tc.mode))
			p.Extract(xyBasis(1), plane.Window{LI: -5, HI: 5, LJ: -5, HJ: 5}, tc.negative)
			require.NoError(t, p.Plot())
			require.NoError(t, p.Isolines(5, tc.negative))

			want := plane.Levels(tc.mode, 5, tc.negative, 0, 1.2)
			if diff := cmp.Diff(want, p.Levels()); diff != "" {
				t.Errorf("levels mismatch (-want +got):\n%s", diff)
			}

			require.NoError(t, p.Plot())
			assert.Empty(t, p.Levels(), "Plot starts a fresh image")
		})
	}
}

func TestProjectorDrawLegend(t *testing.T) {
	t.Parallel()

	factory, rec := recorderFactory()
	p := NewProjector(ramp10, -2, 1, nil, WithSurfaceFactory(factory), WithUnit("e/A^3"))
	p.Extract(xyBasis(10), plane.Window{LI: -5, HI: 5, LJ: -5, HJ: 5}, false)
	require.NoError(t, p.Plot())
	r := *rec
	base := len(r.Ops)

	require.NoError(t, p.DrawLegend())
	ops := r.Ops[base:]

	var texts []string
	var swatches []canvas.Op
	for _, op := range ops {
		switch op.Kind {
		case "text":
			texts = append(texts, op.Text)
		case "fill-rect":
			swatches = append(swatches, op)
		}
	}
	assert.Equal(t, []string{"e/A^3", "10", " 1", "10", " 0", "10", "-1", "10", "-2"}, texts)
	require.Len(t, swatches, 4)
	assert.Equal(t, 4, countKind(ops, "stroke-rect"))

	ix := float64(p.Grid().Width)
	for k, sw := range swatches {
		assert.InDelta(t, ix-10, sw.X, 1e-9)
		assert.InDelta(t, 5+5*float64(k), sw.Y, 1e-9)
		assert.InDelta(t, 5, sw.W, 1e-9)
		assert.InDelta(t, 5, sw.H, 1e-9)
	}
	assert.Equal(t, p.Ramp().Color(1), swatches[0].Color)
	assert.Equal(t, p.Ramp().Color(-2), swatches[3].Color)
}

func TestExponentLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, " 1", exponentLabel(1))
	assert.Equal(t, " 0", exponentLabel(0))
	assert.Equal(t, "-5", exponentLabel(-5))
	assert.Equal(t, " 0.5", exponentLabel(0.5))
}

func TestProjectorWrite(t *testing.T) {
	t.Parallel()

	mfs := fsutil.NewMemoryFileSystem()
	factory, _ := recorderFactory()
	p := NewProjector(ramp10, -5, 1, nil, WithSurfaceFactory(factory), WithFileSystem(mfs))
	p.Extract(xyBasis(1), plane.Window{LI: -4, HI: 4, LJ: -3, HJ: 3}, false)
	require.NoError(t, p.Plot())

	err := p.Write("out/plane.jpg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only .png")
	assert.False(t, mfs.Exists("out/plane.jpg"))

	require.NoError(t, p.Write("out/plane.PNG"))
	assert.True(t, mfs.HasDir("out"))

	data, err := mfs.ReadFile("out/plane.PNG")
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Width)
	assert.Equal(t, 6, cfg.Height)
}

func TestProjectorEndToEndCanvas(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ramp := palette.NewRamp(0, 2, palette.YlGnBu)
	p := NewProjector(ramp10, 0, 2, ramp)
	p.Extract(xyBasis(2), plane.Window{LI: -3, HI: 3, LJ: -2, HJ: 2}, false)
	require.NoError(t, p.Plot())
	require.NoError(t, p.Isolines(3, false))

	path := filepath.Join(dir, "plane.png")
	require.NoError(t, p.Write(path))

	data, err := fsutil.OSFileSystem{}.ReadFile(path)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	g := p.Grid()
	assert.Equal(t, g.Width, img.Bounds().Dx())
	assert.Equal(t, g.Height, img.Bounds().Dy())
	assert.Equal(t, rgba(ramp.Color(float64(g.DisplayAt(0, 0)))), rgba(img.At(0, 0)))
}

func TestProjectorFigure(t *testing.T) {
	t.Parallel()

	mfs := fsutil.NewMemoryFileSystem()
	factory, _ := recorderFactory()
	p := NewProjector(ramp10, 0, 1.2, nil, WithSurfaceFactory(factory), WithFileSystem(mfs))
	p.Extract(xyBasis(2), plane.Window{LI: -5, HI: 5, LJ: -5, HJ: 5}, false)
	require.NoError(t, p.Plot())
	require.NoError(t, p.Isolines(2, false))

	plt, err := p.Figure("density")
	require.NoError(t, err)
	assert.Equal(t, "density", plt.Title.Text)

	require.NoError(t, p.WriteFigure("fig/plane.png", 4*vg.Inch, 3*vg.Inch, "density"))
	data, err := mfs.ReadFile("fig/plane.png")
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Greater(t, cfg.Width, cfg.Height)

	require.NoError(t, p.WriteFigure("fig/plane.svg", 4*vg.Inch, 3*vg.Inch, "density"))
	svg, err := mfs.ReadFile("fig/plane.svg")
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(svg), "<svg"))

	assert.Error(t, p.WriteFigure("fig/plane.bmp", 4*vg.Inch, 3*vg.Inch, ""))
}

func TestProjectorFigureAxes(t *testing.T) {
	t.Parallel()

	p := NewProjector(patch, -5, 1, nil)
	p.Extract(xyBasis(1), plane.Window{LI: -2, HI: 2, LJ: -2, HJ: 2}, false)

	// The 2x2 patch was cut from columns and rows [1, 3) of a 4x4 raster
	// centred on pixel 2, so it spans world coordinates -1 and 0.
	xyz := p.xyz(p.Grid().Value)
	c, r := xyz.Dims()
	assert.Equal(t, 2, c)
	assert.Equal(t, 2, r)
	assert.Equal(t, -1.0, xyz.X(0))
	assert.Equal(t, 0.0, xyz.X(1))
	assert.Equal(t, -1.0, xyz.Y(0))
	assert.Equal(t, 5.0, xyz.Z(1, 1))

	p.Extract(xyBasis(1), plane.Window{LI: -2, HI: 2, LJ: 0, HJ: 1}, false)
	_, err := p.Figure("")
	assert.Error(t, err, "a single row cannot be contoured")
}

func TestProjectorManifest(t *testing.T) {
	t.Parallel()

	mfs := fsutil.NewMemoryFileSystem()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	p := NewProjector(patch, -5, 1, nil,
		WithFileSystem(mfs),
		WithClock(timeutil.NewMockClock(at)),
		WithSurfaceFactory(func(w, h int) (canvas.Surface, error) { return canvas.NewRecorder(w, h), nil }),
	)
	b := xyBasis(1)
	b.Origin = r3.Vec{Z: 0.5}
	p.Extract(b, plane.Window{LI: -2, HI: 2, LJ: -2, HJ: 2}, false)
	require.NoError(t, p.Plot())
	require.NoError(t, p.DrawIsoline(1))

	m := p.Manifest("plane.png")
	m.Scheme = palette.RdBu.String()
	require.NoError(t, p.WriteManifest("plane.json", m))

	data, err := mfs.ReadFile("plane.json")
	require.NoError(t, err)

	var got Manifest
	require.NoError(t, json.Unmarshal(data, &got))

	_, err = uuid.Parse(got.RunID)
	assert.NoError(t, err)
	assert.True(t, at.Equal(got.CreatedAt))

	want := Manifest{
		RunID:     got.RunID,
		Version:   m.Version,
		GitSHA:    m.GitSHA,
		CreatedAt: got.CreatedAt,
		Image:     "plane.png",
		Scheme:    "rdbu",
		Width:     2,
		Height:    2,
		Crop:      CropWindow{MinX: 1, MaxX: 3, MinY: 1, MaxY: 3, FullWidth: 4, FullHeight: 4},
		Origin:    [3]float64{0, 0, 0.5},
		V1:        [3]float64{1, 0, 0},
		V2:        [3]float64{0, 1, 0},
		Scale:     1,
		Min:       -5,
		Max:       1,
		Levels:    []float64{1},
		Stats:     Stats{Min: 5, Max: 5, Mean: 5, NonZero: 4},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("manifest mismatch (-want +got):\n%s", diff)
	}
}

func TestLegendScalesWithFont(t *testing.T) {
	t.Parallel()

	// Text extents come from the monospace face, so the "10" label sits
	// further left than the exponent.
	factory, rec := recorderFactory()
	p := NewProjector(ramp10, 0, 0, nil, WithSurfaceFactory(factory))
	p.Extract(xyBasis(20), plane.Window{LI: -2, HI: 2, LJ: -2, HJ: 2}, false)
	require.NoError(t, p.Plot())
	require.NoError(t, p.DrawLegend())

	var xs []float64
	for _, op := range (*rec).Ops {
		if op.Kind == "text" {
			xs = append(xs, op.X)
		}
	}
	require.Len(t, xs, 3)
	assert.Less(t, xs[1], xs[2])
	assert.False(t, math.IsNaN(xs[0]))
}

func countKind(ops []canvas.Op, kind string) int {
	n := 0
	for _, op := range ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}
