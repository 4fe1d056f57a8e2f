package config

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/planeview/internal/palette"
	"github.com/banshee-data/planeview/internal/plane"
	"github.com/banshee-data/planeview/internal/render"
)

func vec(p *[3]float64, def r3.Vec) r3.Vec {
	if p == nil {
		return def
	}
	return r3.Vec{X: p[0], Y: p[1], Z: p[2]}
}

func getFloat(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func getString(p *string, def string) string {
	if p == nil || *p == "" {
		return def
	}
	return *p
}

func getBool(p *bool) bool {
	return p != nil && *p
}

// GetCube returns the cube file path, or "" for the demo field.
func (c *JobConfig) GetCube() string { return getString(c.Cube, "") }

// GetAngstrom returns the angstrom value or the default (false).
func (c *JobConfig) GetAngstrom() bool { return getBool(c.Angstrom) }

// GetPeriodic returns the periodic value or the default (false).
func (c *JobConfig) GetPeriodic() bool { return getBool(c.Periodic) }

// GetNegative returns the negative value or the default (false).
func (c *JobConfig) GetNegative() bool { return getBool(c.Negative) }

// GetWorkers returns the worker count; 0 lets extraction pick.
func (c *JobConfig) GetWorkers() int {
	if c.Workers == nil {
		return 0 // default
	}
	return *c.Workers
}

// GetV1 returns the first plane vector, default +x.
func (c *JobConfig) GetV1() r3.Vec { return vec(c.V1, r3.Vec{X: 1}) }

// GetV2 returns the second plane vector, default +y.
func (c *JobConfig) GetV2() r3.Vec { return vec(c.V2, r3.Vec{Y: 1}) }

// GetOrigin returns the plane origin, default the world origin.
func (c *JobConfig) GetOrigin() r3.Vec { return vec(c.Origin, r3.Vec{}) }

// GetScale returns the pixels per length unit.
func (c *JobConfig) GetScale() float64 { return getFloat(c.Scale, 100) }

// GetWindow returns the sampling window, default [-5, 5] on both axes.
func (c *JobConfig) GetWindow() plane.Window {
	return plane.Window{
		LI: getFloat(c.LI, -5),
		HI: getFloat(c.HI, 5),
		LJ: getFloat(c.LJ, -5),
		HJ: getFloat(c.HJ, 5),
	}
}

// GetBasis assembles the plane basis.
func (c *JobConfig) GetBasis() plane.Basis {
	return plane.Basis{
		V1:     c.GetV1(),
		V2:     c.GetV2(),
		Origin: c.GetOrigin(),
		Scale:  c.GetScale(),
	}
}

// GetScheme returns the built-in scheme. Unparseable values fall back to
// palette.Default; Validate reports them.
func (c *JobConfig) GetScheme() palette.Scheme {
	if c.Scheme == nil || *c.Scheme == "" {
		return palette.Default
	}
	s, err := palette.ParseScheme(*c.Scheme)
	if err != nil {
		return palette.Default
	}
	return s.Resolve()
}

// GetBrewerPalette returns the colorbrewer palette name, or "".
func (c *JobConfig) GetBrewerPalette() string { return getString(c.BrewerPalette, "") }

// GetBrewerColors returns the number of colorbrewer colours to load.
func (c *JobConfig) GetBrewerColors() int {
	if c.BrewerColors == nil {
		return 9 // default
	}
	return *c.BrewerColors
}

// GetMin returns the lower colour bound in log10 units.
func (c *JobConfig) GetMin() float64 { return getFloat(c.Min, -5) }

// GetMax returns the upper colour bound in log10 units.
func (c *JobConfig) GetMax() float64 { return getFloat(c.Max, 1) }

// GetIsolines returns the isolines value or the default (false).
func (c *JobConfig) GetIsolines() bool { return getBool(c.Isolines) }

// GetBins returns the isoline bin count.
func (c *JobConfig) GetBins() int {
	if c.Bins == nil {
		return 5 // default
	}
	return *c.Bins
}

// GetLevelMode returns the isoline stepping mode, default stepped.
func (c *JobConfig) GetLevelMode() plane.LevelMode {
	if c.LevelMode == nil {
		return plane.LevelStepped
	}
	m, err := plane.ParseLevelMode(*c.LevelMode)
	if err != nil {
		return plane.LevelStepped // default on parse error
	}
	return m
}

// GetLegend returns the legend value or the default (false).
func (c *JobConfig) GetLegend() bool { return getBool(c.Legend) }

// GetUnit returns the legend unit label, default render.DefaultUnit.
func (c *JobConfig) GetUnit() string { return getString(c.Unit, render.DefaultUnit) }

// GetOutput returns the PNG output path.
func (c *JobConfig) GetOutput() string { return getString(c.Output, "plane.png") }

// GetFigure returns the annotated figure path, or "" to skip it.
func (c *JobConfig) GetFigure() string { return getString(c.Figure, "") }

// GetFigureWidth returns the figure width in inches.
func (c *JobConfig) GetFigureWidth() float64 { return getFloat(c.FigureWidth, 6) }

// GetFigureHeight returns the figure height in inches.
func (c *JobConfig) GetFigureHeight() float64 { return getFloat(c.FigureHeight, 5) }

// GetManifest returns the manifest path, or "" to skip it.
func (c *JobConfig) GetManifest() string { return getString(c.Manifest, "") }

// Ramp builds the colour ramp over [min, max]. A colorbrewer palette, when
// named, takes precedence over the built-in scheme.
func (c *JobConfig) Ramp() (*palette.Ramp, error) {
	name := c.GetBrewerPalette()
	if name == "" {
		return palette.NewRamp(c.GetMin(), c.GetMax(), c.GetScheme()), nil
	}
	colors, err := palette.BrewerColors(name, c.GetBrewerColors())
	if err != nil {
		return nil, fmt.Errorf("failed to load brewer palette: %w", err)
	}
	return palette.NewRampColors(c.GetMin(), c.GetMax(), colors)
}

// SchemeName names the palette Ramp will use, for manifests and logs.
func (c *JobConfig) SchemeName() string {
	if name := c.GetBrewerPalette(); name != "" {
		return fmt.Sprintf("%s-%d", name, c.GetBrewerColors())
	}
	return c.GetScheme().String()
}
