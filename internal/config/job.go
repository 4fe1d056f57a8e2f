// Package config loads planeview job files.
package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/planeview/internal/fsutil"
	"github.com/banshee-data/planeview/internal/palette"
	"github.com/banshee-data/planeview/internal/plane"
)

// ExampleConfigPath is the example job shipped with the repository.
const ExampleConfigPath = "config/job.example.json"

// maxFileSize bounds job files read from disk.
const maxFileSize = 1 * 1024 * 1024 // 1MB

// JobConfig describes one plane render. Every field is optional; the Get*
// methods supply defaults for anything the JSON leaves out, so partial
// configs are safe.
type JobConfig struct {
	// Field source
	Cube     *string `json:"cube,omitempty"`     // Gaussian cube file; empty renders the built-in demo field
	Angstrom *bool   `json:"angstrom,omitempty"` // convert Bohr cube lengths to Angstrom
	Periodic *bool   `json:"periodic,omitempty"` // wrap samples outside the cube lattice
	Negative *bool   `json:"negative,omitempty"` // signed log transform for fields with negative values
	Workers  *int    `json:"workers,omitempty"`  // extraction goroutines; 0 selects GOMAXPROCS

	// Plane
	V1     *[3]float64 `json:"v1,omitempty"`
	V2     *[3]float64 `json:"v2,omitempty"`
	Origin *[3]float64 `json:"origin,omitempty"`
	Scale  *float64    `json:"scale,omitempty"` // pixels per length unit
	LI     *float64    `json:"li,omitempty"`
	HI     *float64    `json:"hi,omitempty"`
	LJ     *float64    `json:"lj,omitempty"`
	HJ     *float64    `json:"hj,omitempty"`

	// Colouring
	Scheme        *string  `json:"scheme,omitempty"`         // built-in scheme name or id
	BrewerPalette *string  `json:"brewer_palette,omitempty"` // colorbrewer name, overrides scheme
	BrewerColors  *int     `json:"brewer_colors,omitempty"`
	Min           *float64 `json:"min,omitempty"` // log10 lower bound of the colour range
	Max           *float64 `json:"max,omitempty"`

	// Overlays
	Isolines  *bool   `json:"isolines,omitempty"`
	Bins      *int    `json:"bins,omitempty"`
	LevelMode *string `json:"level_mode,omitempty"` // "stepped" or "accumulate"
	Legend    *bool   `json:"legend,omitempty"`
	Unit      *string `json:"unit,omitempty"`

	// Outputs
	Output       *string  `json:"output,omitempty"`
	Figure       *string  `json:"figure,omitempty"`
	FigureWidth  *float64 `json:"figure_width,omitempty"` // inches
	FigureHeight *float64 `json:"figure_height,omitempty"`
	Manifest     *string  `json:"manifest,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyJobConfig returns a JobConfig with all fields set to nil.
func EmptyJobConfig() *JobConfig {
	return &JobConfig{}
}

// DefaultJobConfig returns a JobConfig with every field set to its default.
func DefaultJobConfig() *JobConfig {
	c := EmptyJobConfig()
	c.Cube = ptrString("")
	c.Angstrom = ptrBool(false)
	c.Periodic = ptrBool(false)
	c.Negative = ptrBool(false)
	c.Workers = ptrInt(0)
	v1, v2, origin := c.GetV1(), c.GetV2(), c.GetOrigin()
	c.V1 = &[3]float64{v1.X, v1.Y, v1.Z}
	c.V2 = &[3]float64{v2.X, v2.Y, v2.Z}
	c.Origin = &[3]float64{origin.X, origin.Y, origin.Z}
	c.Scale = ptrFloat64(c.GetScale())
	w := c.GetWindow()
	c.LI, c.HI, c.LJ, c.HJ = ptrFloat64(w.LI), ptrFloat64(w.HI), ptrFloat64(w.LJ), ptrFloat64(w.HJ)
	c.Scheme = ptrString(palette.Default.String())
	c.BrewerPalette = ptrString("")
	c.BrewerColors = ptrInt(c.GetBrewerColors())
	c.Min = ptrFloat64(c.GetMin())
	c.Max = ptrFloat64(c.GetMax())
	c.Isolines = ptrBool(false)
	c.Bins = ptrInt(c.GetBins())
	c.LevelMode = ptrString(plane.LevelStepped.String())
	c.Legend = ptrBool(false)
	c.Unit = ptrString(c.GetUnit())
	c.Output = ptrString(c.GetOutput())
	c.Figure = ptrString("")
	c.FigureWidth = ptrFloat64(c.GetFigureWidth())
	c.FigureHeight = ptrFloat64(c.GetFigureHeight())
	c.Manifest = ptrString("")
	return c
}

// LoadJobConfig loads a JobConfig from a JSON file on disk.
func LoadJobConfig(path string) (*JobConfig, error) {
	return LoadJobConfigFS(fsutil.OSFileSystem{}, path)
}

// LoadJobConfigFS loads a JobConfig through fsys.
// The file is validated to ensure it has a .json extension and is under the max file size.
func LoadJobConfigFS(fsys fsutil.FileSystem, path string) (*JobConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := fsys.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := fsys.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyJobConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *JobConfig) Validate() error {
	if c.Scale != nil && !(*c.Scale > 0) {
		return fmt.Errorf("scale must be positive, got %g", *c.Scale)
	}

	w := c.GetWindow()
	if !(w.HI > w.LI) {
		return fmt.Errorf("hi (%g) must be greater than li (%g)", w.HI, w.LI)
	}
	if !(w.HJ > w.LJ) {
		return fmt.Errorf("hj (%g) must be greater than lj (%g)", w.HJ, w.LJ)
	}

	if r3.Norm(c.GetV1()) == 0 {
		return fmt.Errorf("v1 must be non-zero")
	}
	if r3.Norm(c.GetV2()) == 0 {
		return fmt.Errorf("v2 must be non-zero")
	}

	if !(c.GetMax() > c.GetMin()) {
		return fmt.Errorf("max (%g) must be greater than min (%g)", c.GetMax(), c.GetMin())
	}

	if c.Bins != nil && *c.Bins < 0 {
		return fmt.Errorf("bins must be non-negative, got %d", *c.Bins)
	}
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}

	if c.Scheme != nil && *c.Scheme != "" {
		if _, err := palette.ParseScheme(*c.Scheme); err != nil {
			return fmt.Errorf("invalid scheme: %w", err)
		}
	}
	if c.BrewerColors != nil && *c.BrewerColors < 3 {
		return fmt.Errorf("brewer_colors must be at least 3, got %d", *c.BrewerColors)
	}
	if c.LevelMode != nil {
		if _, err := plane.ParseLevelMode(*c.LevelMode); err != nil {
			return fmt.Errorf("invalid level_mode: %w", err)
		}
	}

	if ext := strings.ToLower(filepath.Ext(c.GetOutput())); ext != ".png" {
		return fmt.Errorf("output must be a .png file, got %q", c.GetOutput())
	}
	if c.FigureWidth != nil && !(*c.FigureWidth > 0) {
		return fmt.Errorf("figure_width must be positive, got %g", *c.FigureWidth)
	}
	if c.FigureHeight != nil && !(*c.FigureHeight > 0) {
		return fmt.Errorf("figure_height must be positive, got %g", *c.FigureHeight)
	}

	return nil
}
