package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/planeview/internal/fsutil"
	"github.com/banshee-data/planeview/internal/palette"
	"github.com/banshee-data/planeview/internal/plane"
	"github.com/banshee-data/planeview/internal/render"
)

func TestDefaultJobConfig(t *testing.T) {
	cfg := DefaultJobConfig()
	require.NoError(t, cfg.Validate())

	// Test that defaults are set via pointers
	if cfg.Scale == nil || *cfg.Scale != 100 {
		t.Errorf("Expected Scale 100, got %v", cfg.Scale)
	}
	if cfg.Bins == nil || *cfg.Bins != 5 {
		t.Errorf("Expected Bins 5, got %v", cfg.Bins)
	}
	if cfg.Scheme == nil || *cfg.Scheme != "rdbu" {
		t.Errorf("Expected Scheme rdbu, got %v", cfg.Scheme)
	}
	if cfg.LevelMode == nil || *cfg.LevelMode != "stepped" {
		t.Errorf("Expected LevelMode stepped, got %v", cfg.LevelMode)
	}

	// A fully populated default config reads back the same as an empty one.
	empty := EmptyJobConfig()
	assert.Equal(t, empty.GetBasis(), cfg.GetBasis())
	assert.Equal(t, empty.GetWindow(), cfg.GetWindow())
	assert.Equal(t, empty.GetOutput(), cfg.GetOutput())
	assert.Equal(t, empty.GetUnit(), cfg.GetUnit())
	assert.Equal(t, empty.GetScheme(), cfg.GetScheme())
}

func TestGetterDefaults(t *testing.T) {
	cfg := EmptyJobConfig()

	assert.Equal(t, "", cfg.GetCube())
	assert.False(t, cfg.GetAngstrom())
	assert.False(t, cfg.GetPeriodic())
	assert.False(t, cfg.GetNegative())
	assert.Equal(t, 0, cfg.GetWorkers())
	assert.Equal(t, plane.Basis{V1: r3.Vec{X: 1}, V2: r3.Vec{Y: 1}, Scale: 100}, cfg.GetBasis())
	assert.Equal(t, plane.Window{LI: -5, HI: 5, LJ: -5, HJ: 5}, cfg.GetWindow())
	assert.Equal(t, palette.RdBu, cfg.GetScheme())
	assert.Equal(t, 9, cfg.GetBrewerColors())
	assert.Equal(t, -5.0, cfg.GetMin())
	assert.Equal(t, 1.0, cfg.GetMax())
	assert.False(t, cfg.GetIsolines())
	assert.Equal(t, 5, cfg.GetBins())
	assert.Equal(t, plane.LevelStepped, cfg.GetLevelMode())
	assert.False(t, cfg.GetLegend())
	assert.Equal(t, render.DefaultUnit, cfg.GetUnit())
	assert.Equal(t, "plane.png", cfg.GetOutput())
	assert.Equal(t, "", cfg.GetFigure())
	assert.Equal(t, 6.0, cfg.GetFigureWidth())
	assert.Equal(t, 5.0, cfg.GetFigureHeight())
	assert.Equal(t, "", cfg.GetManifest())
	assert.Equal(t, "rdbu", cfg.SchemeName())
}

func TestLoadJobConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "job.json")

	testJSON := `{
  "cube": "density.cube",
  "angstrom": true,
  "negative": true,
  "v1": [1, 1, 0],
  "v2": [0, 0, 2],
  "origin": [0.5, 0.5, 0.5],
  "scale": 40,
  "li": -2, "hi": 3, "lj": -1, "hj": 1,
  "scheme": "teal-darkred",
  "min": -3,
  "max": 2,
  "isolines": true,
  "bins": 7,
  "level_mode": "accumulate",
  "legend": true,
  "output": "out/slice.png",
  "figure": "out/slice.svg",
  "manifest": "out/slice.json"
}`
	require.NoError(t, os.WriteFile(configPath, []byte(testJSON), 0644))

	cfg, err := LoadJobConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "density.cube", cfg.GetCube())
	assert.True(t, cfg.GetAngstrom())
	assert.True(t, cfg.GetNegative())
	assert.Equal(t, plane.Basis{
		V1:     r3.Vec{X: 1, Y: 1},
		V2:     r3.Vec{Z: 2},
		Origin: r3.Vec{X: 0.5, Y: 0.5, Z: 0.5},
		Scale:  40,
	}, cfg.GetBasis())
	assert.Equal(t, plane.Window{LI: -2, HI: 3, LJ: -1, HJ: 1}, cfg.GetWindow())
	assert.Equal(t, palette.TealDarkRed, cfg.GetScheme())
	assert.Equal(t, 7, cfg.GetBins())
	assert.Equal(t, plane.LevelAccumulate, cfg.GetLevelMode())
	assert.True(t, cfg.GetIsolines())
	assert.True(t, cfg.GetLegend())
	assert.Equal(t, "out/slice.png", cfg.GetOutput())
	assert.Equal(t, "out/slice.svg", cfg.GetFigure())
	assert.Equal(t, "out/slice.json", cfg.GetManifest())

	ramp, err := cfg.Ramp()
	require.NoError(t, err)
	assert.Equal(t, -3.0, ramp.Low())
	assert.Equal(t, 2.0, ramp.High())
	assert.Equal(t, palette.TealDarkRed.Colors(), ramp.Stops())
}

func TestLoadJobConfigPartial(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	require.NoError(t, mfs.WriteFile("jobs/partial.json", []byte(`{"scale": 25, "scheme": "3"}`), 0644))

	cfg, err := LoadJobConfigFS(mfs, "jobs/partial.json")
	require.NoError(t, err)

	assert.Equal(t, 25.0, cfg.GetScale())
	assert.Equal(t, palette.PiYG, cfg.GetScheme())
	assert.Equal(t, plane.Window{LI: -5, HI: 5, LJ: -5, HJ: 5}, cfg.GetWindow())
	assert.Equal(t, "plane.png", cfg.GetOutput())
}

func TestLoadJobConfigUnknownSchemeIdFallsBack(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	require.NoError(t, mfs.WriteFile("job.json", []byte(`{"scheme": "42"}`), 0644))

	cfg, err := LoadJobConfigFS(mfs, "job.json")
	require.NoError(t, err)
	assert.Equal(t, palette.Default, cfg.GetScheme())
}

func TestLoadJobConfigMissing(t *testing.T) {
	_, err := LoadJobConfigFS(fsutil.NewMemoryFileSystem(), "missing.json")
	assert.Error(t, err)
}

func TestLoadJobConfigInvalid(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	require.NoError(t, mfs.WriteFile("bad.json", []byte(`{"scale": "big"}`), 0644))
	_, err := LoadJobConfigFS(mfs, "bad.json")
	assert.ErrorContains(t, err, "failed to parse config JSON")

	require.NoError(t, mfs.WriteFile("neg.json", []byte(`{"scale": -1}`), 0644))
	_, err = LoadJobConfigFS(mfs, "neg.json")
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestLoadJobConfigRejectsNonJSON(t *testing.T) {
	_, err := LoadJobConfig("/some/path/config.yaml")
	if err == nil {
		t.Error("Expected error for non-.json extension, got nil")
	}
}

func TestLoadJobConfigRejectsLargeFile(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()

	// Create a file larger than 1MB
	largeData := make([]byte, 2*1024*1024) // 2MB
	require.NoError(t, mfs.WriteFile("large.json", largeData, 0644))

	_, err := LoadJobConfigFS(mfs, "large.json")
	assert.ErrorContains(t, err, "too large")
}

func TestLoadExampleConfigFile(t *testing.T) {
	cfg, err := LoadJobConfig(filepath.Join("..", "..", ExampleConfigPath))
	require.NoError(t, err)
	assert.True(t, cfg.GetIsolines())
	assert.True(t, cfg.GetLegend())
	assert.Equal(t, palette.RdBu, cfg.GetScheme())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     JobConfig
		wantErr string
	}{
		{"empty is valid", JobConfig{}, ""},
		{"zero scale", JobConfig{Scale: ptrFloat64(0)}, "scale must be positive"},
		{"inverted i window", JobConfig{LI: ptrFloat64(2), HI: ptrFloat64(1)}, "hi (1) must be greater than li (2)"},
		{"empty j window", JobConfig{LJ: ptrFloat64(1), HJ: ptrFloat64(1)}, "hj (1) must be greater than lj (1)"},
		{"zero v1", JobConfig{V1: &[3]float64{}}, "v1 must be non-zero"},
		{"zero v2", JobConfig{V2: &[3]float64{}}, "v2 must be non-zero"},
		{"inverted range", JobConfig{Min: ptrFloat64(2), Max: ptrFloat64(1)}, "max (1) must be greater than min (2)"},
		{"negative bins", JobConfig{Bins: ptrInt(-1)}, "bins must be non-negative"},
		{"negative workers", JobConfig{Workers: ptrInt(-2)}, "workers must be non-negative"},
		{"unknown scheme", JobConfig{Scheme: ptrString("viridis")}, "invalid scheme"},
		{"numeric scheme", JobConfig{Scheme: ptrString("99")}, ""},
		{"few brewer colours", JobConfig{BrewerColors: ptrInt(2)}, "brewer_colors must be at least 3"},
		{"bad level mode", JobConfig{LevelMode: ptrString("loose")}, "invalid level_mode"},
		{"jpeg output", JobConfig{Output: ptrString("plane.jpg")}, "output must be a .png file"},
		{"zero figure width", JobConfig{FigureWidth: ptrFloat64(0)}, "figure_width must be positive"},
		{"negative figure height", JobConfig{FigureHeight: ptrFloat64(-1)}, "figure_height must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestRampFromBrewer(t *testing.T) {
	cfg := EmptyJobConfig()
	cfg.BrewerPalette = ptrString("Spectral")
	cfg.BrewerColors = ptrInt(7)

	ramp, err := cfg.Ramp()
	require.NoError(t, err)
	assert.Equal(t, 7, ramp.Len())
	assert.Equal(t, "Spectral-7", cfg.SchemeName())

	cfg.BrewerPalette = ptrString("NotAPalette")
	_, err = cfg.Ramp()
	assert.Error(t, err)
}
