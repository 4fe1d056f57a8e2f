package render

import (
	"encoding/json"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/planeview/internal/version"
)

// Manifest describes one rendered plane. It is written next to the image
// so a PNG can be traced back to the parameters that produced it.
type Manifest struct {
	RunID     string    `json:"run_id"`
	Version   string    `json:"version"`
	GitSHA    string    `json:"git_sha"`
	CreatedAt time.Time `json:"created_at"`

	Image  string `json:"image,omitempty"`
	Scheme string `json:"scheme,omitempty"`

	Width  int        `json:"width"`
	Height int        `json:"height"`
	Crop   CropWindow `json:"crop"`

	Origin   [3]float64 `json:"origin"`
	V1       [3]float64 `json:"v1"`
	V2       [3]float64 `json:"v2"`
	Scale    float64    `json:"scale"`
	Negative bool       `json:"negative_values"`

	Min    float64   `json:"min"`
	Max    float64   `json:"max"`
	Levels []float64 `json:"levels,omitempty"`
	Stats  Stats     `json:"stats"`
}

// CropWindow is the half-open pixel window the image was cut from, within
// a raster of FullWidth x FullHeight.
type CropWindow struct {
	MinX       int `json:"min_x"`
	MaxX       int `json:"max_x"`
	MinY       int `json:"min_y"`
	MaxY       int `json:"max_y"`
	FullWidth  int `json:"full_width"`
	FullHeight int `json:"full_height"`
}

// Stats summarises the raw samples of the cropped grid.
type Stats struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Mean    float64 `json:"mean"`
	NonZero int     `json:"non_zero"`
}

// Manifest describes the current grid. image is recorded as given.
func (p *Projector) Manifest(image string) Manifest {
	st := p.grid.Stats()
	b := p.bounds
	return Manifest{
		RunID:     uuid.NewString(),
		Version:   version.Version,
		GitSHA:    version.GitSHA,
		CreatedAt: p.clock.Now().UTC(),
		Image:     image,
		Width:     p.grid.Width,
		Height:    p.grid.Height,
		Crop: CropWindow{
			MinX:       b.MinX,
			MaxX:       b.MaxX,
			MinY:       b.MinY,
			MaxY:       b.MaxY,
			FullWidth:  p.full[0],
			FullHeight: p.full[1],
		},
		Origin:   [3]float64{p.basis.Origin.X, p.basis.Origin.Y, p.basis.Origin.Z},
		V1:       [3]float64{p.basis.V1.X, p.basis.V1.Y, p.basis.V1.Z},
		V2:       [3]float64{p.basis.V2.X, p.basis.V2.Y, p.basis.V2.Z},
		Scale:    p.basis.Scale,
		Negative: p.negative,
		Min:      p.min,
		Max:      p.max,
		Levels:   p.Levels(),
		Stats: Stats{
			Min:     st.Min,
			Max:     st.Max,
			Mean:    st.Mean,
			NonZero: st.NonZero,
		},
	}
}

// WriteManifest stores m as indented JSON at path.
func (p *Projector) WriteManifest(path string, m Manifest) error {
	return writeTo(p.fs, path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	})
}
