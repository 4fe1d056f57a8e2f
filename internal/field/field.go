// Package field provides volumetric scalar fields that can be sampled at
// arbitrary points in space.
package field

// Sampler returns the field value at a point in world coordinates.
// Implementations must be safe for concurrent use.
type Sampler interface {
	Sample(x, y, z float64) float64
}

// Func adapts an ordinary function to the Sampler interface.
type Func func(x, y, z float64) float64

// Sample calls f(x, y, z).
func (f Func) Sample(x, y, z float64) float64 {
	return f(x, y, z)
}
