package field

import "math"

// Dimer is an analytic density of two Slater-type centres placed on the x
// axis at ±Separation/2. Points further than Cutoff from the midpoint
// sample as exactly zero, which gives auto-cropping a finite support.
type Dimer struct {
	Separation float64
	// Decay is the exponent of each centre, in inverse length units.
	Decay  float64
	Peak   float64
	Cutoff float64
}

// DefaultDimer is a diatomic-like density with a 1.2 bond length that fits
// inside the default ±5 sampling window.
var DefaultDimer = Dimer{Separation: 1.2, Decay: 2, Peak: 10, Cutoff: 4}

// Sample implements Sampler.
func (d Dimer) Sample(x, y, z float64) float64 {
	if x*x+y*y+z*z > d.Cutoff*d.Cutoff {
		return 0
	}
	h := d.Separation / 2
	r1 := math.Sqrt((x-h)*(x-h) + y*y + z*z)
	r2 := math.Sqrt((x+h)*(x+h) + y*y + z*z)
	return d.Peak * (math.Exp(-d.Decay*r1) + math.Exp(-d.Decay*r2))
}
