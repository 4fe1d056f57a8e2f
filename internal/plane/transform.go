package plane

import "math"

// ZeroSentinel is the display value given to non-positive samples when
// negative values are not being shown.
const ZeroSentinel = -12

// DisplayValue compresses a raw sample for colour mapping.
//
// With negative set the result is a signed log-like scale symmetric about
// zero: negative samples map to positive values and non-negative samples to
// negative ones, never closer to zero than 1e-4. Without it the result is
// log10(raw), or ZeroSentinel when raw <= 0.
func DisplayValue(raw float64, negative bool) float32 {
	if negative {
		if raw < 0 {
			return float32(-math.Min(-1e-4, (-math.Log10(-raw)-6.0)/5.0))
		}
		return float32(-math.Max(1e-4, (math.Log10(raw)+6.0)/5.0))
	}
	if raw > 0 {
		return float32(math.Log10(raw))
	}
	return ZeroSentinel
}
