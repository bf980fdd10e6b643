package astro

import "math"

// Normalize reduces an angle to [0, 360). The result is never negative, for
// any real input.
func Normalize(angle float64) float64 {
	a := math.Mod(angle, 360)
	if a < 0 {
		a += 360
	}
	// For negative inputs within one ulp of zero the add rounds to exactly
	// 360, which would escape the half-open range.
	if a >= 360 {
		a -= 360
	}
	return a
}

// AngularDistance returns the minimal separation between two longitudes.
// Symmetric; the result is always in [0, 180] for normalized inputs.
func AngularDistance(a, b float64) float64 {
	d := math.Abs(a - b)
	return math.Min(d, 360-d)
}

// HouseOf places a longitude into one of the 12 cyclic cusp intervals.
// House i+1 spans the half-open interval [cusps[i], cusps[(i+1)%12]); when
// the interval wraps past 360 (start >= end), membership is
// longitude >= start OR longitude < end. First match wins. Returns (0, false)
// when nothing matches, which callers surface as an unset house rather than
// an error.
func HouseOf(longitude float64, cusps []float64) (int, bool) {
	if len(cusps) != 12 {
		return 0, false
	}
	for i := 0; i < 12; i++ {
		start := cusps[i]
		end := cusps[(i+1)%12]
		if start < end {
			if longitude >= start && longitude < end {
				return i + 1, true
			}
		} else if longitude >= start || longitude < end {
			return i + 1, true
		}
	}
	return 0, false
}
