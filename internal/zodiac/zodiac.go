// Package zodiac reduces raw ecliptic longitudes to sign and in-sign degree.
package zodiac

import (
	"math"

	"jyotish-lab/internal/domain"
)

// FullCircle is the number of degrees in the zodiac.
const FullCircle = 360.0

// Normalize reduces a longitude in degrees to [0, 360). Negative values wrap forward.
func Normalize(deg float64) float64 {
	v := math.Mod(deg, FullCircle)
	if v < 0 {
		v += FullCircle
	}
	// -1e-15 + 360 rounds to 360
	if v >= FullCircle {
		v = 0
	}
	return v
}

// Decompose normalizes a longitude and splits it into sign index and degree within sign.
// Both parts are derived from the same normalized value.
func Decompose(deg float64) domain.SignDecomposition {
	v := Normalize(deg)
	idx := int(math.Floor(v / domain.SignWidth))
	if idx >= domain.SignCount {
		idx = domain.SignCount - 1
	}
	return domain.SignDecomposition{
		Sign:   domain.Sign(idx),
		Degree: v - domain.SignWidth*float64(idx),
	}
}

// SignOf returns only the sign index of a longitude.
func SignOf(deg float64) domain.Sign {
	return Decompose(deg).Sign
}

// Longitude rebuilds a normalized longitude from a decomposition.
func Longitude(d domain.SignDecomposition) float64 {
	return Normalize(domain.SignWidth*float64(d.Sign) + d.Degree)
}
