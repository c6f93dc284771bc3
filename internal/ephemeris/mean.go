package ephemeris

import (
	"context"
	"fmt"
	"time"

	"jyotish-lab/internal/domain"
	"jyotish-lab/internal/zodiac"
)

// j2000 is the J2000.0 epoch.
var j2000 = time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)

// meanElement is a mean longitude at J2000 plus a daily motion, both in degrees.
type meanElement struct {
	l0    float64
	daily float64
}

// Tropical mean elements. Mercury and Venus never stray far from the Sun, so
// their geocentric mean longitude is the Sun's.
var meanElements = map[domain.Body]meanElement{
	domain.BodySun:     {280.46646, 0.98564736},
	domain.BodyMoon:    {218.3165, 13.17639648},
	domain.BodyMercury: {280.46646, 0.98564736},
	domain.BodyVenus:   {280.46646, 0.98564736},
	domain.BodyMars:    {355.433, 0.52402068},
	domain.BodyJupiter: {34.351519, 0.08308529},
	domain.BodySaturn:  {50.077444, 0.03344414},
	domain.BodyRahu:    {125.04452, -0.05295381},
}

// Lahiri ayanamsa at J2000 and its annual precession, in degrees.
const (
	ayanamsaJ2000  = 23.85
	ayanamsaAnnual = 50.29 / 3600.0
)

// MeanProvider computes sidereal mean longitudes analytically.
// Mean motion is uniform, so it never shows retrograde motion. It is accurate
// to a few degrees for the slow bodies, enough for sign-level work offline.
type MeanProvider struct{}

// NewMeanProvider creates a MeanProvider.
func NewMeanProvider() *MeanProvider {
	return &MeanProvider{}
}

// Compile-time interface check.
var _ Provider = (*MeanProvider)(nil)

// Name implements Provider.
func (p *MeanProvider) Name() string { return "mean" }

// LongitudeOf implements Provider.
func (p *MeanProvider) LongitudeOf(ctx context.Context, body domain.Body, moment time.Time) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, unavailable(p.Name(), body, moment, err)
	}

	days := moment.Sub(j2000).Hours() / 24

	if body == domain.BodyKetu {
		rahu := meanElements[domain.BodyRahu]
		return sidereal(rahu.l0+rahu.daily*days+180, days), nil
	}

	el, ok := meanElements[body]
	if !ok {
		return 0, unavailable(p.Name(), body, moment, fmt.Errorf("unknown body %q", body))
	}
	return sidereal(el.l0+el.daily*days, days), nil
}

// Ayanamsa returns the Lahiri ayanamsa in degrees at the given number of days from J2000.
func Ayanamsa(days float64) float64 {
	return ayanamsaJ2000 + ayanamsaAnnual*days/365.25
}

func sidereal(tropical, days float64) float64 {
	return zodiac.Normalize(tropical - Ayanamsa(days))
}
