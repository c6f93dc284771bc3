package domain

import "time"

// Body identifies a celestial body known to the ephemeris.
type Body string

const (
	BodySun     Body = "SUN"
	BodyMoon    Body = "MOON"
	BodyMars    Body = "MARS"
	BodyMercury Body = "MERCURY"
	BodyJupiter Body = "JUPITER"
	BodyVenus   Body = "VENUS"
	BodySaturn  Body = "SATURN"
	BodyRahu    Body = "RAHU"
	BodyKetu    Body = "KETU"
)

// Bodies lists all bodies in their traditional order.
var Bodies = []Body{
	BodySun, BodyMoon, BodyMars, BodyMercury, BodyJupiter,
	BodyVenus, BodySaturn, BodyRahu, BodyKetu,
}

// String returns the string representation of Body.
func (b Body) String() string {
	return string(b)
}

// IsValid checks if the body is a known value.
func (b Body) IsValid() bool {
	for _, known := range Bodies {
		if b == known {
			return true
		}
	}
	return false
}

// CelestialPosition is a body's longitude at a moment, as returned by the ephemeris.
// Longitude is not normalized; callers reduce it with zodiac.Normalize before use.
type CelestialPosition struct {
	Body      Body
	Longitude float64   // ecliptic longitude in degrees
	Moment    time.Time // moment the longitude was computed for
}

// LongitudeSample is a stored ephemeris reading.
// Corresponds to the longitude_samples table in Postgres and ClickHouse.
type LongitudeSample struct {
	Body        Body    // body identifier
	TimestampMs int64   // Unix timestamp in milliseconds
	Longitude   float64 // ecliptic longitude in degrees, normalized to [0, 360)
}
