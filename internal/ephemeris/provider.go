// Package ephemeris provides body longitudes for the transit and chart calculations.
//
// The calculations treat a Provider as a correct oracle: it returns the ecliptic
// longitude of a body at a moment, or an error wrapping domain.ErrEphemerisUnavailable.
// Calendar and timezone normalization of the moment is the caller's job.
package ephemeris

import (
	"context"
	"fmt"
	"time"

	"jyotish-lab/internal/domain"
)

// Provider defines the interface for ephemeris data sources.
type Provider interface {
	// Name returns the provider name for logging and metrics.
	Name() string

	// LongitudeOf returns the ecliptic longitude of body at moment, in degrees.
	// The value is not necessarily normalized to [0, 360).
	LongitudeOf(ctx context.Context, body domain.Body, moment time.Time) (float64, error)
}

// Func adapts a plain callback to Provider.
type Func func(ctx context.Context, body domain.Body, moment time.Time) (float64, error)

// Name implements Provider.
func (f Func) Name() string { return "func" }

// LongitudeOf implements Provider.
func (f Func) LongitudeOf(ctx context.Context, body domain.Body, moment time.Time) (float64, error) {
	return f(ctx, body, moment)
}

// Position fetches a body's longitude and wraps it as a CelestialPosition.
func Position(ctx context.Context, p Provider, body domain.Body, moment time.Time) (domain.CelestialPosition, error) {
	lon, err := p.LongitudeOf(ctx, body, moment)
	if err != nil {
		return domain.CelestialPosition{}, err
	}
	return domain.CelestialPosition{Body: body, Longitude: lon, Moment: moment}, nil
}

// unavailable wraps a provider failure so callers can match domain.ErrEphemerisUnavailable
// while keeping the cause.
func unavailable(provider string, body domain.Body, moment time.Time, cause error) error {
	return fmt.Errorf("%s: %s at %s: %w: %w",
		provider, body, moment.UTC().Format(time.RFC3339), domain.ErrEphemerisUnavailable, cause)
}

// Mode represents which ephemeris source to use.
type Mode int

const (
	ModeMean  Mode = iota // offline mean-motion model (default)
	ModeRPC               // remote JSON-RPC ephemeris service
	ModeTable             // interpolation over stored samples
	ModeAuto              // try RPC, fall back to the mean model
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeMean:
		return "mean"
	case ModeRPC:
		return "rpc"
	case ModeTable:
		return "table"
	case ModeAuto:
		return "auto"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode string. Unknown values select ModeMean.
func ParseMode(s string) Mode {
	switch s {
	case "rpc":
		return ModeRPC
	case "table":
		return ModeTable
	case "auto":
		return ModeAuto
	default:
		return ModeMean
	}
}
