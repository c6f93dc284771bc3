package ephemeris

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"jyotish-lab/internal/domain"
)

// FallbackProvider asks the primary provider first and the fallback on failure.
type FallbackProvider struct {
	primary  Provider
	fallback Provider
	logger   zerolog.Logger
}

// NewFallbackProvider creates a FallbackProvider.
func NewFallbackProvider(primary, fallback Provider, logger zerolog.Logger) *FallbackProvider {
	return &FallbackProvider{primary: primary, fallback: fallback, logger: logger}
}

// Compile-time interface check.
var _ Provider = (*FallbackProvider)(nil)

// Name implements Provider.
func (p *FallbackProvider) Name() string {
	return p.primary.Name() + "+" + p.fallback.Name()
}

// LongitudeOf implements Provider.
func (p *FallbackProvider) LongitudeOf(ctx context.Context, body domain.Body, moment time.Time) (float64, error) {
	lon, err := p.primary.LongitudeOf(ctx, body, moment)
	if err == nil {
		return lon, nil
	}
	if ctx.Err() != nil {
		return 0, err
	}

	p.logger.Warn().
		Err(err).
		Str("primary", p.primary.Name()).
		Str("fallback", p.fallback.Name()).
		Msg("primary ephemeris failed, using fallback")

	return p.fallback.LongitudeOf(ctx, body, moment)
}
