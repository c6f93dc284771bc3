package ephemeris

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"jyotish-lab/internal/domain"
	"jyotish-lab/internal/storage"
	"jyotish-lab/internal/zodiac"
)

// CachingProvider is a read-through cache in front of another provider.
// Readings are keyed by (body, unix milliseconds); store failures fall through
// to the inner provider and are only logged.
type CachingProvider struct {
	inner  Provider
	store  storage.LongitudeSampleStore
	logger zerolog.Logger
}

// NewCachingProvider creates a CachingProvider.
func NewCachingProvider(inner Provider, store storage.LongitudeSampleStore, logger zerolog.Logger) *CachingProvider {
	return &CachingProvider{inner: inner, store: store, logger: logger}
}

// Compile-time interface check.
var _ Provider = (*CachingProvider)(nil)

// Name implements Provider.
func (p *CachingProvider) Name() string { return "cached-" + p.inner.Name() }

// LongitudeOf implements Provider.
func (p *CachingProvider) LongitudeOf(ctx context.Context, body domain.Body, moment time.Time) (float64, error) {
	ts := moment.UnixMilli()

	smp, err := p.store.Get(ctx, body, ts)
	switch {
	case err == nil:
		return smp.Longitude, nil
	case !errors.Is(err, storage.ErrNotFound):
		p.logger.Warn().Err(err).Str("body", body.String()).Msg("cache read failed")
	}

	lon, err := p.inner.LongitudeOf(ctx, body, moment)
	if err != nil {
		return 0, err
	}

	sample := &domain.LongitudeSample{Body: body, TimestampMs: ts, Longitude: zodiac.Normalize(lon)}
	if err := p.store.InsertBulk(ctx, []*domain.LongitudeSample{sample}); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
		p.logger.Warn().Err(err).Str("body", body.String()).Msg("cache write failed")
	}

	return lon, nil
}
