package ephemeris

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gonum.org/v1/gonum/interp"

	"jyotish-lab/internal/domain"
	"jyotish-lab/internal/storage"
	"jyotish-lab/internal/zodiac"
)

// DefaultTableSpan is how far either side of the requested moment the table
// provider looks for samples to interpolate between.
const DefaultTableSpan = 36 * time.Hour

// TableProvider interpolates stored longitude samples.
// Samples are unwrapped across the 360°→0° seam before a piecewise-linear fit.
type TableProvider struct {
	store storage.LongitudeSampleStore
	span  time.Duration
}

// NewTableProvider creates a TableProvider over store.
func NewTableProvider(store storage.LongitudeSampleStore) *TableProvider {
	return &TableProvider{store: store, span: DefaultTableSpan}
}

// WithSpan overrides the lookup span. Non-positive values keep the current span.
func (p *TableProvider) WithSpan(d time.Duration) *TableProvider {
	if d > 0 {
		p.span = d
	}
	return p
}

// Compile-time interface check.
var _ Provider = (*TableProvider)(nil)

// Name implements Provider.
func (p *TableProvider) Name() string { return "table" }

// LongitudeOf implements Provider.
func (p *TableProvider) LongitudeOf(ctx context.Context, body domain.Body, moment time.Time) (float64, error) {
	ts := moment.UnixMilli()

	samples, err := p.store.GetByTimeRange(ctx, body, ts-p.span.Milliseconds(), ts+p.span.Milliseconds())
	if err != nil {
		return 0, unavailable(p.Name(), body, moment, err)
	}

	lon, err := Interpolate(samples, ts)
	if err != nil {
		return 0, unavailable(p.Name(), body, moment, err)
	}
	return lon, nil
}

// ErrNotBracketed is returned when no samples surround the requested timestamp.
var ErrNotBracketed = errors.New("no samples bracket the requested moment")

// Interpolate returns the normalized longitude at ts from samples ordered by
// timestamp ASC. An exact sample is returned as-is; otherwise ts must lie
// between the first and last sample.
func Interpolate(samples []*domain.LongitudeSample, ts int64) (float64, error) {
	if len(samples) == 0 {
		return 0, fmt.Errorf("%w: %w", ErrNotBracketed, storage.ErrNotFound)
	}

	for _, s := range samples {
		if s.TimestampMs == ts {
			return zodiac.Normalize(s.Longitude), nil
		}
	}

	if len(samples) < 2 || ts < samples[0].TimestampMs || ts > samples[len(samples)-1].TimestampMs {
		return 0, ErrNotBracketed
	}

	xs := make([]float64, len(samples))
	ys := make([]float64, len(samples))
	offset := 0.0
	for i, s := range samples {
		if i > 0 {
			if s.TimestampMs <= samples[i-1].TimestampMs {
				return 0, fmt.Errorf("samples not strictly ordered at %d", s.TimestampMs)
			}
			diff := s.Longitude - samples[i-1].Longitude
			switch {
			case diff > 180:
				offset -= zodiac.FullCircle
			case diff < -180:
				offset += zodiac.FullCircle
			}
		}
		xs[i] = float64(s.TimestampMs)
		ys[i] = s.Longitude + offset
	}

	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		return 0, fmt.Errorf("fit samples: %w", err)
	}
	return zodiac.Normalize(pl.Predict(float64(ts))), nil
}
