package ephemeris

import (
	"context"
	"time"

	"jyotish-lab/internal/domain"
	"jyotish-lab/internal/observability"
)

// Instrumented records call counts and latency for the wrapped provider.
type Instrumented struct {
	inner   Provider
	metrics *observability.Metrics
}

// NewInstrumented wraps p with metrics.
func NewInstrumented(p Provider, m *observability.Metrics) *Instrumented {
	return &Instrumented{inner: p, metrics: m}
}

// Name implements Provider.
func (p *Instrumented) Name() string { return p.inner.Name() }

// LongitudeOf implements Provider.
func (p *Instrumented) LongitudeOf(ctx context.Context, body domain.Body, moment time.Time) (float64, error) {
	start := time.Now()
	lon, err := p.inner.LongitudeOf(ctx, body, moment)
	p.metrics.RecordEphemerisCall(p.inner.Name(), time.Since(start).Seconds(), err)
	return lon, err
}

// timeoutProvider bounds every lookup with a deadline.
type timeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout bounds each lookup of p by d. A non-positive d returns p unchanged.
func WithTimeout(p Provider, d time.Duration) Provider {
	if d <= 0 {
		return p
	}
	return &timeoutProvider{inner: p, timeout: d}
}

func (p *timeoutProvider) Name() string { return p.inner.Name() }

func (p *timeoutProvider) LongitudeOf(ctx context.Context, body domain.Body, moment time.Time) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	lon, err := p.inner.LongitudeOf(ctx, body, moment)
	if err != nil && ctx.Err() != nil {
		return 0, unavailable(p.inner.Name(), body, moment, ctx.Err())
	}
	return lon, err
}
