// Package ingestion precomputes ephemeris samples into a longitude store so a
// table-backed provider can serve them later.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"jyotish-lab/internal/domain"
	"jyotish-lab/internal/ephemeris"
	"jyotish-lab/internal/observability"
	"jyotish-lab/internal/storage"
	"jyotish-lab/internal/zodiac"
)

// DefaultBatchSize is the number of samples written per InsertBulk call.
const DefaultBatchSize = 1000

// Sampler walks a time range and stores each body's longitude at every step.
type Sampler struct {
	provider  ephemeris.Provider
	store     storage.LongitudeSampleStore
	batchSize int
	logger    zerolog.Logger
	metrics   *observability.Metrics
}

// SamplerOptions contains configuration for creating a Sampler.
type SamplerOptions struct {
	Provider  ephemeris.Provider
	Store     storage.LongitudeSampleStore
	BatchSize int
	Logger    *zerolog.Logger
	Metrics   *observability.Metrics
}

// NewSampler creates a new Sampler.
func NewSampler(opts SamplerOptions) *Sampler {
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	return &Sampler{
		provider:  opts.Provider,
		store:     opts.Store,
		batchSize: batchSize,
		logger:    logger.With().Str("component", "sampler").Logger(),
		metrics:   opts.Metrics,
	}
}

// SampleResult contains statistics from a sampling run.
type SampleResult struct {
	Stored            int
	DuplicatesSkipped int
	Errors            int
	Duration          time.Duration
}

// SampleRange stores samples for every body at from, from+step, ... up to and
// including to. Samples already in the store are counted as duplicates.
// A failed lookup is counted and skipped; a cancelled context stops the run.
func (s *Sampler) SampleRange(ctx context.Context, bodies []domain.Body, from, to time.Time, step time.Duration) (*SampleResult, error) {
	if step <= 0 {
		return nil, fmt.Errorf("step %s: %w", step, domain.ErrInputValidation)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("range %s..%s: %w", from.Format(time.RFC3339), to.Format(time.RFC3339), domain.ErrInputValidation)
	}

	start := time.Now()
	result := &SampleResult{}

	s.logger.Info().
		Str("provider", s.provider.Name()).
		Time("from", from).
		Time("to", to).
		Dur("step", step).
		Int("bodies", len(bodies)).
		Msg("Starting sampling")

	pending := make([]*domain.LongitudeSample, 0, s.batchSize)
	flush := func() {
		stored, dupes, errs := s.storeSamples(ctx, pending)
		result.Stored += stored
		result.DuplicatesSkipped += dupes
		result.Errors += errs
		pending = pending[:0]
	}

	for moment := from; !moment.After(to); moment = moment.Add(step) {
		for _, body := range bodies {
			lon, err := s.provider.LongitudeOf(ctx, body, moment)
			if err != nil {
				if ctx.Err() != nil {
					flush()
					result.Duration = time.Since(start)
					return result, ctx.Err()
				}
				result.Errors++
				s.logger.Warn().Err(err).Str("body", body.String()).Time("moment", moment).Msg("Lookup failed")
				continue
			}

			pending = append(pending, &domain.LongitudeSample{
				Body:        body,
				TimestampMs: moment.UnixMilli(),
				Longitude:   zodiac.Normalize(lon),
			})
			if len(pending) == s.batchSize {
				flush()
			}
		}
	}
	flush()

	result.Duration = time.Since(start)
	s.metrics.RecordSamplesStored(result.Stored)
	s.logger.Info().
		Int("stored", result.Stored).
		Int("duplicates", result.DuplicatesSkipped).
		Int("errors", result.Errors).
		Dur("duration", result.Duration).
		Msg("Sampling complete")

	return result, nil
}

// storeSamples stores one batch, handling duplicates.
func (s *Sampler) storeSamples(ctx context.Context, batch []*domain.LongitudeSample) (stored, dupes, errs int) {
	if len(batch) == 0 {
		return 0, 0, 0
	}

	err := s.store.InsertBulk(ctx, batch)
	switch {
	case err == nil:
		return len(batch), 0, 0
	case errors.Is(err, storage.ErrDuplicateKey):
		// Insert one by one to find which are duplicates
		for _, smp := range batch {
			if err := s.store.InsertBulk(ctx, []*domain.LongitudeSample{smp}); err != nil {
				if errors.Is(err, storage.ErrDuplicateKey) {
					dupes++
				} else {
					errs++
				}
			} else {
				stored++
			}
		}
		return stored, dupes, errs
	default:
		s.logger.Error().Err(err).Int("batch", len(batch)).Msg("Error storing batch")
		return 0, 0, len(batch)
	}
}
