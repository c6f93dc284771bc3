package storage

import (
	"context"

	"jyotish-lab/internal/domain"
)

// LongitudeSampleStore provides access to longitude_samples storage.
// It backs the table ephemeris and the read-through ephemeris cache.
type LongitudeSampleStore interface {
	// InsertBulk adds multiple samples. Fails entire batch on duplicate (body, timestamp_ms).
	InsertBulk(ctx context.Context, samples []*domain.LongitudeSample) error

	// Get retrieves the sample for body at exactly timestampMs. Returns ErrNotFound if not exists.
	Get(ctx context.Context, body domain.Body, timestampMs int64) (*domain.LongitudeSample, error)

	// GetByTimeRange retrieves samples for body within [start, end] (inclusive), ordered by timestamp ASC.
	GetByTimeRange(ctx context.Context, body domain.Body, start, end int64) ([]*domain.LongitudeSample, error)
}
