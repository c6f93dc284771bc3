package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"jyotish-lab/internal/domain"
	"jyotish-lab/internal/observability"
	"jyotish-lab/internal/storage"
)

// LongitudeSampleStore implements storage.LongitudeSampleStore using PostgreSQL.
type LongitudeSampleStore struct {
	pool    *Pool
	metrics *observability.Metrics
}

// NewLongitudeSampleStore creates a new LongitudeSampleStore.
func NewLongitudeSampleStore(pool *Pool) *LongitudeSampleStore {
	return &LongitudeSampleStore{pool: pool}
}

// WithMetrics records query durations and errors.
func (s *LongitudeSampleStore) WithMetrics(m *observability.Metrics) *LongitudeSampleStore {
	s.metrics = m
	return s
}

// Compile-time interface check.
var _ storage.LongitudeSampleStore = (*LongitudeSampleStore)(nil)

// InsertBulk copies samples in a single COPY, which is atomic: one duplicate
// (body, timestamp_ms) rejects the whole batch with storage.ErrDuplicateKey.
func (s *LongitudeSampleStore) InsertBulk(ctx context.Context, samples []*domain.LongitudeSample) (err error) {
	if len(samples) == 0 {
		return nil
	}
	defer s.observe("insert_bulk", time.Now(), &err)

	for _, smp := range samples {
		if smp == nil || !smp.Body.IsValid() {
			return storage.ErrInvalidInput
		}
	}

	_, err = s.pool.CopyFrom(ctx,
		pgx.Identifier{"longitude_samples"},
		[]string{"body", "timestamp_ms", "longitude"},
		pgx.CopyFromSlice(len(samples), func(i int) ([]any, error) {
			smp := samples[i]
			return []any{string(smp.Body), smp.TimestampMs, smp.Longitude}, nil
		}),
	)
	return translate(err, "copy samples")
}

// Get retrieves the sample for body at exactly timestampMs. Returns ErrNotFound if not exists.
func (s *LongitudeSampleStore) Get(ctx context.Context, body domain.Body, timestampMs int64) (_ *domain.LongitudeSample, err error) {
	defer s.observe("get", time.Now(), &err)

	const query = `
		SELECT body, timestamp_ms, longitude
		FROM longitude_samples
		WHERE body = $1 AND timestamp_ms = $2
	`

	rows, err := s.pool.Query(ctx, query, string(body), timestampMs)
	if err != nil {
		return nil, translate(err, "get sample")
	}
	smp, err := pgx.CollectExactlyOneRow(rows, scanSample)
	if err != nil {
		return nil, translate(err, "get sample")
	}
	return smp, nil
}

// GetByTimeRange retrieves samples for body within [start, end] (inclusive).
func (s *LongitudeSampleStore) GetByTimeRange(ctx context.Context, body domain.Body, start, end int64) (_ []*domain.LongitudeSample, err error) {
	defer s.observe("get_by_time_range", time.Now(), &err)

	const query = `
		SELECT body, timestamp_ms, longitude
		FROM longitude_samples
		WHERE body = $1 AND timestamp_ms >= $2 AND timestamp_ms <= $3
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.pool.Query(ctx, query, string(body), start, end)
	if err != nil {
		return nil, translate(err, "get samples by time range")
	}
	samples, err := pgx.CollectRows(rows, scanSample)
	if err != nil {
		return nil, translate(err, "scan samples")
	}
	return samples, nil
}

func (s *LongitudeSampleStore) observe(op string, started time.Time, err *error) {
	var e error
	if err != nil && !errors.Is(*err, storage.ErrNotFound) {
		e = *err
	}
	s.metrics.RecordDBQuery("postgres", op, time.Since(started).Seconds(), e)
}

// scanSample reads one (body, timestamp_ms, longitude) row.
func scanSample(row pgx.CollectableRow) (*domain.LongitudeSample, error) {
	var (
		smp  domain.LongitudeSample
		body string
	)
	if err := row.Scan(&body, &smp.TimestampMs, &smp.Longitude); err != nil {
		return nil, err
	}
	smp.Body = domain.Body(body)
	return &smp, nil
}
