package clickhouse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jyotish-lab/internal/domain"
	"jyotish-lab/internal/observability"
	"jyotish-lab/internal/storage"
)

// LongitudeSampleStore implements storage.LongitudeSampleStore using ClickHouse.
type LongitudeSampleStore struct {
	conn    *Conn
	metrics *observability.Metrics
}

// NewLongitudeSampleStore creates a new LongitudeSampleStore.
func NewLongitudeSampleStore(conn *Conn) *LongitudeSampleStore {
	return &LongitudeSampleStore{conn: conn}
}

// WithMetrics records query durations and errors.
func (s *LongitudeSampleStore) WithMetrics(m *observability.Metrics) *LongitudeSampleStore {
	s.metrics = m
	return s
}

// Compile-time interface check.
var _ storage.LongitudeSampleStore = (*LongitudeSampleStore)(nil)

// InsertBulk adds multiple samples. Fails entire batch on duplicate (body, timestamp_ms).
// MergeTree does not enforce uniqueness, so duplicates are checked before the batch is sent.
func (s *LongitudeSampleStore) InsertBulk(ctx context.Context, samples []*domain.LongitudeSample) (err error) {
	if len(samples) == 0 {
		return nil
	}
	defer s.observe("insert_bulk", time.Now(), &err)

	// Check for intra-batch duplicates
	type key struct {
		body        domain.Body
		timestampMs int64
	}
	seen := make(map[key]struct{}, len(samples))
	for _, smp := range samples {
		if smp == nil || !smp.Body.IsValid() {
			return storage.ErrInvalidInput
		}
		k := key{smp.Body, smp.TimestampMs}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// Check for duplicates against existing rows
	for _, smp := range samples {
		exists, err := s.exists(ctx, smp.Body, smp.TimestampMs)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO longitude_samples (body, timestamp_ms, longitude)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, smp := range samples {
		if err := batch.Append(string(smp.Body), smp.TimestampMs, smp.Longitude); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// Get retrieves the sample for body at exactly timestampMs. Returns ErrNotFound if not exists.
func (s *LongitudeSampleStore) Get(ctx context.Context, body domain.Body, timestampMs int64) (_ *domain.LongitudeSample, err error) {
	defer s.observe("get", time.Now(), &err)

	query := `
		SELECT body, timestamp_ms, longitude
		FROM longitude_samples
		WHERE body = ? AND timestamp_ms = ?
		LIMIT 1
	`

	rows, err := s.conn.Query(ctx, query, string(body), timestampMs)
	if err != nil {
		return nil, fmt.Errorf("query sample: %w", err)
	}
	defer rows.Close()

	samples, err := scanSamples(rows)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, storage.ErrNotFound
	}
	return samples[0], nil
}

// GetByTimeRange retrieves samples for body within [start, end] (inclusive).
func (s *LongitudeSampleStore) GetByTimeRange(ctx context.Context, body domain.Body, start, end int64) (_ []*domain.LongitudeSample, err error) {
	defer s.observe("get_by_time_range", time.Now(), &err)

	query := `
		SELECT body, timestamp_ms, longitude
		FROM longitude_samples
		WHERE body = ? AND timestamp_ms >= ? AND timestamp_ms <= ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, string(body), start, end)
	if err != nil {
		return nil, fmt.Errorf("query by time range: %w", err)
	}
	defer rows.Close()

	return scanSamples(rows)
}

// exists checks if a sample with the given key exists.
func (s *LongitudeSampleStore) exists(ctx context.Context, body domain.Body, timestampMs int64) (bool, error) {
	query := `
		SELECT count(*) FROM longitude_samples
		WHERE body = ? AND timestamp_ms = ?
	`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, string(body), timestampMs).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *LongitudeSampleStore) observe(op string, started time.Time, err *error) {
	var e error
	if err != nil && !errors.Is(*err, storage.ErrNotFound) {
		e = *err
	}
	s.metrics.RecordDBQuery("clickhouse", op, time.Since(started).Seconds(), e)
}

// scanSamples scans multiple rows.
func scanSamples(rows chRows) ([]*domain.LongitudeSample, error) {
	var samples []*domain.LongitudeSample

	for rows.Next() {
		var smp domain.LongitudeSample
		var body string

		if err := rows.Scan(&body, &smp.TimestampMs, &smp.Longitude); err != nil {
			return nil, fmt.Errorf("scan sample row: %w", err)
		}
		smp.Body = domain.Body(body)
		samples = append(samples, &smp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sample rows: %w", err)
	}

	return samples, nil
}
