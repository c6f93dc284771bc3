package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"jyotish-lab/internal/domain"
	"jyotish-lab/internal/storage"
)

// LongitudeSampleStore is an in-memory implementation of storage.LongitudeSampleStore.
type LongitudeSampleStore struct {
	mu   sync.RWMutex
	data map[string]*domain.LongitudeSample // keyed by (body, timestamp_ms)
}

// NewLongitudeSampleStore creates a new in-memory longitude sample store.
func NewLongitudeSampleStore() *LongitudeSampleStore {
	return &LongitudeSampleStore{
		data: make(map[string]*domain.LongitudeSample),
	}
}

// Compile-time interface check.
var _ storage.LongitudeSampleStore = (*LongitudeSampleStore)(nil)

// sampleKey generates a unique key for a sample.
func sampleKey(body domain.Body, timestampMs int64) string {
	return fmt.Sprintf("%s|%d", body, timestampMs)
}

// InsertBulk adds multiple samples. Fails entire batch on duplicate.
func (s *LongitudeSampleStore) InsertBulk(_ context.Context, samples []*domain.LongitudeSample) error {
	if len(samples) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Track keys in this batch to detect intra-batch duplicates
	batchKeys := make(map[string]struct{}, len(samples))

	// First pass: validate and check for duplicates (existing + intra-batch)
	for _, smp := range samples {
		if smp == nil || !smp.Body.IsValid() {
			return storage.ErrInvalidInput
		}
		key := sampleKey(smp.Body, smp.TimestampMs)

		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	// Second pass: insert all
	for _, smp := range samples {
		sampleCopy := *smp
		s.data[sampleKey(smp.Body, smp.TimestampMs)] = &sampleCopy
	}

	return nil
}

// Get retrieves the sample for body at exactly timestampMs.
func (s *LongitudeSampleStore) Get(_ context.Context, body domain.Body, timestampMs int64) (*domain.LongitudeSample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	smp, ok := s.data[sampleKey(body, timestampMs)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	sampleCopy := *smp
	return &sampleCopy, nil
}

// GetByTimeRange retrieves samples for body within [start, end] (inclusive).
func (s *LongitudeSampleStore) GetByTimeRange(_ context.Context, body domain.Body, start, end int64) ([]*domain.LongitudeSample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.LongitudeSample
	for _, smp := range s.data {
		if smp.Body == body && smp.TimestampMs >= start && smp.TimestampMs <= end {
			sampleCopy := *smp
			result = append(result, &sampleCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].TimestampMs < result[j].TimestampMs
	})

	return result, nil
}

// Len returns the number of stored samples.
func (s *LongitudeSampleStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
