package memory

import (
	"context"
	"errors"
	"testing"

	"jyotish-lab/internal/domain"
	"jyotish-lab/internal/storage"
)

func TestLongitudeSampleStore_InsertBulkAndGet(t *testing.T) {
	store := NewLongitudeSampleStore()
	ctx := context.Background()

	samples := []*domain.LongitudeSample{
		{Body: domain.BodySaturn, TimestampMs: 1000, Longitude: 300.5},
		{Body: domain.BodySaturn, TimestampMs: 2000, Longitude: 300.6},
		{Body: domain.BodyMoon, TimestampMs: 1000, Longitude: 12.0},
	}

	if err := store.InsertBulk(ctx, samples); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.Get(ctx, domain.BodySaturn, 2000)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Longitude != 300.6 {
		t.Errorf("Expected longitude 300.6, got %f", got.Longitude)
	}

	if store.Len() != 3 {
		t.Errorf("Expected 3 samples, got %d", store.Len())
	}
}

func TestLongitudeSampleStore_GetNotFound(t *testing.T) {
	store := NewLongitudeSampleStore()

	_, err := store.Get(context.Background(), domain.BodySaturn, 1000)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestLongitudeSampleStore_DuplicateKey(t *testing.T) {
	store := NewLongitudeSampleStore()
	ctx := context.Background()

	samples := []*domain.LongitudeSample{
		{Body: domain.BodySaturn, TimestampMs: 1000, Longitude: 300.5},
	}

	if err := store.InsertBulk(ctx, samples); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.InsertBulk(ctx, samples)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestLongitudeSampleStore_IntraBatchDuplicate(t *testing.T) {
	store := NewLongitudeSampleStore()
	ctx := context.Background()

	samples := []*domain.LongitudeSample{
		{Body: domain.BodySaturn, TimestampMs: 1000, Longitude: 300.5},
		{Body: domain.BodySaturn, TimestampMs: 1000, Longitude: 300.7}, // duplicate key
	}

	err := store.InsertBulk(ctx, samples)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey for intra-batch duplicate, got %v", err)
	}

	// Verify nothing was inserted
	if store.Len() != 0 {
		t.Errorf("Expected 0 samples (rollback), got %d", store.Len())
	}
}

func TestLongitudeSampleStore_InvalidBody(t *testing.T) {
	store := NewLongitudeSampleStore()

	err := store.InsertBulk(context.Background(), []*domain.LongitudeSample{
		{Body: "PLUTO", TimestampMs: 1000},
	})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestLongitudeSampleStore_GetByTimeRange(t *testing.T) {
	store := NewLongitudeSampleStore()
	ctx := context.Background()

	samples := []*domain.LongitudeSample{
		{Body: domain.BodySaturn, TimestampMs: 3000, Longitude: 3},
		{Body: domain.BodySaturn, TimestampMs: 1000, Longitude: 1},
		{Body: domain.BodySaturn, TimestampMs: 2000, Longitude: 2},
		{Body: domain.BodySaturn, TimestampMs: 4000, Longitude: 4},
		{Body: domain.BodyJupiter, TimestampMs: 2000, Longitude: 99},
	}
	if err := store.InsertBulk(ctx, samples); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	result, err := store.GetByTimeRange(ctx, domain.BodySaturn, 2000, 3000)
	if err != nil {
		t.Fatalf("GetByTimeRange failed: %v", err)
	}

	if len(result) != 2 {
		t.Fatalf("Expected 2 samples in range, got %d", len(result))
	}
	// Verify ascending order
	if result[0].TimestampMs != 2000 || result[1].TimestampMs != 3000 {
		t.Errorf("Expected ordered timestamps [2000, 3000], got [%d, %d]", result[0].TimestampMs, result[1].TimestampMs)
	}
}
