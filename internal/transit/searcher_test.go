package transit

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"jyotish-lab/internal/domain"
	"jyotish-lab/internal/ephemeris"
	"jyotish-lab/internal/observability"
)

var base = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// linearProvider moves the body `rate` degrees per day from 0° at base.
func linearProvider(rate float64) ephemeris.Func {
	return func(_ context.Context, _ domain.Body, moment time.Time) (float64, error) {
		days := moment.Sub(base).Hours() / 24
		return rate * days, nil
	}
}

func TestFindEntry_Linear(t *testing.T) {
	s := NewSearcher(linearProvider(1))

	tests := []struct {
		target  domain.Sign
		wantDay int
	}{
		{domain.Aries, 0},
		{domain.Taurus, 30},
		{domain.Virgo, 150},
		{domain.Pisces, 330},
	}

	for _, tt := range tests {
		t.Run(tt.target.Name(), func(t *testing.T) {
			got, err := s.FindEntry(context.Background(), base, tt.target)
			if err != nil {
				t.Fatalf("FindEntry: %v", err)
			}
			want := base.AddDate(0, 0, tt.wantDay)
			if !got.Equal(want) {
				t.Errorf("got %s, want %s", got.Format(time.DateOnly), want.Format(time.DateOnly))
			}
		})
	}
}

func TestFindEntry_DayZeroIsStart(t *testing.T) {
	s := NewSearcher(linearProvider(1))
	start := base.AddDate(0, 0, 45) // already in Taurus

	got, err := s.FindEntry(context.Background(), start, domain.Taurus)
	if err != nil {
		t.Fatalf("FindEntry: %v", err)
	}
	if !got.Equal(start) {
		t.Errorf("expected start date, got %s", got.Format(time.DateOnly))
	}
}

func TestFindEntry_HorizonExceeded(t *testing.T) {
	var calls atomic.Int32
	stuck := ephemeris.Func(func(_ context.Context, _ domain.Body, _ time.Time) (float64, error) {
		calls.Add(1)
		return 100, nil // always Cancer
	})

	s := NewSearcher(stuck, WithHorizon(500))
	_, err := s.FindEntry(context.Background(), base, domain.Gemini)
	if !errors.Is(err, domain.ErrSearchHorizonExceeded) {
		t.Fatalf("expected ErrSearchHorizonExceeded, got %v", err)
	}
	if calls.Load() != 500 {
		t.Errorf("expected 500 lookups, got %d", calls.Load())
	}
}

func TestFindEntry_DefaultHorizon(t *testing.T) {
	s := NewSearcher(linearProvider(0))
	if s.HorizonDays() != DefaultHorizonDays {
		t.Errorf("expected default horizon %d, got %d", DefaultHorizonDays, s.HorizonDays())
	}

	_, err := s.FindEntry(context.Background(), base, domain.Leo)
	if !errors.Is(err, domain.ErrSearchHorizonExceeded) {
		t.Errorf("expected ErrSearchHorizonExceeded, got %v", err)
	}
}

func TestFindEntry_EphemerisFailure(t *testing.T) {
	boom := errors.New("connection refused")
	failing := ephemeris.Func(func(_ context.Context, _ domain.Body, moment time.Time) (float64, error) {
		if moment.After(base.AddDate(0, 0, 10)) {
			return 0, errors.Join(domain.ErrEphemerisUnavailable, boom)
		}
		return 100, nil
	})

	s := NewSearcher(failing)
	_, err := s.FindEntry(context.Background(), base, domain.Leo)
	if !errors.Is(err, domain.ErrEphemerisUnavailable) {
		t.Fatalf("expected ErrEphemerisUnavailable, got %v", err)
	}
	if errors.Is(err, domain.ErrSearchHorizonExceeded) {
		t.Errorf("ephemeris failure must not look like horizon exhaustion")
	}
}

func TestFindEntry_FirstForwardTouch(t *testing.T) {
	// Enters Taurus on day 20, retrogrades back into Aries on day 25,
	// settles in Taurus from day 40.
	wobble := ephemeris.Func(func(_ context.Context, _ domain.Body, moment time.Time) (float64, error) {
		day := int(moment.Sub(base).Hours() / 24)
		switch {
		case day >= 20 && day < 25:
			return 31, nil
		case day >= 40:
			return 35, nil
		default:
			return 29, nil
		}
	})

	s := NewSearcher(wobble)
	got, err := s.FindEntry(context.Background(), base, domain.Taurus)
	if err != nil {
		t.Fatalf("FindEntry: %v", err)
	}
	if want := base.AddDate(0, 0, 20); !got.Equal(want) {
		t.Errorf("expected first touch %s, got %s", want.Format(time.DateOnly), got.Format(time.DateOnly))
	}
}

func TestFindEntry_ParallelMatchesSequential(t *testing.T) {
	slow := linearProvider(0.034) // roughly Saturn's pace
	seq := NewSearcher(slow)
	par := NewSearcher(slow, WithWorkers(4), WithChunkDays(17))

	for _, target := range []domain.Sign{domain.Aries, domain.Taurus, domain.Gemini, domain.Cancer} {
		want, wantErr := seq.FindEntry(context.Background(), base, target)
		got, gotErr := par.FindEntry(context.Background(), base, target)

		if (wantErr == nil) != (gotErr == nil) {
			t.Fatalf("%s: error mismatch: sequential=%v parallel=%v", target, wantErr, gotErr)
		}
		if !got.Equal(want) {
			t.Errorf("%s: parallel %s != sequential %s", target, got.Format(time.DateOnly), want.Format(time.DateOnly))
		}
	}
}

func TestFindEntry_ParallelEarliestWins(t *testing.T) {
	// Later chunks answer instantly; the chunk holding the true entry is slow.
	p := ephemeris.Func(func(_ context.Context, _ domain.Body, moment time.Time) (float64, error) {
		day := int(moment.Sub(base).Hours() / 24)
		if day < 10 {
			time.Sleep(time.Millisecond)
		}
		if day >= 5 {
			return 45, nil
		}
		return 15, nil
	})

	s := NewSearcher(p, WithWorkers(3), WithChunkDays(10))
	got, err := s.FindEntry(context.Background(), base, domain.Taurus)
	if err != nil {
		t.Fatalf("FindEntry: %v", err)
	}
	if want := base.AddDate(0, 0, 5); !got.Equal(want) {
		t.Errorf("expected %s, got %s", want.Format(time.DateOnly), got.Format(time.DateOnly))
	}
}

func TestFindEntry_ParallelErrorAfterMatch(t *testing.T) {
	p := ephemeris.Func(func(_ context.Context, _ domain.Body, moment time.Time) (float64, error) {
		day := int(moment.Sub(base).Hours() / 24)
		if day >= 20 {
			return 0, domain.ErrEphemerisUnavailable
		}
		if day >= 3 {
			return 45, nil
		}
		return 15, nil
	})

	s := NewSearcher(p, WithWorkers(4), WithChunkDays(10))
	got, err := s.FindEntry(context.Background(), base, domain.Taurus)
	if err != nil {
		t.Fatalf("FindEntry: %v", err)
	}
	if want := base.AddDate(0, 0, 3); !got.Equal(want) {
		t.Errorf("expected %s, got %s", want.Format(time.DateOnly), got.Format(time.DateOnly))
	}
}

func TestFindEntry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSearcher(linearProvider(0))
	_, err := s.FindEntry(ctx, base, domain.Leo)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if !errors.Is(err, domain.ErrEphemerisUnavailable) {
		t.Errorf("expected ErrEphemerisUnavailable, got %v", err)
	}
	if kind := domain.KindOf(err); kind != domain.KindEphemerisUnavailable {
		t.Errorf("expected kind %s, got %s", domain.KindEphemerisUnavailable, kind)
	}
}

func TestFindEntry_ParallelContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSearcher(linearProvider(0), WithWorkers(4))
	_, err := s.FindEntry(ctx, base, domain.Leo)
	if !errors.Is(err, domain.ErrEphemerisUnavailable) {
		t.Errorf("expected ErrEphemerisUnavailable, got %v", err)
	}
}

func TestFindEntry_Metrics(t *testing.T) {
	m := observability.NewMetrics("test", prometheus.NewRegistry())
	s := NewSearcher(linearProvider(1), WithMetrics(m), WithHorizon(100))

	if _, err := s.FindEntry(context.Background(), base, domain.Taurus); err != nil {
		t.Fatalf("FindEntry: %v", err)
	}
	if _, err := s.FindEntry(context.Background(), base, domain.Pisces); err == nil {
		t.Fatal("expected horizon error")
	}

	if got := testutil.ToFloat64(m.SearchOutcomes.WithLabelValues(OutcomeFound)); got != 1 {
		t.Errorf("found = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.SearchOutcomes.WithLabelValues(OutcomeHorizonExceeded)); got != 1 {
		t.Errorf("horizon_exceeded = %v, want 1", got)
	}
}

func TestSignAt(t *testing.T) {
	s := NewSearcher(linearProvider(1), WithBody(domain.BodyJupiter))
	if s.Body() != domain.BodyJupiter {
		t.Fatalf("expected JUPITER, got %s", s.Body())
	}

	sign, err := s.SignAt(context.Background(), base.AddDate(0, 0, 200))
	if err != nil {
		t.Fatalf("SignAt: %v", err)
	}
	if sign != domain.Libra {
		t.Errorf("expected Libra, got %s", sign)
	}
}
