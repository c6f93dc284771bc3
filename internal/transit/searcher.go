// Package transit finds the days on which a slow-moving body enters a sign.
package transit

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"jyotish-lab/internal/domain"
	"jyotish-lab/internal/ephemeris"
	"jyotish-lab/internal/observability"
	"jyotish-lab/internal/zodiac"
)

// DefaultHorizonDays bounds every entry search. Saturn dwells up to about
// 2.5 years in a sign and needs about 29.5 years for a full cycle; 4000 days
// covers the three consecutive signs of one window with margin.
const DefaultHorizonDays = 4000

// DefaultChunkDays is the number of consecutive days one worker scans per wave.
const DefaultChunkDays = 32

// Search outcomes recorded in metrics.
const (
	OutcomeFound           = "found"
	OutcomeHorizonExceeded = "horizon_exceeded"
	OutcomeEphemerisError  = "ephemeris_error"
)

// Searcher steps forward one day at a time looking for the first day a body
// is in a target sign.
//
// Retrograde motion is not corrected for: the first day the body touches the
// target sign is reported even if it later backs out of it.
type Searcher struct {
	provider    ephemeris.Provider
	body        domain.Body
	horizonDays int
	workers     int
	chunkDays   int
	log         zerolog.Logger
	metrics     *observability.Metrics
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithBody sets the body being tracked. Default is Saturn.
func WithBody(b domain.Body) Option {
	return func(s *Searcher) {
		s.body = b
	}
}

// WithHorizon sets the number of days searched. Non-positive values are ignored.
func WithHorizon(days int) Option {
	return func(s *Searcher) {
		if days > 0 {
			s.horizonDays = days
		}
	}
}

// WithWorkers evaluates disjoint day chunks on n goroutines.
// n <= 1 keeps the search sequential.
func WithWorkers(n int) Option {
	return func(s *Searcher) {
		s.workers = n
	}
}

// WithChunkDays sets the chunk size used by parallel searches.
func WithChunkDays(days int) Option {
	return func(s *Searcher) {
		if days > 0 {
			s.chunkDays = days
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Searcher) {
		s.log = l
	}
}

// WithMetrics sets the metrics sink. A nil value disables metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Searcher) {
		s.metrics = m
	}
}

// NewSearcher creates a Searcher over provider.
func NewSearcher(provider ephemeris.Provider, opts ...Option) *Searcher {
	s := &Searcher{
		provider:    provider,
		body:        domain.BodySaturn,
		horizonDays: DefaultHorizonDays,
		workers:     1,
		chunkDays:   DefaultChunkDays,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With().Str("component", "transit_search").Str("body", s.body.String()).Logger()
	return s
}

// Body returns the tracked body.
func (s *Searcher) Body() domain.Body {
	return s.body
}

// HorizonDays returns the search bound in days.
func (s *Searcher) HorizonDays() int {
	return s.horizonDays
}

// SignAt returns the sign occupied by the tracked body at moment.
func (s *Searcher) SignAt(ctx context.Context, moment time.Time) (domain.Sign, error) {
	lon, err := s.provider.LongitudeOf(ctx, s.body, moment)
	if err != nil {
		return 0, err
	}
	return zodiac.SignOf(lon), nil
}

// FindEntry returns the first day, counting start as day 0, on which the body
// is in target. It fails with domain.ErrSearchHorizonExceeded when no such day
// exists within the horizon, or with the ephemeris error that stopped the scan.
func (s *Searcher) FindEntry(ctx context.Context, start time.Time, target domain.Sign) (time.Time, error) {
	s.log.Debug().
		Str("target", target.Name()).
		Time("start", start).
		Int("horizon_days", s.horizonDays).
		Msg("Searching sign entry")

	var (
		day int
		err error
	)
	if s.workers > 1 {
		day, err = s.scanParallel(ctx, start, target)
	} else {
		day, err = s.scan(ctx, start, target, 0, s.horizonDays)
	}

	switch {
	case err != nil:
		s.metrics.RecordSearch(OutcomeEphemerisError, 0)
		return time.Time{}, fmt.Errorf("search %s entering %s: %w", s.body, target.Name(), err)
	case day < 0:
		s.metrics.RecordSearch(OutcomeHorizonExceeded, s.horizonDays)
		return time.Time{}, fmt.Errorf("%s entering %s within %d days of %s: %w",
			s.body, target.Name(), s.horizonDays, start.Format(time.DateOnly), domain.ErrSearchHorizonExceeded)
	}

	entry := start.AddDate(0, 0, day)
	s.metrics.RecordSearch(OutcomeFound, day)
	s.log.Info().
		Str("target", target.Name()).
		Str("entry", entry.Format(time.DateOnly)).
		Int("days", day).
		Msg("Found sign entry")
	return entry, nil
}

// scan checks days [from, to) in order and returns the first matching day, or -1.
func (s *Searcher) scan(ctx context.Context, start time.Time, target domain.Sign, from, to int) (int, error) {
	for day := from; day < to; day++ {
		if err := ctx.Err(); err != nil {
			return -1, fmt.Errorf("day %d: %w: %w", day, domain.ErrEphemerisUnavailable, err)
		}
		sign, err := s.SignAt(ctx, start.AddDate(0, 0, day))
		if err != nil {
			return -1, err
		}
		if sign == target {
			return day, nil
		}
	}
	return -1, nil
}

// chunkResult is the outcome of scanning one chunk.
type chunkResult struct {
	day int
	err error
}

// scanParallel scans the horizon in waves of s.workers chunks. Within a wave
// the chunks are inspected in chronological order once all have finished, so
// the earliest outcome wins regardless of completion order. A later chunk's
// error never masks an earlier match.
func (s *Searcher) scanParallel(ctx context.Context, start time.Time, target domain.Sign) (int, error) {
	waveDays := s.workers * s.chunkDays

	for waveStart := 0; waveStart < s.horizonDays; waveStart += waveDays {
		results := make([]chunkResult, s.workers)

		var g errgroup.Group
		for i := 0; i < s.workers; i++ {
			from := waveStart + i*s.chunkDays
			if from >= s.horizonDays {
				results[i] = chunkResult{day: -1}
				continue
			}
			to := min(from+s.chunkDays, s.horizonDays)

			g.Go(func() error {
				day, err := s.scan(ctx, start, target, from, to)
				results[i] = chunkResult{day: day, err: err}
				return nil
			})
		}
		_ = g.Wait()

		for _, r := range results {
			if r.err != nil {
				return -1, r.err
			}
			if r.day >= 0 {
				return r.day, nil
			}
		}
	}
	return -1, nil
}
