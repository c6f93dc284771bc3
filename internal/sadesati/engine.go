// Package sadesati tracks Saturn's passage through the three signs around the
// natal Moon sign: the sign before it, the sign itself, and the sign after it.
package sadesati

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats/scalar"

	"jyotish-lab/internal/content"
	"jyotish-lab/internal/domain"
	"jyotish-lab/internal/ephemeris"
	"jyotish-lab/internal/idhash"
	"jyotish-lab/internal/observability"
	"jyotish-lab/internal/transit"
	"jyotish-lab/internal/zodiac"
)

// Window end offset after the successor-sign entry.
const (
	endOffsetYears = 2
	endOffsetDays  = 182
)

// ResultStatus tells a complete result apart from a degraded one.
type ResultStatus string

const (
	StatusOK      ResultStatus = "ok"      // every date and the present sign resolved
	StatusPartial ResultStatus = "partial" // natal sign known, something else unresolved
	StatusFailed  ResultStatus = "failed"  // natal sign could not be determined
)

// Status is the state of a window evaluated at one moment.
type Status struct {
	Phase       domain.Phase
	PresentSign domain.Sign
	Percentage  *float64 // nil when not applicable
}

// Result is the outcome of Compute. It is always well formed: failures are
// carried in Err and Status, never returned.
type Result struct {
	WindowID    string
	Body        domain.Body
	BirthMoment time.Time
	EvaluatedAt time.Time

	NatalSign     domain.Sign
	NatalResolved bool
	Window        domain.TransitWindow

	Phase            domain.Phase
	PhaseLabel       string
	PhaseDescription string
	Percentage       *float64
	TotalDuration    string

	PresentSign     domain.Sign
	PresentResolved bool

	Status ResultStatus
	Err    error
}

// Engine builds and evaluates Sade Sati windows.
type Engine struct {
	provider ephemeris.Provider
	searcher *transit.Searcher
	content  *content.Content
	clock    func() time.Time
	log      zerolog.Logger
	metrics  *observability.Metrics
}

// NewEngine creates an Engine. The natal Moon comes from provider; transit
// boundaries come from searcher. A nil searcher tracks Saturn through provider
// with default settings.
func NewEngine(provider ephemeris.Provider, searcher *transit.Searcher) *Engine {
	if searcher == nil {
		searcher = transit.NewSearcher(provider)
	}
	return &Engine{
		provider: provider,
		searcher: searcher,
		content:  content.Default(),
		clock:    func() time.Time { return time.Now().UTC() },
		log:      zerolog.Nop(),
	}
}

// WithClock sets a custom clock function for deterministic output.
func (e *Engine) WithClock(clock func() time.Time) *Engine {
	e.clock = clock
	return e
}

// WithLogger sets the logger.
func (e *Engine) WithLogger(l zerolog.Logger) *Engine {
	e.log = l.With().Str("component", "sadesati").Logger()
	return e
}

// WithMetrics sets the metrics sink.
func (e *Engine) WithMetrics(m *observability.Metrics) *Engine {
	e.metrics = m
	return e
}

// WithContent overrides the narrative text.
func (e *Engine) WithContent(c *content.Content) *Engine {
	if c != nil {
		e.content = c
	}
	return e
}

// BuildWindow locates the three phase starts following natalMoment.
//
// Each search starts the day after the previous phase start. When a search
// runs out of horizon, that date and every later one stay nil and no error is
// returned. An ephemeris failure is returned together with the partial window.
func (e *Engine) BuildWindow(ctx context.Context, natal domain.Sign, natalMoment time.Time) (domain.TransitWindow, error) {
	w := domain.NewTransitWindow(natal)

	steps := []struct {
		name   string
		target domain.Sign
		dst    **time.Time
	}{
		{"phase1", w.Predecessor, &w.Phase1Start},
		{"phase2", w.NatalSign, &w.Phase2Start},
		{"phase3", w.Successor, &w.Phase3Start},
	}

	from := natalMoment
	for _, step := range steps {
		entry, err := e.searcher.FindEntry(ctx, from, step.target)
		if errors.Is(err, domain.ErrSearchHorizonExceeded) {
			e.log.Warn().Err(err).Str("step", step.name).Msg("Phase start unresolved")
			return w, nil
		}
		if err != nil {
			return w, fmt.Errorf("%s start: %w", step.name, err)
		}
		*step.dst = &entry
		from = entry.AddDate(0, 0, 1)
	}

	end := w.Phase3Start.AddDate(endOffsetYears, 0, endOffsetDays)
	w.End = &end
	return w, nil
}

// Evaluate classifies now against the window and computes the completion
// percentage. The percentage is only set while the window is active and both
// its start and end are resolved.
func (e *Engine) Evaluate(ctx context.Context, w domain.TransitWindow, now time.Time) (Status, error) {
	present, err := e.searcher.SignAt(ctx, now)
	if err != nil {
		return Status{Phase: domain.PhaseInactive}, fmt.Errorf("present sign: %w", err)
	}

	st := Status{Phase: w.PhaseFor(present), PresentSign: present}
	if st.Phase.IsActive() && w.Phase1Start != nil && w.End != nil {
		pct := Completion(*w.Phase1Start, *w.End, now)
		st.Percentage = &pct
	}
	return st, nil
}

// Completion returns how much of [start, end] has elapsed at now, in percent,
// clamped to [0, 100] and rounded to one decimal.
func Completion(start, end, now time.Time) float64 {
	total := end.Sub(start).Hours() / 24
	if total <= 0 {
		return 100
	}
	elapsed := now.Sub(start).Hours() / 24
	pct := 100 * elapsed / total
	pct = max(0, min(100, pct))
	return scalar.Round(pct, 1)
}

// Compute derives the natal Moon sign for birth, builds the window that
// follows it and evaluates the window at the engine clock.
func (e *Engine) Compute(ctx context.Context, birth time.Time) (res Result) {
	res = Result{
		Body:          e.searcher.Body(),
		BirthMoment:   birth,
		EvaluatedAt:   e.clock(),
		Phase:         domain.PhaseInactive,
		TotalDuration: e.content.TotalDuration,
		Status:        StatusFailed,
	}
	defer func() {
		res.PhaseLabel = e.content.PhaseLabel(res.Phase)
		res.PhaseDescription = e.content.PhaseDescription(res.Phase)
		e.metrics.RecordEngineResult(string(res.Status), string(res.Phase))
	}()

	moon, err := e.provider.LongitudeOf(ctx, domain.BodyMoon, birth)
	if err != nil {
		res.Err = fmt.Errorf("natal moon: %w", err)
		e.log.Warn().Err(res.Err).Msg("Sade Sati computation failed")
		return res
	}
	res.NatalSign = zodiac.SignOf(moon)
	res.NatalResolved = true
	res.WindowID = idhash.ComputeWindowID(res.Body, res.NatalSign, birth)
	res.Window = domain.NewTransitWindow(res.NatalSign)
	res.Status = StatusPartial

	window, buildErr := e.BuildWindow(ctx, res.NatalSign, birth)
	res.Window = window

	st, evalErr := e.Evaluate(ctx, window, res.EvaluatedAt)
	if evalErr == nil {
		res.Phase = st.Phase
		res.Percentage = st.Percentage
		res.PresentSign = st.PresentSign
		res.PresentResolved = true
	}

	res.Err = errors.Join(buildErr, evalErr)
	if res.Err == nil && window.Phase2Start != nil && window.Resolved() {
		res.Status = StatusOK
	}

	e.log.Info().
		Str("natal_sign", res.NatalSign.Name()).
		Str("phase", string(res.Phase)).
		Str("status", string(res.Status)).
		Msg("Computed Sade Sati")
	return res
}
