// Package chart applies the divisional projections across a set of bodies.
package chart

import (
	"context"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"jyotish-lab/internal/divisional"
	"jyotish-lab/internal/domain"
	"jyotish-lab/internal/ephemeris"
	"jyotish-lab/internal/idhash"
	"jyotish-lab/internal/observability"
	"jyotish-lab/internal/zodiac"
)

// BodyChart is one body's decomposition and every harmonic projection.
// When Err is set the body could not be computed and the other fields are zero.
type BodyChart struct {
	Body          domain.Body
	Longitude     float64 // normalized to [0, 360)
	Decomposition domain.SignDecomposition
	Projections   map[int]divisional.Projection // keyed by division count, D1 excluded
	Err           error
}

// Projection returns the placement of the body in division n.
func (c BodyChart) Projection(n int) (divisional.Projection, error) {
	if _, err := divisional.Lookup(n); err != nil {
		return divisional.Projection{}, err
	}
	if n == 1 {
		return divisional.Projection{Division: 1, Sign: c.Decomposition.Sign}, nil
	}
	return c.Projections[n], nil
}

// Set is the assembled chart for a group of bodies.
type Set struct {
	ChartID string
	Moment  time.Time
	Bodies  []domain.Body // in request order
	Charts  map[domain.Body]BodyChart
}

// Failed returns the bodies whose charts could not be computed, in request order.
func (s Set) Failed() []domain.Body {
	var out []domain.Body
	for _, b := range s.Bodies {
		if s.Charts[b].Err != nil {
			out = append(out, b)
		}
	}
	return out
}

// Compute decomposes one position and projects it into every harmonic.
func Compute(pos domain.CelestialPosition) BodyChart {
	d := zodiac.Decompose(pos.Longitude)
	harmonics := divisional.Harmonics()

	projections := make(map[int]divisional.Projection, len(harmonics))
	for _, n := range harmonics {
		// Harmonics only yields supported counts.
		p, _ := divisional.ProjectDecomposition(d, n)
		projections[n] = p
	}

	return BodyChart{
		Body:          pos.Body,
		Longitude:     zodiac.Longitude(d),
		Decomposition: d,
		Projections:   projections,
	}
}

// Assembler builds chart sets. Bodies are independent and computed concurrently.
type Assembler struct {
	workers int
	log     zerolog.Logger
	metrics *observability.Metrics
}

// NewAssembler creates an Assembler using one worker per CPU.
func NewAssembler() *Assembler {
	return &Assembler{
		workers: runtime.GOMAXPROCS(0),
		log:     zerolog.Nop(),
	}
}

// WithWorkers limits concurrent body computations.
func (a *Assembler) WithWorkers(n int) *Assembler {
	if n > 0 {
		a.workers = n
	}
	return a
}

// WithLogger sets the logger.
func (a *Assembler) WithLogger(l zerolog.Logger) *Assembler {
	a.log = l.With().Str("component", "chart_assembler").Logger()
	return a
}

// WithMetrics sets the metrics sink.
func (a *Assembler) WithMetrics(m *observability.Metrics) *Assembler {
	a.metrics = m
	return a
}

// Assemble computes a chart for every position. The result for a body does not
// depend on the order positions are given in. A repeated body keeps its last position.
func (a *Assembler) Assemble(ctx context.Context, positions []domain.CelestialPosition) Set {
	charts := make([]BodyChart, len(positions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, pos := range positions {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				charts[i] = BodyChart{Body: pos.Body, Err: err}
				return nil
			}
			charts[i] = Compute(pos)
			return nil
		})
	}
	_ = g.Wait()

	set := newSet(positions)
	for _, c := range charts {
		set.Charts[c.Body] = c
		a.metrics.RecordChart(c.Err)
	}
	return set
}

// AssembleAt fetches each body's longitude at moment and assembles the set.
// A body whose lookup fails carries the error in its BodyChart; the other
// bodies still complete.
func (a *Assembler) AssembleAt(ctx context.Context, p ephemeris.Provider, bodies []domain.Body, moment time.Time) Set {
	positions := make([]domain.CelestialPosition, len(bodies))
	errs := make([]error, len(bodies))

	var g errgroup.Group
	g.SetLimit(a.workers)
	for i, body := range bodies {
		g.Go(func() error {
			positions[i], errs[i] = ephemeris.Position(ctx, p, body, moment)
			return nil
		})
	}
	_ = g.Wait()

	var ok []domain.CelestialPosition
	for i, err := range errs {
		if err == nil {
			ok = append(ok, positions[i])
		}
	}

	set := a.Assemble(ctx, ok)
	set.Bodies = bodies
	set.Moment = moment
	set.ChartID = idhash.ComputeChartID(moment, bodies)

	for i, err := range errs {
		if err == nil {
			continue
		}
		a.log.Warn().Err(err).Str("body", bodies[i].String()).Msg("Body lookup failed")
		set.Charts[bodies[i]] = BodyChart{Body: bodies[i], Err: err}
		a.metrics.RecordChart(err)
	}
	return set
}

func newSet(positions []domain.CelestialPosition) Set {
	set := Set{Charts: make(map[domain.Body]BodyChart, len(positions))}
	seen := make(map[domain.Body]bool, len(positions))
	for _, pos := range positions {
		if !seen[pos.Body] {
			seen[pos.Body] = true
			set.Bodies = append(set.Bodies, pos.Body)
		}
	}
	if len(positions) > 0 {
		set.Moment = positions[0].Moment
	}
	set.ChartID = idhash.ComputeChartID(set.Moment, set.Bodies)
	return set
}

// Table extracts the body → sign/house table for division n. Bodies that
// failed are left out. An unsupported n fails this request only.
func Table(set Set, n int) (domain.DivisionalChart, error) {
	if _, err := divisional.Lookup(n); err != nil {
		return domain.DivisionalChart{}, err
	}

	table := domain.DivisionalChart{
		Division:   n,
		Placements: make(map[domain.Body]domain.Placement, len(set.Charts)),
	}
	for body, c := range set.Charts {
		if c.Err != nil {
			continue
		}
		p, err := c.Projection(n)
		if err != nil {
			return domain.DivisionalChart{}, err
		}
		table.Placements[body] = domain.Placement{
			Sign:  p.Sign,
			House: p.Sign.Number(),
			Part:  p.Part,
		}
	}
	return table, nil
}
