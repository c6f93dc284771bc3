// Package app wires configuration, logging, metrics, storage and the
// ephemeris provider into the components used by the command-line tools.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"jyotish-lab/internal/chart"
	"jyotish-lab/internal/config"
	"jyotish-lab/internal/content"
	"jyotish-lab/internal/ephemeris"
	"jyotish-lab/internal/ingestion"
	"jyotish-lab/internal/observability"
	"jyotish-lab/internal/sadesati"
	"jyotish-lab/internal/storage"
	chstore "jyotish-lab/internal/storage/clickhouse"
	"jyotish-lab/internal/storage/memory"
	"jyotish-lab/internal/storage/migrations"
	"jyotish-lab/internal/storage/postgres"
	"jyotish-lab/internal/transit"
)

// MetricsNamespace prefixes every exported metric.
const MetricsNamespace = "jyotish"

// App holds the process-wide collaborators.
type App struct {
	Config   config.Config
	Logger   zerolog.Logger
	Registry *prometheus.Registry
	Metrics  *observability.Metrics
	Store    storage.LongitudeSampleStore // nil when cache.backend is none
	Provider ephemeris.Provider
	Location *time.Location
	Content  *content.Content

	clock   func() time.Time
	closers []func() error
}

// New builds an App from cfg. The caller must Close it.
func New(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("timezone: %w", err)
	}

	reg := prometheus.NewRegistry()
	a := &App{
		Config:   cfg,
		Logger:   logger,
		Registry: reg,
		Metrics:  observability.NewMetrics(MetricsNamespace, reg),
		Location: loc,
		clock:    func() time.Time { return time.Now().UTC() },
	}

	a.Content, err = loadContent(cfg.Content.File)
	if err != nil {
		return nil, err
	}

	if err := a.openStore(ctx); err != nil {
		a.Close()
		return nil, err
	}

	a.Provider, err = a.buildProvider()
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Logger.Debug().
		Str("ephemeris", a.Provider.Name()).
		Str("cache", cfg.Cache.Backend).
		Msg("App initialized")
	return a, nil
}

// WithClock overrides the clock handed to the engine.
func (a *App) WithClock(clock func() time.Time) *App {
	a.clock = clock
	return a
}

// loadContent reads the narrative document at path, or returns the embedded
// one when path is empty.
func loadContent(path string) (*content.Content, error) {
	if path == "" {
		return content.Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("content.file: %w: %w", config.ErrInvalidConfig, err)
	}
	c, err := content.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("content.file %s: %w: %w", path, config.ErrInvalidConfig, err)
	}
	return c, nil
}

// openStore connects the configured sample store and applies migrations.
func (a *App) openStore(ctx context.Context) error {
	switch a.Config.Cache.Backend {
	case "", "none":
		return nil

	case "memory":
		a.Store = memory.NewLongitudeSampleStore()
		return nil

	case "postgres":
		pool, err := postgres.NewPool(ctx, a.Config.Postgres.DSN)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func() error { pool.Close(); return nil })
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return err
		}
		a.Store = postgres.NewLongitudeSampleStore(pool).WithMetrics(a.Metrics)
		return nil

	case "clickhouse":
		conn, err := migrations.RunClickhouseMigrations(ctx, a.Config.ClickHouse.DSN)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, conn.Close)
		a.Store = chstore.NewLongitudeSampleStore(conn).WithMetrics(a.Metrics)
		return nil

	default:
		return fmt.Errorf("cache.backend %q: %w", a.Config.Cache.Backend, config.ErrInvalidConfig)
	}
}

// buildProvider assembles the provider chain for the configured mode:
// base source, metrics, per-call timeout, then the read-through cache.
func (a *App) buildProvider() (ephemeris.Provider, error) {
	mode := ephemeris.ParseMode(a.Config.Ephemeris.Mode)

	var base ephemeris.Provider
	if mode == ephemeris.ModeTable {
		if a.Store == nil {
			return nil, fmt.Errorf("ephemeris mode table without a sample store: %w", config.ErrInvalidConfig)
		}
		base = ephemeris.NewTableProvider(a.Store).WithSpan(a.Config.Ephemeris.TableSpan)
	} else {
		base = a.source(mode)
	}

	p := ephemeris.WithTimeout(ephemeris.NewInstrumented(base, a.Metrics), a.Config.Ephemeris.Timeout)
	if a.Store != nil && mode != ephemeris.ModeTable {
		p = ephemeris.NewCachingProvider(p, a.Store, a.Logger)
	}
	return p, nil
}

// Source returns an uncached, instrumented provider that computes positions
// rather than reading stored samples. Table mode samples from the mean model.
func (a *App) Source() ephemeris.Provider {
	mode := ephemeris.ParseMode(a.Config.Ephemeris.Mode)
	if mode == ephemeris.ModeTable {
		mode = ephemeris.ModeMean
	}
	return ephemeris.WithTimeout(ephemeris.NewInstrumented(a.source(mode), a.Metrics), a.Config.Ephemeris.Timeout)
}

func (a *App) source(mode ephemeris.Mode) ephemeris.Provider {
	switch mode {
	case ephemeris.ModeRPC:
		return a.rpcClient()
	case ephemeris.ModeAuto:
		return ephemeris.NewFallbackProvider(a.rpcClient(), ephemeris.NewMeanProvider(), a.Logger)
	default:
		return ephemeris.NewMeanProvider()
	}
}

func (a *App) rpcClient() *ephemeris.HTTPClient {
	return ephemeris.NewHTTPClient(a.Config.Ephemeris.RPCEndpoint,
		ephemeris.WithHTTPTimeout(a.Config.Ephemeris.Timeout),
		ephemeris.WithLogger(a.Logger),
	)
}

// Searcher returns a Saturn searcher configured from search.*.
func (a *App) Searcher() *transit.Searcher {
	return transit.NewSearcher(a.Provider,
		transit.WithHorizon(a.Config.Search.HorizonDays),
		transit.WithWorkers(a.Config.Search.Workers),
		transit.WithChunkDays(a.Config.Search.ChunkDays),
		transit.WithLogger(a.Logger),
		transit.WithMetrics(a.Metrics),
	)
}

// Engine returns a Sade Sati engine.
func (a *App) Engine() *sadesati.Engine {
	return sadesati.NewEngine(a.Provider, a.Searcher()).
		WithClock(a.clock).
		WithContent(a.Content).
		WithLogger(a.Logger).
		WithMetrics(a.Metrics)
}

// Assembler returns a chart assembler.
func (a *App) Assembler() *chart.Assembler {
	return chart.NewAssembler().
		WithLogger(a.Logger).
		WithMetrics(a.Metrics)
}

// Sampler returns a sampler that fills the configured store from Source.
// It fails when no store is configured.
func (a *App) Sampler(batchSize int) (*ingestion.Sampler, error) {
	if a.Store == nil {
		return nil, fmt.Errorf("ingest needs a cache.backend: %w", config.ErrInvalidConfig)
	}
	return ingestion.NewSampler(ingestion.SamplerOptions{
		Provider:  a.Source(),
		Store:     a.Store,
		BatchSize: batchSize,
		Logger:    &a.Logger,
		Metrics:   a.Metrics,
	}), nil
}

// Close writes the metrics textfile if configured and releases storage.
func (a *App) Close() error {
	var errs []error
	if path := a.Config.Metrics.Textfile; path != "" {
		if err := observability.WriteTextfile(path, a.Registry); err != nil {
			errs = append(errs, err)
		}
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
