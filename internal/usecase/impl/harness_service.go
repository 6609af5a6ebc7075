package impl

import (
	"context"
	"log/slog"
	"time"

	"techmarket/internal/benchmark"
	"techmarket/internal/catalog"
	"techmarket/internal/domain/entity"
	"techmarket/internal/domain/query"
	"techmarket/internal/domain/store"
	"techmarket/internal/errors"
	"techmarket/internal/generator"
	"techmarket/internal/infra/connect"
	"techmarket/internal/loader"
	"techmarket/internal/usecase"

	"golang.org/x/sync/errgroup"
)

// ErrNoConnector is returned for a backend without a configured connector.
var ErrNoConnector = errors.New("no connector for backend")

// Settings are the run-wide knobs of the harness.
type Settings struct {
	Seed             int64
	Counts           entity.Counts
	Runs             int
	ResultLimit      int
	ParallelBackends bool
	Retry            connect.Policy
}

type harnessService struct {
	connectors map[entity.Backend]store.Connector
	generator  *generator.Generator
	loader     *loader.Loader
	catalog    *catalog.Catalog
	runner     *benchmark.Runner
	settings   Settings
	logger     *slog.Logger
	now        func() time.Time
}

// NewHarnessService creates a new harness service instance
func NewHarnessService(
	connectors []store.Connector,
	gen *generator.Generator,
	ld *loader.Loader,
	cat *catalog.Catalog,
	runner *benchmark.Runner,
	settings Settings,
	logger *slog.Logger,
) usecase.HarnessUsecase {
	byBackend := make(map[entity.Backend]store.Connector, len(connectors))
	for _, c := range connectors {
		byBackend[c.Backend()] = c
	}

	return &harnessService{
		connectors: byBackend,
		generator:  gen,
		loader:     ld,
		catalog:    cat,
		runner:     runner,
		settings:   settings,
		logger:     logger,
		now:        time.Now,
	}
}

// withStore opens a session for the duration of one phase.
func (s *harnessService) withStore(ctx context.Context, backend entity.Backend, fn func(store.Store) error) error {
	c, ok := s.connectors[backend]
	if !ok {
		return errors.Wrap(ErrNoConnector, backend.String())
	}

	st, err := connect.WithRetry(ctx, s.logger, c, s.settings.Retry)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(context.WithoutCancel(ctx)); cerr != nil {
			s.logger.WarnContext(ctx, "Failed to close session",
				slog.String("backend", backend.String()),
				slog.Any("error", cerr),
			)
		}
	}()

	return fn(st)
}

// CreateSchema creates tables, collections and indexes on one backend
func (s *harnessService) CreateSchema(ctx context.Context, backend entity.Backend) error {
	return s.withStore(ctx, backend, func(st store.Store) error {
		start := time.Now()
		if err := st.CreateSchema(ctx); err != nil {
			return err
		}
		s.logger.InfoContext(ctx, "Schema created",
			slog.String("backend", backend.String()),
			slog.Duration("duration", time.Since(start)),
		)

		return nil
	})
}

// Load writes the dataset into one backend
func (s *harnessService) Load(ctx context.Context, backend entity.Backend, ds *entity.Dataset) (*loader.Stats, error) {
	var stats *loader.Stats
	err := s.withStore(ctx, backend, func(st store.Store) error {
		var err error
		stats, err = s.loader.Load(ctx, backend, ds, st)

		return err
	})
	if err != nil {
		return stats, err
	}

	s.logger.InfoContext(ctx, "Dataset loaded",
		slog.String("backend", backend.String()),
		slog.Int("entities", stats.Entities),
		slog.Duration("duration", stats.Duration),
	)

	return stats, nil
}

// Benchmark runs every question against one backend. A failing question is
// recorded in its result and does not stop the others.
func (s *harnessService) Benchmark(ctx context.Context, backend entity.Backend, params query.Params) (*benchmark.BackendReport, error) {
	report := &benchmark.BackendReport{Backend: backend}
	if c, ok := s.connectors[backend]; ok {
		report.Driver = c.Driver()
	}

	plans, err := s.catalog.Plans(backend, params)
	if err != nil {
		return report, err
	}

	err = s.withStore(ctx, backend, func(st store.Store) error {
		for _, plan := range plans {
			m, runErr := s.runner.Run(ctx, st, plan, s.settings.Runs)
			report.Results = append(report.Results, benchmark.Aggregate(m))
			if runErr != nil && ctx.Err() != nil {
				return errors.WithStack(ctx.Err())
			}
		}

		return nil
	})

	return report, err
}

// Run executes the requested phases for each backend and assembles the report.
func (s *harnessService) Run(ctx context.Context, req usecase.RunRequest) (*benchmark.Report, error) {
	report := &benchmark.Report{
		GeneratedAt: s.now().UTC(),
		Seed:        s.settings.Seed,
		Counts:      s.settings.Counts,
		Runs:        s.settings.Runs,
	}

	var ds *entity.Dataset
	if req.Phases.Load || req.Phases.Bench {
		start := time.Now()
		var err error
		ds, err = s.generator.Generate(ctx, s.settings.Seed, s.settings.Counts)
		if err != nil {
			return nil, err
		}
		s.logger.InfoContext(ctx, "Dataset generated",
			slog.Int64("seed", s.settings.Seed),
			slog.Int("customers", len(ds.Customers)),
			slog.Int("products", len(ds.Products)),
			slog.Int("orders", len(ds.Orders)),
			slog.Duration("duration", time.Since(start)),
		)
		report.Params = benchmark.SampleParams(ds, s.settings.Seed, s.settings.ResultLimit)
	}

	sections := make([]benchmark.BackendReport, len(req.Backends))
	pipeline := func(ctx context.Context, i int) {
		sections[i] = s.pipeline(ctx, req.Backends[i], req.Phases, ds, report.Params)
	}

	if s.settings.ParallelBackends {
		g, gctx := errgroup.WithContext(ctx)
		for i := range req.Backends {
			g.Go(func() error {
				pipeline(gctx, i)

				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i := range req.Backends {
			pipeline(ctx, i)
		}
	}
	report.Backends = sections

	if err := ctx.Err(); err != nil {
		return report, errors.WithStack(err)
	}

	return report, nil
}

func (s *harnessService) pipeline(
	ctx context.Context,
	backend entity.Backend,
	phases usecase.Phases,
	ds *entity.Dataset,
	params query.Params,
) benchmark.BackendReport {
	section := benchmark.BackendReport{Backend: backend}
	if c, ok := s.connectors[backend]; ok {
		section.Driver = c.Driver()
	}

	fail := func(phase string, err error) benchmark.BackendReport {
		s.logger.ErrorContext(ctx, "Backend pipeline failed",
			slog.String("backend", backend.String()),
			slog.String("phase", phase),
			slog.Any("error", err),
		)
		section.Error = err.Error()

		return section
	}

	if phases.Schema {
		if err := s.CreateSchema(ctx, backend); err != nil {
			return fail("schema", err)
		}
	}
	if phases.Load {
		stats, err := s.Load(ctx, backend, ds)
		if err != nil {
			return fail("load", err)
		}
		section.LoadDuration = stats.Duration
	}
	if phases.Bench {
		br, err := s.Benchmark(ctx, backend, params)
		if br != nil {
			section.Results = br.Results
		}
		if err != nil {
			return fail("bench", err)
		}
	}

	return section
}
