package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"techmarket/config"
	"techmarket/internal/benchmark"
	"techmarket/internal/catalog"
	"techmarket/internal/domain/entity"
	"techmarket/internal/domain/store"
	"techmarket/internal/generator"
	"techmarket/internal/infra/connect"
	logs "techmarket/internal/infra/log"
	"techmarket/internal/infra/persistence/cassandra"
	"techmarket/internal/infra/persistence/memory"
	"techmarket/internal/infra/persistence/mongo"
	"techmarket/internal/infra/persistence/relational"
	"techmarket/internal/infra/report"
	"techmarket/internal/loader"
	"techmarket/internal/usecase"
	"techmarket/internal/usecase/impl"

	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/fx"
)

// Supported subcommands:
// - schema: create tables, collections and indexes
// - load:   generate the dataset and write it
// - bench:  run Q1..Q6 and print the report
// - all:    schema + load + bench in one process

type cliOptions struct {
	Phases     usecase.Phases
	Backends   []entity.Backend
	ConfigPath string
}

type runParams struct {
	fx.In
	fx.Lifecycle
	fx.Shutdowner

	Options cliOptions
	Config  *config.Config
	Logger  *slog.Logger
	Harness usecase.HarnessUsecase
}

func main() {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		printUsage()
		os.Exit(2)
	}

	fx.New(
		fx.Supply(opts),
		injectInfra(),
		injectStore(),
		injectUsecase(),
		fx.Invoke(
			startHarness,
		),
	).Run()
}

func parseArgs(args []string) (cliOptions, error) {
	if len(args) < 1 {
		return cliOptions{}, errors.New("missing subcommand")
	}

	var phases usecase.Phases
	switch args[0] {
	case "schema":
		phases.Schema = true
	case "load":
		phases.Load = true
	case "bench":
		phases.Bench = true
	case "all":
		phases = usecase.AllPhases()
	default:
		return cliOptions{}, errors.Errorf("unknown subcommand %q", args[0])
	}

	cmd := flag.NewFlagSet(args[0], flag.ContinueOnError)
	backendFlag := cmd.String("backend", "", "Backend to target (wide_column, document, relational, all); defaults to benchmark.backends")
	configPath := cmd.String("config", "", "Path to a config yaml file")
	if err := cmd.Parse(args[1:]); err != nil {
		return cliOptions{}, errors.Wrapf(err, "failed to parse %s flags", args[0])
	}

	opts := cliOptions{Phases: phases, ConfigPath: *configPath}
	switch *backendFlag {
	case "":
	case "all":
		opts.Backends = entity.Backends()
	default:
		b, err := entity.ParseBackend(*backendFlag)
		if err != nil {
			return cliOptions{}, err
		}
		opts.Backends = []entity.Backend{b}
	}

	return opts, nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: techmarket <schema|load|bench|all> [-backend wide_column|document|relational|all] [-config path]")
}

func injectInfra() fx.Option {
	return fx.Provide(
		func(opts cliOptions) (*config.Config, error) {
			return config.Load(opts.ConfigPath)
		},
		logs.New,
	)
}

func injectStore() fx.Option {
	return fx.Provide(newConnectors)
}

// newConnectors picks the engine serving each backend kind. The in-process
// engines live as long as the process, so they only hold data for "all".
func newConnectors(cfg *config.Config, logger *slog.Logger) ([]store.Connector, error) {
	connectors := make([]store.Connector, 0, len(entity.Backends()))

	switch cfg.Drivers.WideColumn {
	case cassandra.Driver:
		connectors = append(connectors, cassandra.NewConnector(cfg, logger))
	case memory.Driver:
		connectors = append(connectors, memory.NewWideColumnConnector(memory.NewWideColumn()))
	default:
		return nil, errors.Errorf("unknown wide-column driver %q", cfg.Drivers.WideColumn)
	}

	switch cfg.Drivers.Document {
	case mongo.Driver:
		connectors = append(connectors, mongo.NewConnector(cfg, logger))
	case memory.Driver:
		connectors = append(connectors, memory.NewDocumentConnector(memory.NewDocument()))
	default:
		return nil, errors.Errorf("unknown document driver %q", cfg.Drivers.Document)
	}

	switch cfg.Drivers.Relational {
	case relational.DriverPostgres, relational.DriverSQLite:
		connectors = append(connectors, relational.NewConnector(cfg, logger, cfg.Drivers.Relational))
	default:
		return nil, errors.Errorf("unknown relational driver %q", cfg.Drivers.Relational)
	}

	return connectors, nil
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			newGenerator,
			newLoader,
			catalog.New,
			benchmark.NewRunner,
			newSettings,
			impl.NewHarnessService,
		),
	)
}

func newGenerator(cfg *config.Config) (*generator.Generator, error) {
	opts := []generator.Option{}
	ref, err := cfg.ReferenceTime()
	if err != nil {
		return nil, err
	}
	if !ref.IsZero() {
		opts = append(opts, generator.WithReference(ref))
	}
	if cfg.Dataset.MaxUniqueAttempts > 0 {
		opts = append(opts, generator.WithMaxAttempts(cfg.Dataset.MaxUniqueAttempts))
	}

	return generator.New(opts...), nil
}

func newLoader(cfg *config.Config, opts cliOptions, logger *slog.Logger) *loader.Loader {
	loaderOpts := []loader.Option{loader.WithBatchSize(cfg.Benchmark.LoadBatchSize)}
	if opts.Phases.Load {
		backends := len(targetBackends(cfg, opts))
		total := int64(cfg.Dataset.Customers+cfg.Dataset.Products+cfg.Dataset.Orders) * int64(backends)
		bar := progressbar.NewOptions64(total,
			progressbar.OptionSetDescription("loading"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(100 * time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
		loaderOpts = append(loaderOpts, loader.WithProgress(bar))
	}

	return loader.New(logger, loaderOpts...)
}

func newSettings(cfg *config.Config) impl.Settings {
	return impl.Settings{
		Seed: cfg.Dataset.Seed,
		Counts: entity.Counts{
			Customers: cfg.Dataset.Customers,
			Products:  cfg.Dataset.Products,
			Orders:    cfg.Dataset.Orders,
		},
		Runs:             cfg.Benchmark.Runs,
		ResultLimit:      cfg.Benchmark.ResultLimit,
		ParallelBackends: cfg.Benchmark.ParallelBackends,
		Retry: connect.Policy{
			MaxAttempts: cfg.Connect.MaxAttempts,
			Delay:       cfg.Connect.RetryDelay,
		},
	}
}

// targetBackends resolves the -backend flag against the configured list.
func targetBackends(cfg *config.Config, opts cliOptions) []entity.Backend {
	if len(opts.Backends) > 0 {
		return opts.Backends
	}
	backends := make([]entity.Backend, 0, len(cfg.Benchmark.Backends))
	for _, name := range cfg.Benchmark.Backends {
		if b, err := entity.ParseBackend(name); err == nil {
			backends = append(backends, b)
		}
	}

	return backends
}

func startHarness(params runParams) {
	ctx, cancel := context.WithCancel(context.Background())

	params.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				code := 0
				if err := runHarness(ctx, params); err != nil {
					params.Logger.Error("Harness failed", slog.Any("error", err))
					code = 1
				}

				if err := params.Shutdown(fx.ExitCode(code)); err != nil {
					params.Logger.Error("Failed to shutdown gracefully", slog.Any("error", err))
					os.Exit(1)
				}
			}()

			return nil
		},
		OnStop: func(context.Context) error {
			cancel()

			return nil
		},
	})
}

func runHarness(ctx context.Context, params runParams) error {
	req := usecase.RunRequest{
		Backends: targetBackends(params.Config, params.Options),
		Phases:   params.Options.Phases,
	}

	rep, err := params.Harness.Run(ctx, req)
	if err != nil {
		return err
	}

	var failed int
	for _, section := range rep.Backends {
		if section.Error != "" {
			failed++
		}
	}

	if req.Phases.Bench {
		format := params.Config.Benchmark.Report.Format
		if err := report.Render(os.Stdout, rep, format); err != nil {
			return err
		}
		if url := params.Config.Benchmark.Report.URL; url != "" {
			key := params.Config.Benchmark.Report.Key
			if key == "" {
				key = report.Key(rep, format)
			}
			if err := report.Publish(ctx, url, key, rep, format); err != nil {
				return err
			}
			params.Logger.Info("Report published", slog.String("url", url), slog.String("key", key))
		}
	}

	if failed > 0 {
		return errors.Errorf("%d of %d backends failed", failed, len(rep.Backends))
	}

	return nil
}
