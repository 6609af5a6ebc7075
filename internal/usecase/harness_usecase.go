package usecase

import (
	"context"

	"techmarket/internal/benchmark"
	"techmarket/internal/domain/entity"
	"techmarket/internal/domain/query"
	"techmarket/internal/loader"
)

// Phases selects which steps of the pipeline run.
type Phases struct {
	Schema bool
	Load   bool
	Bench  bool
}

// AllPhases runs schema creation, loading and benchmarking.
func AllPhases() Phases {
	return Phases{Schema: true, Load: true, Bench: true}
}

// RunRequest describes one harness invocation
type RunRequest struct {
	Backends []entity.Backend
	Phases   Phases
}

// HarnessUsecase defines the benchmark pipeline use cases
type HarnessUsecase interface {
	// CreateSchema creates tables, collections and indexes on one backend
	CreateSchema(ctx context.Context, backend entity.Backend) error

	// Load writes the dataset into one backend
	Load(ctx context.Context, backend entity.Backend, ds *entity.Dataset) (*loader.Stats, error)

	// Benchmark runs every question against one backend
	Benchmark(ctx context.Context, backend entity.Backend, params query.Params) (*benchmark.BackendReport, error)

	// Run executes the requested phases for each backend and assembles the report.
	// Backend failures are recorded in the report rather than returned.
	Run(ctx context.Context, req RunRequest) (*benchmark.Report, error)
}
