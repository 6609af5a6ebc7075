// Package benchmark repeats query plans against a store and summarises the timings.
package benchmark

import (
	"context"
	"log/slog"
	"time"

	"techmarket/internal/domain/query"
)

// Measurement is the raw outcome of running one plan repeatedly.
type Measurement struct {
	Question   query.Question
	Samples    []time.Duration
	Rows       []query.Row // rows of the first run
	Exact      bool
	ClientSide bool
	Err        error
}

// Runner executes plans.
type Runner struct {
	logger *slog.Logger
}

// NewRunner creates a Runner.
func NewRunner(logger *slog.Logger) *Runner {
	return &Runner{logger: logger}
}

// Run executes plan runs times with identical parameters. A failing run stops
// the remaining repetitions of this plan; the error is kept in the measurement
// and also returned.
func (r *Runner) Run(ctx context.Context, q query.Querier, plan *query.Plan, runs int) (*Measurement, error) {
	m := &Measurement{
		Question:   plan.Question,
		Samples:    make([]time.Duration, 0, runs),
		Exact:      plan.Exact,
		ClientSide: plan.ClientSide,
	}

	for i := range runs {
		rows, elapsed, err := query.Execute(ctx, q, plan)
		if err != nil {
			m.Err = err
			r.logger.ErrorContext(ctx, "Query failed",
				slog.String("backend", plan.Backend.String()),
				slog.String("question", string(plan.Question)),
				slog.Int("run", i+1),
				slog.Any("error", err),
			)

			return m, err
		}
		if i == 0 {
			m.Rows = rows
		}
		m.Samples = append(m.Samples, elapsed)
	}

	r.logger.DebugContext(ctx, "Query measured",
		slog.String("backend", plan.Backend.String()),
		slog.String("question", string(plan.Question)),
		slog.Int("runs", len(m.Samples)),
	)

	return m, nil
}
