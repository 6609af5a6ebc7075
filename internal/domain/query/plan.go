package query

import (
	"context"
	"time"

	"techmarket/internal/domain/entity"
	domainerrors "techmarket/internal/domain/errors"
	"techmarket/internal/errors"
)

// Step produces one statement. prev holds the rows of the steps already run.
// Returning a nil Statement skips the step with an empty result.
type Step struct {
	Name  string
	Build func(prev [][]Row) (Statement, error)
}

// Plan is how one question is answered on one backend.
type Plan struct {
	Question Question
	Backend  entity.Backend
	Steps    []Step

	// Exact is false when the plan returns an approximation of the answer.
	Exact bool
	// ClientSide is true when the harness joins or aggregates rows itself.
	ClientSide bool

	// Finish shapes the step results into the answer. It runs outside the
	// timed window. Nil returns the last step's rows.
	Finish func(steps [][]Row) []Row
}

// Querier evaluates a statement and reports how long the store took,
// from submission through full materialization of the rows.
type Querier interface {
	Query(ctx context.Context, stmt Statement) ([]Row, time.Duration, error)
}

// Execute runs the plan once. The elapsed time is the sum of the store-measured
// step times; Finish is not included.
func Execute(ctx context.Context, q Querier, plan *Plan) ([]Row, time.Duration, error) {
	var elapsed time.Duration
	results := make([][]Row, 0, len(plan.Steps))

	for _, step := range plan.Steps {
		stmt, err := step.Build(results)
		if err != nil {
			return nil, elapsed, domainerrors.New(domainerrors.QueryFailure, plan.Backend.String(),
				string(plan.Question)+"/"+step.Name, err)
		}
		if stmt == nil {
			results = append(results, nil)

			continue
		}

		rows, took, err := q.Query(ctx, stmt)
		if err != nil {
			if _, ok := domainerrors.KindOf(err); ok {
				return nil, elapsed, err
			}

			return nil, elapsed, domainerrors.New(domainerrors.QueryFailure, plan.Backend.String(),
				string(plan.Question)+"/"+step.Name, errors.WithStack(err))
		}
		elapsed += took
		results = append(results, rows)
	}

	if plan.Finish != nil {
		return plan.Finish(results), elapsed, nil
	}
	if len(results) == 0 {
		return nil, elapsed, nil
	}

	return results[len(results)-1], elapsed, nil
}

// Static wraps a fixed statement as a step builder.
func Static(stmt Statement) func([][]Row) (Statement, error) {
	return func([][]Row) (Statement, error) {
		return stmt, nil
	}
}
