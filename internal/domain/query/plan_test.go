package query

import (
	"context"
	"testing"
	"time"

	"techmarket/internal/domain/entity"
	domainerrors "techmarket/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type querierFunc func(ctx context.Context, stmt Statement) ([]Row, time.Duration, error)

func (f querierFunc) Query(ctx context.Context, stmt Statement) ([]Row, time.Duration, error) {
	return f(ctx, stmt)
}

func TestExecute_SumsStepTimesAndSkipsFinish(t *testing.T) {
	customerID := uuid.New()
	var seen []string
	q := querierFunc(func(_ context.Context, stmt Statement) ([]Row, time.Duration, error) {
		seen = append(seen, stmt.Target())
		if stmt.Target() == "customers" {
			return []Row{{"customer_id": customerID}}, 3 * time.Millisecond, nil
		}

		return []Row{{"order_id": uuid.New()}, {"order_id": uuid.New()}}, 5 * time.Millisecond, nil
	})

	finished := false
	plan := &Plan{
		Question: Q1,
		Backend:  entity.BackendWideColumn,
		Steps: []Step{
			{Name: "customer", Build: Static(SQL{Table: "customers"})},
			{Name: "orders", Build: func(prev [][]Row) (Statement, error) {
				if prev[0][0]["customer_id"] != customerID {
					return nil, errors.New("customer not threaded through")
				}

				return SQL{Table: "orders"}, nil
			}},
		},
		Finish: func(steps [][]Row) []Row {
			finished = true
			time.Sleep(20 * time.Millisecond)

			return steps[1]
		},
	}

	rows, elapsed, err := Execute(context.Background(), q, plan)
	require.NoError(t, err)
	assert.True(t, finished)
	assert.Len(t, rows, 2)
	assert.Equal(t, 8*time.Millisecond, elapsed)
	assert.Equal(t, []string{"customers", "orders"}, seen)
}

func TestExecute_NilStatementSkipsStep(t *testing.T) {
	calls := 0
	q := querierFunc(func(context.Context, Statement) ([]Row, time.Duration, error) {
		calls++

		return nil, time.Millisecond, nil
	})

	plan := &Plan{
		Question: Q1,
		Steps: []Step{
			{Name: "customer", Build: Static(SQL{Table: "customers"})},
			{Name: "orders", Build: func([][]Row) (Statement, error) { return nil, nil }},
		},
	}

	rows, elapsed, err := Execute(context.Background(), q, plan)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, time.Millisecond, elapsed)
	assert.Equal(t, 1, calls)
}

func TestExecute_WrapsStoreErrorsAsQueryFailure(t *testing.T) {
	q := querierFunc(func(context.Context, Statement) ([]Row, time.Duration, error) {
		return nil, 0, errors.New("syntax error")
	})

	_, _, err := Execute(context.Background(), q, &Plan{
		Question: Q2,
		Backend:  entity.BackendRelational,
		Steps:    []Step{{Name: "products", Build: Static(SQL{Table: "products"})}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrQuery)
	assert.Contains(t, err.Error(), "Q2/products")
}

func TestNormalize(t *testing.T) {
	id := uuid.New()
	at := time.Date(2025, 1, 2, 3, 4, 5, 6_000_000, time.FixedZone("BRT", -3*3600))

	row := Normalize(Row{
		"order_id":    id.String(),
		"_id":         [16]byte(id),
		"price":       "19.90",
		"quantity":    int32(2),
		"total_sold":  float64(7),
		"ordered_at":  at,
		"paid_at":     "2025-01-02 06:04:05.006+00:00",
		"name":        "kept",
		"items":       []any{map[string]any{"product_id": id.String(), "unit_price": int64(5)}},
		"customer_id": "not-a-uuid",
	})

	assert.Equal(t, id, row["order_id"])
	assert.Equal(t, id, row["_id"])
	assert.Equal(t, 19.90, row["price"])
	assert.Equal(t, int64(2), row["quantity"])
	assert.Equal(t, int64(7), row["total_sold"])
	assert.Equal(t, at.UTC(), row["ordered_at"])
	assert.Equal(t, at.UTC(), row["paid_at"])
	assert.Equal(t, "kept", row["name"])
	assert.Equal(t, "not-a-uuid", row["customer_id"])

	items := row["items"].([]any)
	item := items[0].(map[string]any)
	assert.Equal(t, id, item["product_id"])
	assert.Equal(t, 5.0, item["unit_price"])
}

func TestParams_MonthRange(t *testing.T) {
	p := Params{Month: time.Date(2024, 12, 17, 22, 0, 0, 0, time.UTC)}

	from, to := p.MonthRange()
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), to)
}
