package catalog

import (
	"context"
	"testing"
	"time"

	"techmarket/internal/domain/entity"
	"techmarket/internal/domain/query"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParams() query.Params {
	end := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	return query.Params{
		Email:           "ana@example.com",
		Category:        entity.CategoryGames,
		CustomerID:      uuid.New(),
		Status:          entity.OrderStatusDelivered,
		PaymentType:     entity.PaymentTypePix,
		Month:           end,
		SpendCustomerID: uuid.New(),
		WindowStart:     end.Add(-query.SpendWindow),
		WindowEnd:       end,
		ResultLimit:     10,
	}
}

func TestPlan_ShapesFollowCapabilities(t *testing.T) {
	c := New()
	p := testParams()

	tests := []struct {
		backend    entity.Backend
		question   query.Question
		steps      int
		exact      bool
		clientSide bool
	}{
		{entity.BackendRelational, query.Q1, 1, true, false},
		{entity.BackendDocument, query.Q1, 2, true, true},
		{entity.BackendWideColumn, query.Q1, 2, true, true},
		{entity.BackendRelational, query.Q4, 1, true, false},
		{entity.BackendDocument, query.Q4, 1, true, false},
		{entity.BackendWideColumn, query.Q4, 1, false, false},
		{entity.BackendDocument, query.Q6, 1, true, false},
		{entity.BackendWideColumn, query.Q6, 1, true, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.question)+"/"+tt.backend.String(), func(t *testing.T) {
			plan, err := c.Plan(tt.backend, tt.question, p)
			require.NoError(t, err)
			assert.Len(t, plan.Steps, tt.steps)
			assert.Equal(t, tt.exact, plan.Exact)
			assert.Equal(t, tt.clientSide, plan.ClientSide)
		})
	}
}

func TestPlan_CapabilityFlipChangesShape(t *testing.T) {
	c := New()
	c.caps = func(entity.Backend) entity.Capabilities {
		return entity.Capabilities{ServerSideJoin: false, ServerSideAggregation: false}
	}

	plan, err := c.Plan(entity.BackendRelational, query.Q1, testParams())
	require.NoError(t, err)
	assert.Len(t, plan.Steps, 2)
	assert.True(t, plan.ClientSide)

	plan, err = c.Plan(entity.BackendRelational, query.Q4, testParams())
	require.NoError(t, err)
	assert.False(t, plan.Exact)

	// A backend claiming a capability its dialect cannot express is rejected.
	c.caps = func(entity.Backend) entity.Capabilities {
		return entity.Capabilities{ServerSideJoin: true, ServerSideAggregation: true}
	}
	_, err = c.Plan(entity.BackendWideColumn, query.Q1, testParams())
	require.ErrorIs(t, err, ErrCapabilityMismatch)
	_, err = c.Plan(entity.BackendWideColumn, query.Q6, testParams())
	require.ErrorIs(t, err, ErrCapabilityMismatch)
}

func TestPlan_Errors(t *testing.T) {
	c := New()

	_, err := c.Plan(entity.BackendRelational, query.Question("Q9"), testParams())
	require.ErrorIs(t, err, ErrUnknownQuestion)

	_, err = c.Plan(entity.Backend("graph"), query.Q1, testParams())
	require.ErrorIs(t, err, ErrNoDialect)
}

func TestPlans_ReportOrder(t *testing.T) {
	plans, err := New().Plans(entity.BackendDocument, testParams())
	require.NoError(t, err)
	require.Len(t, plans, len(query.Questions()))
	for i, q := range query.Questions() {
		assert.Equal(t, q, plans[i].Question)
	}
}

func TestPlanQ5_UsesHalfOpenMonth(t *testing.T) {
	plan, err := New().Plan(entity.BackendWideColumn, query.Q5, testParams())
	require.NoError(t, err)

	stmt, err := plan.Steps[0].Build(nil)
	require.NoError(t, err)
	cql, ok := stmt.(query.CQL)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), cql.Range.From)
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), cql.Range.To)
	assert.False(t, cql.Range.ToInclusive)
	assert.Contains(t, cql.Partition, query.Term{Column: "year_month", Value: "2025-03"})
}

func TestPlanQ1_ClientSideComposition(t *testing.T) {
	p := testParams()
	plan, err := New().Plan(entity.BackendDocument, query.Q1, p)
	require.NoError(t, err)

	customerID := uuid.New()
	orderA, orderB := uuid.New(), uuid.New()
	rows := plan.Finish([][]query.Row{
		{{"customer_id": customerID, "name": "Ana", "email": p.Email}},
		{{"order_id": orderA}, {"order_id": orderB}},
	})
	require.Len(t, rows, 2)
	assert.Equal(t, customerID, rows[0]["customer_id"])
	assert.Equal(t, orderA, rows[0]["order_id"])
	assert.Equal(t, "Ana", rows[1]["name"])

	// Unknown email: the second step is skipped and the answer is empty.
	stmt, err := plan.Steps[1].Build([][]query.Row{nil})
	require.NoError(t, err)
	assert.Nil(t, stmt)
	assert.Empty(t, plan.Finish([][]query.Row{nil, nil}))
}

func TestPlanQ6_ZeroWhenNothingMatches(t *testing.T) {
	p := testParams()
	for _, b := range entity.Backends() {
		plan, err := New().Plan(b, query.Q6, p)
		require.NoError(t, err)

		rows, _, err := query.Execute(context.Background(), emptyQuerier{}, plan)
		require.NoError(t, err, b)
		require.Len(t, rows, 1, b)
		assert.Equal(t, p.SpendCustomerID, rows[0]["customer_id"], b)
		assert.InDelta(t, 0.0, rows[0]["total_spent"], 1e-9, b)
	}
}

type emptyQuerier struct{}

func (emptyQuerier) Query(context.Context, query.Statement) ([]query.Row, time.Duration, error) {
	return nil, 0, nil
}
